package reception_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-portal/internal/adapter"
	"github.com/feral-file/ff-portal/internal/domain"
	"github.com/feral-file/ff-portal/internal/gateway"
	"github.com/feral-file/ff-portal/internal/guard"
	"github.com/feral-file/ff-portal/internal/logger"
	"github.com/feral-file/ff-portal/internal/reception"
	"github.com/feral-file/ff-portal/internal/registry"
	"github.com/feral-file/ff-portal/internal/store"
	"github.com/feral-file/ff-portal/internal/tokens"
	"github.com/feral-file/ff-portal/internal/wire"
)

const localChain = domain.ChainBaseSepolia

var (
	authority   = domain.AssetRef{0xad, 0x01}
	originAsset = domain.AssetRef{0x0a, 0x55, 0xe7}
	alice       = domain.AssetRef{0xa1, 0x1c, 0xe0}
	bob         = domain.AssetRef{0xb0, 0xb0, 0xb0}
	testToken   = domain.TokenID{0x01, 0x02}
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

type fixture struct {
	machine  reception.StateMachine
	registry registry.Registry
	ledger   tokens.Ledger
}

func newFixture() *fixture {
	s := store.NewMemStore()
	reg := registry.New(s, localChain, authority)
	ledger := tokens.NewLedger(s)
	return &fixture{
		machine:  reception.New(s, guard.New(s), reg, ledger, adapter.NewJSON()),
		registry: reg,
		ledger:   ledger,
	}
}

func arrival(nonce uint64, recipient domain.AssetRef) *gateway.Arrival {
	return &gateway.Arrival{
		MessageID:     "01J000000000000000000TEST0",
		SourceChainID: domain.ChainEthereumSepolia,
		Payload: &wire.TransferPayload{
			TokenID:            testToken,
			SourceChainID:      domain.ChainEthereumSepolia,
			DestinationChainID: localChain,
			RecipientRef:       recipient,
			MetadataURI:        "ipfs://QmMeta",
			Nonce:              nonce,
			EmbeddedAssetRef:   originAsset,
		},
	}
}

func TestFirstArrivalCreatesOrigin(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	require.NoError(t, f.machine.HandleArrival(ctx, arrival(1, alice)))

	record, err := f.registry.Get(ctx, testToken)
	require.NoError(t, err)
	assert.Equal(t, domain.ChainEthereumSepolia, record.OriginChainID)
	assert.True(t, originAsset.Equal(record.OriginalAssetRef))
	assert.False(t, record.IsNative)
	assert.Equal(t, "ipfs://QmMeta", record.MetadataURI)
	assert.Equal(t, domain.CollectionRef("11155111:"+originAsset.String()), record.CollectionRef)

	owner, err := f.ledger.OwnerOf(ctx, testToken)
	require.NoError(t, err)
	assert.True(t, alice.Equal(owner))
}

func TestFirstArrivalRequiresEmbeddedAssetRef(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	a := arrival(1, alice)
	a.Payload.EmbeddedAssetRef = nil
	err := f.machine.HandleArrival(ctx, a)
	assert.ErrorIs(t, err, domain.ErrInvalidMessage)

	// nothing was created
	_, err = f.registry.Get(ctx, testToken)
	assert.ErrorIs(t, err, domain.ErrOriginNotFound)

	// the replay key was rolled back with the rest of the transaction
	a = arrival(1, alice)
	require.NoError(t, f.machine.HandleArrival(ctx, a))
}

func TestReplayRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	require.NoError(t, f.machine.HandleArrival(ctx, arrival(1, alice)))
	require.NoError(t, f.ledger.Burn(ctx, testToken))

	// same replay key again, even though the token could otherwise be restored
	err := f.machine.HandleArrival(ctx, arrival(1, bob))
	assert.ErrorIs(t, err, domain.ErrReplayDetected)

	owner, err := f.ledger.OwnerOf(ctx, testToken)
	require.NoError(t, err)
	assert.Nil(t, owner)
}

func TestRestorePreservesProvenance(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	require.NoError(t, f.machine.HandleArrival(ctx, arrival(1, alice)))
	before, err := f.registry.Get(ctx, testToken)
	require.NoError(t, err)

	require.NoError(t, f.ledger.Burn(ctx, testToken))

	// the asset comes back with a new nonce, a new recipient, and a metadata
	// uri the origin record must not pick up
	a := arrival(2, bob)
	a.Payload.MetadataURI = "ipfs://QmTampered"
	require.NoError(t, f.machine.HandleArrival(ctx, a))

	after, err := f.registry.Get(ctx, testToken)
	require.NoError(t, err)
	assert.Equal(t, before.OriginChainID, after.OriginChainID)
	assert.True(t, before.OriginalAssetRef.Equal(after.OriginalAssetRef))
	assert.Equal(t, before.CollectionRef, after.CollectionRef)
	assert.Equal(t, before.MetadataURI, after.MetadataURI)

	owner, err := f.ledger.OwnerOf(ctx, testToken)
	require.NoError(t, err)
	assert.True(t, bob.Equal(owner))
}

func TestArrivalForLiveTokenRollsBackReplayKey(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	require.NoError(t, f.machine.HandleArrival(ctx, arrival(1, alice)))

	// the token is still live locally, so the mint fails and the whole
	// transaction, replay key included, rolls back
	err := f.machine.HandleArrival(ctx, arrival(2, bob))
	assert.ErrorIs(t, err, domain.ErrTransferFailed)

	require.NoError(t, f.ledger.Burn(ctx, testToken))

	// nonce 2 is replayable because its earlier consumption never committed
	require.NoError(t, f.machine.HandleArrival(ctx, arrival(2, bob)))
}

func TestArrivalValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	err := f.machine.HandleArrival(ctx, &gateway.Arrival{MessageID: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidMessage)

	a := arrival(1, nil)
	err = f.machine.HandleArrival(ctx, a)
	assert.ErrorIs(t, err, domain.ErrInvalidMessage)
}
