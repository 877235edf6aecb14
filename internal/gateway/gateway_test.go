package gateway_test

import (
	"context"
	"os"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-portal/internal/domain"
	"github.com/feral-file/ff-portal/internal/gateway"
	"github.com/feral-file/ff-portal/internal/logger"
	"github.com/feral-file/ff-portal/internal/mocks"
	"github.com/feral-file/ff-portal/internal/registry"
	"github.com/feral-file/ff-portal/internal/store"
	"github.com/feral-file/ff-portal/internal/wire"
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

const trustedRelay = "relay-main"

var (
	authority      = domain.AssetRef{0xad, 0x01}
	remoteContract = domain.AssetRef{0xc0, 0xff, 0xee}
	recipient      = domain.AssetRef{0xbe, 0xef}
)

func newTestGateway(t *testing.T, receiver gateway.AssetReceiver) gateway.Gateway {
	t.Helper()
	ctx := context.Background()

	dir := registry.NewDirectory(store.NewMemStore(), authority)
	require.NoError(t, dir.SetConnectedContract(ctx, authority, domain.ChainEthereumSepolia, remoteContract))

	return gateway.New(trustedRelay, dir, receiver)
}

func transferEnvelope(t *testing.T) *gateway.Envelope {
	t.Helper()
	payload := &wire.TransferPayload{
		TokenID:            domain.TokenID{0x01},
		SourceChainID:      domain.ChainEthereumSepolia,
		DestinationChainID: domain.ChainBaseSepolia,
		RecipientRef:       recipient,
		MetadataURI:        "ipfs://QmTest",
		Nonce:              7,
		EmbeddedAssetRef:   remoteContract,
	}
	data, err := payload.Marshal()
	require.NoError(t, err)

	return &gateway.Envelope{
		MessageID:     "01J0000000000000000000TEST",
		RelayID:       trustedRelay,
		SourceChainID: uint64(domain.ChainEthereumSepolia),
		Sender:        remoteContract.String(),
		Kind:          domain.MessageKindTransfer,
		Payload:       data,
	}
}

func TestHandleDispatchesTransfer(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	receiver := mocks.NewMockAssetReceiver(ctrl)
	gw := newTestGateway(t, receiver)
	env := transferEnvelope(t)

	receiver.EXPECT().
		OnArrive(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, arrival *gateway.Arrival) error {
			assert.Equal(t, env.MessageID, arrival.MessageID)
			assert.Equal(t, domain.ChainEthereumSepolia, arrival.SourceChainID)
			require.NotNil(t, arrival.Payload)
			assert.Equal(t, uint64(7), arrival.Payload.Nonce)
			assert.True(t, recipient.Equal(arrival.Payload.RecipientRef))
			return nil
		})

	assert.NoError(t, gw.Handle(context.Background(), env))
}

func TestHandleDispatchesRevert(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	receiver := mocks.NewMockAssetReceiver(ctrl)
	gw := newTestGateway(t, receiver)

	state := &wire.RevertState{
		Sender:        domain.AssetRef{0x5e, 0x11},
		SenderChainID: domain.ChainBaseSepolia,
		GasLimit:      250_000,
	}
	data, err := state.Marshal()
	require.NoError(t, err)

	env := transferEnvelope(t)
	env.Kind = domain.MessageKindRevert
	env.Payload = data
	env.Amount = "1000000"
	env.AssetRef = remoteContract.String()

	receiver.EXPECT().
		OnReverted(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, reversion *gateway.Reversion) error {
			require.NotNil(t, reversion.State)
			assert.Equal(t, domain.ChainBaseSepolia, reversion.State.SenderChainID)
			assert.Equal(t, "1000000", reversion.Amount.Dec())
			assert.True(t, remoteContract.Equal(reversion.AssetRef))
			return nil
		})

	assert.NoError(t, gw.Handle(context.Background(), env))
}

func TestHandleAuthentication(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(env *gateway.Envelope)
		wantErr error
	}{
		{
			name:    "unknown relay",
			mutate:  func(env *gateway.Envelope) { env.RelayID = "relay-impostor" },
			wantErr: domain.ErrUnauthorized,
		},
		{
			name:    "sender is not the connected contract",
			mutate:  func(env *gateway.Envelope) { env.Sender = "0xdeadbeef" },
			wantErr: domain.ErrUnauthorized,
		},
		{
			name: "no connected contract for source chain",
			mutate: func(env *gateway.Envelope) {
				env.SourceChainID = uint64(domain.ChainEthereumMainnet)
			},
			wantErr: domain.ErrUnauthorized,
		},
		{
			name:    "missing sender",
			mutate:  func(env *gateway.Envelope) { env.Sender = "" },
			wantErr: domain.ErrInvalidMessage,
		},
		{
			name:    "unknown message kind",
			mutate:  func(env *gateway.Envelope) { env.Kind = domain.MessageKind("mystery") },
			wantErr: domain.ErrInvalidMessage,
		},
		{
			name:    "malformed amount",
			mutate:  func(env *gateway.Envelope) { env.Amount = "not-a-number" },
			wantErr: domain.ErrInvalidMessage,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			// receiver must never be reached
			receiver := mocks.NewMockAssetReceiver(ctrl)
			gw := newTestGateway(t, receiver)

			env := transferEnvelope(t)
			tc.mutate(env)

			err := gw.Handle(context.Background(), env)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestHandleRejectsTruncatedPayload(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	receiver := mocks.NewMockAssetReceiver(ctrl)
	gw := newTestGateway(t, receiver)

	env := transferEnvelope(t)
	env.Payload = env.Payload[:4]

	err := gw.Handle(context.Background(), env)
	assert.ErrorIs(t, err, domain.ErrInvalidMessage)
}
