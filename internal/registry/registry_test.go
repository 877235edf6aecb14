package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-portal/internal/domain"
	"github.com/feral-file/ff-portal/internal/logger"
	"github.com/feral-file/ff-portal/internal/store"
)

const localChain = domain.ChainID(103)

var (
	authority = domain.AssetRef{0xad, 0x01}
	stranger  = domain.AssetRef{0xbd, 0x02}
)

func init() {
	_ = logger.Initialize(logger.Config{Debug: true})
}

func newTestRegistry(t *testing.T) (Registry, store.Store) {
	s := store.NewMemStore()
	return New(s, localChain, authority), s
}

func testTokenID(fill byte) domain.TokenID {
	var id domain.TokenID
	for i := range id {
		id[i] = fill
	}
	return id
}

func TestCreateNative(t *testing.T) {
	r, s := newTestRegistry(t)
	ctx := context.Background()

	record, err := r.Create(ctx, CreateInput{
		TokenID:          testTokenID(0x01),
		OriginalAssetRef: domain.AssetRef{0x0a},
		CollectionRef:    "exhibit-1",
		OriginChainID:    localChain,
		MetadataURI:      "ipfs://QmNative/1.json",
		CreatedAtBlock:   100,
	})
	require.NoError(t, err)
	assert.True(t, record.IsNative)
	assert.Equal(t, localChain, record.OriginChainID)

	stats, err := s.GetCollectionStats(ctx, "exhibit-1")
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, uint64(1), stats.TotalMinted)
	assert.Equal(t, uint64(1), stats.NativeCount)
}

func TestCreateForeign(t *testing.T) {
	r, s := newTestRegistry(t)
	ctx := context.Background()

	record, err := r.Create(ctx, CreateInput{
		TokenID:          testTokenID(0x02),
		OriginalAssetRef: domain.AssetRef{0x0b},
		CollectionRef:    "exhibit-1",
		OriginChainID:    domain.ChainBaseSepolia,
		MetadataURI:      "ipfs://QmForeign/1.json",
		CreatedAtBlock:   200,
	})
	require.NoError(t, err)
	assert.False(t, record.IsNative)
	assert.Equal(t, domain.ChainBaseSepolia, record.OriginChainID)

	stats, err := s.GetCollectionStats(ctx, "exhibit-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), stats.TotalMinted)
	assert.Equal(t, uint64(0), stats.NativeCount)
}

func TestCreateTwiceFails(t *testing.T) {
	r, _ := newTestRegistry(t)
	ctx := context.Background()

	input := CreateInput{
		TokenID:          testTokenID(0x03),
		OriginalAssetRef: domain.AssetRef{0x0c},
		CollectionRef:    "exhibit-1",
		OriginChainID:    localChain,
		MetadataURI:      "ipfs://x",
	}
	_, err := r.Create(ctx, input)
	require.NoError(t, err)

	_, err = r.Create(ctx, input)
	assert.ErrorIs(t, err, domain.ErrOriginExists)
}

func TestCreateValidation(t *testing.T) {
	r, _ := newTestRegistry(t)
	ctx := context.Background()

	_, err := r.Create(ctx, CreateInput{
		OriginalAssetRef: domain.AssetRef{0x0c},
		CollectionRef:    "exhibit-1",
		OriginChainID:    localChain,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidMessage)

	_, err = r.Create(ctx, CreateInput{
		TokenID:       testTokenID(0x04),
		CollectionRef: "exhibit-1",
		OriginChainID: localChain,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAddress)
}

func TestGetNotFound(t *testing.T) {
	r, _ := newTestRegistry(t)

	_, err := r.Get(context.Background(), testTokenID(0x44))
	assert.ErrorIs(t, err, domain.ErrOriginNotFound)
}

func TestGetRoundTrip(t *testing.T) {
	r, _ := newTestRegistry(t)
	ctx := context.Background()

	input := CreateInput{
		TokenID:          testTokenID(0x05),
		OriginalAssetRef: domain.AssetRef{0x0d, 0x0e},
		CollectionRef:    "exhibit-2",
		OriginChainID:    domain.ChainEthereumSepolia,
		MetadataURI:      "ipfs://QmGet/5.json",
		CreatedAtBlock:   321,
	}
	created, err := r.Create(ctx, input)
	require.NoError(t, err)

	got, err := r.Get(ctx, input.TokenID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestUpdateMetadataAuthority(t *testing.T) {
	r, _ := newTestRegistry(t)
	ctx := context.Background()

	tokenID := testTokenID(0x06)
	_, err := r.Create(ctx, CreateInput{
		TokenID:          tokenID,
		OriginalAssetRef: domain.AssetRef{0x0f},
		CollectionRef:    "exhibit-2",
		OriginChainID:    localChain,
		MetadataURI:      "ipfs://QmOld",
	})
	require.NoError(t, err)

	// Non-authority callers are rejected
	err = r.UpdateMetadata(ctx, stranger, tokenID, "ipfs://QmEvil", nil)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	require.NoError(t, r.UpdateMetadata(ctx, authority, tokenID, "ipfs://QmNew", nil))

	got, err := r.Get(ctx, tokenID)
	require.NoError(t, err)
	assert.Equal(t, "ipfs://QmNew", got.MetadataURI)
	// Immutable fields survive the update
	assert.True(t, got.IsNative)
	assert.Equal(t, localChain, got.OriginChainID)
}

func TestMetadataDigestCanonical(t *testing.T) {
	// Key order and whitespace do not change the digest
	a, err := MetadataDigest([]byte(`{"name":"Portal #1","image":"ipfs://QmImg"}`))
	require.NoError(t, err)
	b, err := MetadataDigest([]byte(`{ "image": "ipfs://QmImg", "name": "Portal #1" }`))
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := MetadataDigest([]byte(`{"name":"Portal #2","image":"ipfs://QmImg"}`))
	require.NoError(t, err)
	assert.NotEqual(t, a, c)

	_, err = MetadataDigest([]byte(`not json`))
	assert.ErrorIs(t, err, domain.ErrInvalidMessage)
}

func TestDirectory(t *testing.T) {
	s := store.NewMemStore()
	d := NewDirectory(s, authority)
	ctx := context.Background()

	got, err := d.ConnectedContract(ctx, domain.ChainEthereumSepolia)
	require.NoError(t, err)
	assert.Nil(t, got)

	remote := domain.AssetRef{0xc0, 0xff, 0xee}
	err = d.SetConnectedContract(ctx, stranger, domain.ChainEthereumSepolia, remote)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	err = d.SetConnectedContract(ctx, authority, domain.ChainEthereumSepolia, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidAddress)

	require.NoError(t, d.SetConnectedContract(ctx, authority, domain.ChainEthereumSepolia, remote))

	got, err = d.ConnectedContract(ctx, domain.ChainEthereumSepolia)
	require.NoError(t, err)
	assert.Equal(t, remote, got)
}
