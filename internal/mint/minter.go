// Package mint implements native asset creation: an asset born on this
// ledger gets its token id derived, its origin record written with the local
// chain as the permanent origin, and its first representation minted, all in
// one storage transaction.
package mint

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/feral-file/ff-portal/internal/domain"
	"github.com/feral-file/ff-portal/internal/logger"
	"github.com/feral-file/ff-portal/internal/registry"
	"github.com/feral-file/ff-portal/internal/store"
	"github.com/feral-file/ff-portal/internal/tokenid"
	"github.com/feral-file/ff-portal/internal/tokens"
)

// Input parameterizes one native mint
type Input struct {
	// AssetRef is the asset's reference on this ledger, recorded permanently
	// as the original reference
	AssetRef domain.AssetRef
	// Owner receives the freshly minted representation
	Owner domain.AssetRef
	// MetadataURI is the initial metadata pointer
	MetadataURI string
	// MetadataDoc is the optional off-chain metadata document; when present
	// its canonical digest is pinned on the record
	MetadataDoc []byte
	// BlockHeight is the ledger height at creation, folded into the token id
	BlockHeight uint64
}

// Minter creates native assets on the local ledger
//
//go:generate mockgen -source=minter.go -destination=../mocks/mint.go -package=mocks -mock_names=Minter=MockMinter
type Minter interface {
	// Mint derives the token id, creates the origin record, and mints the
	// first representation; any failure rolls the whole run back
	Mint(ctx context.Context, input Input) (*domain.OriginRecord, error)
}

type minter struct {
	store    store.Store
	registry registry.Registry
	ledger   tokens.Ledger
}

// New creates a native minter
func New(s store.Store, r registry.Registry, l tokens.Ledger) Minter {
	return &minter{
		store:    s,
		registry: r,
		ledger:   l,
	}
}

// Mint creates a native asset in one transaction
func (m *minter) Mint(ctx context.Context, input Input) (*domain.OriginRecord, error) {
	if input.AssetRef.IsZero() {
		return nil, fmt.Errorf("%w: mint has no asset ref", domain.ErrInvalidAddress)
	}
	if input.Owner.IsZero() {
		return nil, fmt.Errorf("%w: mint has no owner", domain.ErrInvalidAddress)
	}

	localChainID := m.registry.LocalChainID()
	collection := collectionFor(localChainID, input.AssetRef)

	var record *domain.OriginRecord
	err := m.store.Atomic(ctx, func(tx store.Store) error {
		// The counter advance, the derivation, the record, and the mint share
		// one transaction; the counter never advances for a failed mint.
		counter, err := tx.NextTokenID(ctx, string(collection))
		if err != nil {
			return err
		}

		tokenID, err := tokenid.Derive(input.AssetRef, input.BlockHeight, counter)
		if err != nil {
			return err
		}

		record, err = m.registry.WithStore(tx).Create(ctx, registry.CreateInput{
			TokenID:          tokenID,
			OriginalAssetRef: input.AssetRef,
			CollectionRef:    collection,
			OriginChainID:    localChainID,
			MetadataURI:      input.MetadataURI,
			MetadataDoc:      input.MetadataDoc,
			CreatedAtBlock:   input.BlockHeight,
		})
		if err != nil {
			return err
		}

		return m.ledger.WithStore(tx).Mint(ctx, tokenID, input.Owner)
	})
	if err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "Native asset minted",
		zap.String("tokenID", record.TokenID.String()),
		zap.String("assetRef", input.AssetRef.String()),
		zap.String("owner", input.Owner.String()),
	)
	return record, nil
}

// collectionFor groups native assets by their source contract, the same
// derivation the reception path uses for foreign arrivals
func collectionFor(chainID domain.ChainID, assetRef domain.AssetRef) domain.CollectionRef {
	return domain.CollectionRef(fmt.Sprintf("%d:%s", chainID, assetRef))
}
