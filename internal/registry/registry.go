// Package registry implements the origin registry: the single source of
// truth for where each asset was originally created, plus the per-chain
// directory of trusted counterparty contracts.
package registry

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/feral-file/ff-portal/internal/domain"
	"github.com/feral-file/ff-portal/internal/logger"
	"github.com/feral-file/ff-portal/internal/store"
	"github.com/feral-file/ff-portal/internal/store/schema"
)

// Registry defines the origin registry operations
//
//go:generate mockgen -source=registry.go -destination=../mocks/registry.go -package=mocks -mock_names=Registry=MockRegistry
type Registry interface {
	// Create records an asset's origin exactly once; returns
	// domain.ErrOriginExists when the token id already has a record
	Create(ctx context.Context, input CreateInput) (*domain.OriginRecord, error)
	// Get retrieves an origin record; returns domain.ErrOriginNotFound when absent
	Get(ctx context.Context, tokenID domain.TokenID) (*domain.OriginRecord, error)
	// UpdateMetadata updates the mutable metadata pointer; only the registry
	// authority may call it, and immutable fields are never touched
	UpdateMetadata(ctx context.Context, caller domain.AssetRef, tokenID domain.TokenID, newURI string, metadataDoc []byte) error
	// LocalChainID returns the id of the ledger this registry lives on
	LocalChainID() domain.ChainID
	// WithStore rebinds the registry to a transaction-scoped store
	WithStore(s store.Store) Registry
}

// CreateInput carries everything needed to create an origin record
type CreateInput struct {
	TokenID          domain.TokenID
	OriginalAssetRef domain.AssetRef
	CollectionRef    domain.CollectionRef
	OriginChainID    domain.ChainID
	MetadataURI      string
	// MetadataDoc is the optional off-chain metadata document; when present
	// its canonical digest is pinned on the record
	MetadataDoc    []byte
	CreatedAtBlock uint64
}

type registry struct {
	store        store.Store
	localChainID domain.ChainID
	authority    domain.AssetRef
}

// New creates a registry for the given local chain, administered by authority
func New(s store.Store, localChainID domain.ChainID, authority domain.AssetRef) Registry {
	return &registry{
		store:        s,
		localChainID: localChainID,
		authority:    authority,
	}
}

// WithStore rebinds the registry to a transaction-scoped store
func (r *registry) WithStore(s store.Store) Registry {
	return &registry{
		store:        s,
		localChainID: r.localChainID,
		authority:    r.authority,
	}
}

// LocalChainID returns the id of the ledger this registry lives on
func (r *registry) LocalChainID() domain.ChainID {
	return r.localChainID
}

// Create records an asset's origin exactly once
func (r *registry) Create(ctx context.Context, input CreateInput) (*domain.OriginRecord, error) {
	if input.TokenID.IsZero() {
		return nil, fmt.Errorf("%w: zero token id", domain.ErrInvalidMessage)
	}
	if input.OriginalAssetRef.IsZero() {
		return nil, fmt.Errorf("%w: zero original asset ref", domain.ErrInvalidAddress)
	}

	// isNative is computed exactly once, here, and never recomputed
	isNative := input.OriginChainID == r.localChainID

	record := &schema.OriginRecord{
		TokenID:          input.TokenID.String(),
		OriginalAssetRef: input.OriginalAssetRef.String(),
		CollectionRef:    string(input.CollectionRef),
		OriginChainID:    uint64(input.OriginChainID),
		IsNative:         isNative,
		MetadataURI:      input.MetadataURI,
		CreatedAtBlock:   input.CreatedAtBlock,
	}

	if len(input.MetadataDoc) > 0 {
		digest, err := MetadataDigest(input.MetadataDoc)
		if err != nil {
			return nil, err
		}
		record.MetadataDigest = &digest
	}

	if err := r.store.CreateOriginRecord(ctx, record); err != nil {
		return nil, err
	}

	if err := r.store.IncrementMintCounters(ctx, string(input.CollectionRef), isNative); err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "Origin record created",
		zap.String("tokenID", input.TokenID.String()),
		zap.Uint64("originChainID", uint64(input.OriginChainID)),
		zap.Bool("isNative", isNative),
		zap.String("collection", string(input.CollectionRef)),
	)

	return &domain.OriginRecord{
		TokenID:          input.TokenID,
		OriginalAssetRef: input.OriginalAssetRef,
		CollectionRef:    input.CollectionRef,
		OriginChainID:    input.OriginChainID,
		IsNative:         isNative,
		MetadataURI:      input.MetadataURI,
		CreatedAtBlock:   input.CreatedAtBlock,
	}, nil
}

// Get retrieves an origin record by token id
func (r *registry) Get(ctx context.Context, tokenID domain.TokenID) (*domain.OriginRecord, error) {
	row, err := r.store.GetOriginRecord(ctx, tokenID.String())
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrOriginNotFound, tokenID)
	}

	assetRef, err := domain.AssetRefFromHex(row.OriginalAssetRef)
	if err != nil {
		return nil, fmt.Errorf("corrupt origin record %s: %w", tokenID, err)
	}

	return &domain.OriginRecord{
		TokenID:          tokenID,
		OriginalAssetRef: assetRef,
		CollectionRef:    domain.CollectionRef(row.CollectionRef),
		OriginChainID:    domain.ChainID(row.OriginChainID),
		IsNative:         row.IsNative,
		MetadataURI:      row.MetadataURI,
		CreatedAtBlock:   row.CreatedAtBlock,
	}, nil
}

// UpdateMetadata updates the mutable metadata pointer of an existing record
func (r *registry) UpdateMetadata(ctx context.Context, caller domain.AssetRef, tokenID domain.TokenID, newURI string, metadataDoc []byte) error {
	if !caller.Equal(r.authority) {
		return fmt.Errorf("%w: caller %s is not the registry authority", domain.ErrUnauthorized, caller)
	}

	var digest *string
	if len(metadataDoc) > 0 {
		d, err := MetadataDigest(metadataDoc)
		if err != nil {
			return err
		}
		digest = &d
	}

	return r.store.UpdateOriginMetadata(ctx, tokenID.String(), newURI, digest)
}
