package store

import (
	"context"

	"github.com/feral-file/ff-portal/internal/store/schema"
)

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// Atomic runs fn against a transaction-scoped store; every mutation inside
	// commits together or not at all
	Atomic(ctx context.Context, fn func(tx Store) error) error

	// CreateOriginRecord inserts a new origin record; returns
	// domain.ErrOriginExists when a record for the token id already exists
	CreateOriginRecord(ctx context.Context, record *schema.OriginRecord) error
	// GetOriginRecord retrieves an origin record by token id, nil when absent
	GetOriginRecord(ctx context.Context, tokenID string) (*schema.OriginRecord, error)
	// UpdateOriginMetadata updates metadata_uri (and, when non-nil, the pinned
	// metadata digest), never touching immutable fields
	UpdateOriginMetadata(ctx context.Context, tokenID string, metadataURI string, metadataDigest *string) error

	// InsertReplayMarker consumes a (source chain, nonce) pair; returns
	// domain.ErrReplayDetected when the pair was consumed before
	InsertReplayMarker(ctx context.Context, sourceChainID uint64, nonce uint64) error

	// UpsertConnectedContract sets the single trusted counterparty for a chain
	UpsertConnectedContract(ctx context.Context, chainID uint64, contractRef string) error
	// GetConnectedContract retrieves the trusted counterparty for a chain, nil when absent
	GetConnectedContract(ctx context.Context, chainID uint64) (*schema.ConnectedContract, error)

	// GetCollectionStats retrieves the counters for a collection, nil when absent
	GetCollectionStats(ctx context.Context, collectionRef string) (*schema.CollectionStats, error)
	// NextTokenID returns the collection's current next-token-id counter and
	// advances it; the returned value is never handed out twice
	NextTokenID(ctx context.Context, collectionRef string) (uint64, error)
	// IncrementMintCounters bumps total_minted and, when native, native_count
	IncrementMintCounters(ctx context.Context, collectionRef string, native bool) error
	// NextOutboundNonce returns the collection's current outbound nonce and advances it
	NextOutboundNonce(ctx context.Context, collectionRef string) (uint64, error)

	// GetLocalToken retrieves the local representation for a token id, nil when absent
	GetLocalToken(ctx context.Context, tokenID string) (*schema.LocalToken, error)
	// UpsertLocalToken creates or re-activates a local representation
	UpsertLocalToken(ctx context.Context, token *schema.LocalToken) error
	// DeactivateLocalToken marks a live representation as burned/locked;
	// returns domain.ErrTransferFailed when the token is absent or not live
	DeactivateLocalToken(ctx context.Context, tokenID string) error

	// UpsertApproval sets a spender allowance for (owner, spender, asset)
	UpsertApproval(ctx context.Context, approval *schema.Approval) error
	// GetApproval retrieves an allowance, nil when absent
	GetApproval(ctx context.Context, ownerRef, spenderRef, assetRef string) (*schema.Approval, error)

	// RecordProcessedMessage writes the per-message audit row; returns
	// domain.ErrReplayDetected when the message id was recorded before
	RecordProcessedMessage(ctx context.Context, msg *schema.ProcessedMessage) error
}
