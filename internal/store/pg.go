package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/feral-file/ff-portal/internal/domain"
	"github.com/feral-file/ff-portal/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM
// database connection. Zero values fall back to the defaults applied by
// NormalizeConnectionPoolSettings.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings
// into safe values.
//
// Defaults (when zero):
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
//
// Notes:
//   - database/sql treats MaxOpenConns=0 as "unlimited"
//   - database/sql treats MaxIdleConns=0 as "no idle connections"
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// Atomic runs fn against a transaction-scoped store
func (s *pgStore) Atomic(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&pgStore{db: tx})
	})
}

// CreateOriginRecord inserts a new origin record exactly once per token id
func (s *pgStore) CreateOriginRecord(ctx context.Context, record *schema.OriginRecord) error {
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token_id"}},
		DoNothing: true,
	}).Create(record)
	if result.Error != nil {
		return fmt.Errorf("failed to create origin record: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: token id %s", domain.ErrOriginExists, record.TokenID)
	}
	return nil
}

// GetOriginRecord retrieves an origin record by token id
func (s *pgStore) GetOriginRecord(ctx context.Context, tokenID string) (*schema.OriginRecord, error) {
	var record schema.OriginRecord
	err := s.db.WithContext(ctx).Where("token_id = ?", tokenID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get origin record: %w", err)
	}
	return &record, nil
}

// UpdateOriginMetadata updates the metadata URI of an existing origin record
func (s *pgStore) UpdateOriginMetadata(ctx context.Context, tokenID string, metadataURI string, metadataDigest *string) error {
	updates := map[string]interface{}{
		"metadata_uri": metadataURI,
		"updated_at":   time.Now(),
	}
	if metadataDigest != nil {
		updates["metadata_digest"] = *metadataDigest
	}
	result := s.db.WithContext(ctx).Model(&schema.OriginRecord{}).
		Where("token_id = ?", tokenID).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update origin metadata: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: token id %s", domain.ErrOriginNotFound, tokenID)
	}
	return nil
}

// InsertReplayMarker consumes a (source chain, nonce) pair at most once
func (s *pgStore) InsertReplayMarker(ctx context.Context, sourceChainID uint64, nonce uint64) error {
	marker := schema.ReplayMarker{
		SourceChainID: sourceChainID,
		Nonce:         nonce,
	}
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "source_chain_id"}, {Name: "nonce"}},
		DoNothing: true,
	}).Create(&marker)
	if result.Error != nil {
		return fmt.Errorf("failed to insert replay marker: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: source chain %d nonce %d", domain.ErrReplayDetected, sourceChainID, nonce)
	}
	return nil
}

// UpsertConnectedContract sets the trusted counterparty for a chain
func (s *pgStore) UpsertConnectedContract(ctx context.Context, chainID uint64, contractRef string) error {
	entry := schema.ConnectedContract{
		ChainID:     chainID,
		ContractRef: contractRef,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chain_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"contract_ref": contractRef, "updated_at": time.Now()}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to upsert connected contract: %w", err)
	}
	return nil
}

// GetConnectedContract retrieves the trusted counterparty for a chain
func (s *pgStore) GetConnectedContract(ctx context.Context, chainID uint64) (*schema.ConnectedContract, error) {
	var entry schema.ConnectedContract
	err := s.db.WithContext(ctx).Where("chain_id = ?", chainID).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get connected contract: %w", err)
	}
	return &entry, nil
}

// GetCollectionStats retrieves the counters for a collection
func (s *pgStore) GetCollectionStats(ctx context.Context, collectionRef string) (*schema.CollectionStats, error) {
	var stats schema.CollectionStats
	err := s.db.WithContext(ctx).Where("collection_ref = ?", collectionRef).First(&stats).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get collection stats: %w", err)
	}
	return &stats, nil
}

// NextTokenID returns the collection's current creation counter and advances it
func (s *pgStore) NextTokenID(ctx context.Context, collectionRef string) (uint64, error) {
	return s.advanceCounter(ctx, collectionRef, "next_token_id")
}

// NextOutboundNonce returns the collection's current outbound nonce and advances it
func (s *pgStore) NextOutboundNonce(ctx context.Context, collectionRef string) (uint64, error) {
	return s.advanceCounter(ctx, collectionRef, "outbound_nonce")
}

// advanceCounter reads and post-increments one collection_stats counter under
// a row lock so the same value is never handed out twice
func (s *pgStore) advanceCounter(ctx context.Context, collectionRef string, column string) (uint64, error) {
	var value uint64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection_ref"}},
			DoNothing: true,
		}).Create(&schema.CollectionStats{CollectionRef: collectionRef}).Error; err != nil {
			return fmt.Errorf("failed to ensure collection stats: %w", err)
		}

		var stats schema.CollectionStats
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("collection_ref = ?", collectionRef).
			First(&stats).Error; err != nil {
			return fmt.Errorf("failed to lock collection stats: %w", err)
		}

		switch column {
		case "next_token_id":
			value = stats.NextTokenID
		case "outbound_nonce":
			value = stats.OutboundNonce
		default:
			return fmt.Errorf("unknown counter column: %s", column)
		}

		if err := tx.Model(&schema.CollectionStats{}).
			Where("collection_ref = ?", collectionRef).
			Updates(map[string]interface{}{
				column:       gorm.Expr(column+" + 1"),
				"updated_at": time.Now(),
			}).Error; err != nil {
			return fmt.Errorf("failed to advance %s: %w", column, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return value, nil
}

// IncrementMintCounters bumps total_minted and, when native, native_count
func (s *pgStore) IncrementMintCounters(ctx context.Context, collectionRef string, native bool) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection_ref"}},
			DoNothing: true,
		}).Create(&schema.CollectionStats{CollectionRef: collectionRef}).Error; err != nil {
			return fmt.Errorf("failed to ensure collection stats: %w", err)
		}

		updates := map[string]interface{}{
			"total_minted": gorm.Expr("total_minted + 1"),
			"updated_at":   time.Now(),
		}
		if native {
			updates["native_count"] = gorm.Expr("native_count + 1")
		}

		if err := tx.Model(&schema.CollectionStats{}).
			Where("collection_ref = ?", collectionRef).
			Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to increment mint counters: %w", err)
		}
		return nil
	})
}

// GetLocalToken retrieves the local representation for a token id
func (s *pgStore) GetLocalToken(ctx context.Context, tokenID string) (*schema.LocalToken, error) {
	var token schema.LocalToken
	err := s.db.WithContext(ctx).Where("token_id = ?", tokenID).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get local token: %w", err)
	}
	return &token, nil
}

// UpsertLocalToken creates or re-activates a local token representation
func (s *pgStore) UpsertLocalToken(ctx context.Context, token *schema.LocalToken) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "token_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"owner_ref":  token.OwnerRef,
			"live":       token.Live,
			"updated_at": time.Now(),
		}),
	}).Create(token).Error
	if err != nil {
		return fmt.Errorf("failed to upsert local token: %w", err)
	}
	return nil
}

// DeactivateLocalToken marks a live representation as burned/locked
func (s *pgStore) DeactivateLocalToken(ctx context.Context, tokenID string) error {
	result := s.db.WithContext(ctx).Model(&schema.LocalToken{}).
		Where("token_id = ? AND live = ?", tokenID, true).
		Updates(map[string]interface{}{
			"live":       false,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate local token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: token %s is not live", domain.ErrTransferFailed, tokenID)
	}
	return nil
}

// UpsertApproval sets a spender allowance for (owner, spender, asset)
func (s *pgStore) UpsertApproval(ctx context.Context, approval *schema.Approval) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "owner_ref"}, {Name: "spender_ref"}, {Name: "asset_ref"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   approval.Quantity,
			"updated_at": time.Now(),
		}),
	}).Create(approval).Error
	if err != nil {
		return fmt.Errorf("failed to upsert approval: %w", err)
	}
	return nil
}

// GetApproval retrieves an allowance for (owner, spender, asset)
func (s *pgStore) GetApproval(ctx context.Context, ownerRef, spenderRef, assetRef string) (*schema.Approval, error) {
	var approval schema.Approval
	err := s.db.WithContext(ctx).
		Where("owner_ref = ? AND spender_ref = ? AND asset_ref = ?", ownerRef, spenderRef, assetRef).
		First(&approval).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get approval: %w", err)
	}
	return &approval, nil
}

// RecordProcessedMessage writes the per-message audit row at most once
func (s *pgStore) RecordProcessedMessage(ctx context.Context, msg *schema.ProcessedMessage) error {
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "message_id"}},
		DoNothing: true,
	}).Create(msg)
	if result.Error != nil {
		return fmt.Errorf("failed to record processed message: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: message %s already processed", domain.ErrReplayDetected, msg.MessageID)
	}
	return nil
}
