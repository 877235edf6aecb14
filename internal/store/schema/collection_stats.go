package schema

import (
	"time"
)

// CollectionStats represents the collection_stats table. next_token_id
// strictly increases; total_minted and native_count are monotonic
// non-decreasing; outbound_nonce counts messages sent from this ledger.
type CollectionStats struct {
	// CollectionRef is the logical collection this row counts for
	CollectionRef string `gorm:"column:collection_ref;primaryKey;type:text"`
	// NextTokenID is the monotonic per-collection creation counter
	NextTokenID uint64 `gorm:"column:next_token_id;not null;default:0"`
	// TotalMinted is the number of origin records created for this collection
	TotalMinted uint64 `gorm:"column:total_minted;not null;default:0"`
	// NativeCount is the subset of total_minted first minted on this ledger
	NativeCount uint64 `gorm:"column:native_count;not null;default:0"`
	// OutboundNonce is the monotonic outbound message counter
	OutboundNonce uint64 `gorm:"column:outbound_nonce;not null;default:0"`
	// CreatedAt is the timestamp when the row was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()"`
	// UpdatedAt is the timestamp when a counter was last bumped
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now()"`
}

// TableName specifies the table name for the CollectionStats model
func (CollectionStats) TableName() string {
	return "collection_stats"
}
