package schema

import (
	"time"
)

// ReplayMarker represents the replay_markers table. Existence of a row is the
// whole signal: a (source_chain_id, nonce) pair may be inserted at most once,
// enforced by the composite unique index.
type ReplayMarker struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// SourceChainID is the chain the consumed message claimed as its source
	SourceChainID uint64 `gorm:"column:source_chain_id;not null;uniqueIndex:idx_replay_markers_source_nonce,priority:1"`
	// Nonce is the message nonce assigned at the source
	Nonce uint64 `gorm:"column:nonce;not null;uniqueIndex:idx_replay_markers_source_nonce,priority:2"`
	// CreatedAt is the timestamp when the marker was consumed
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()"`
}

// TableName specifies the table name for the ReplayMarker model
func (ReplayMarker) TableName() string {
	return "replay_markers"
}
