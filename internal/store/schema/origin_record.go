package schema

import (
	"time"
)

// OriginRecord represents the origin_records table - the durable provenance
// record for one asset. Rows are created exactly once and never deleted;
// origin_chain_id, is_native and original_asset_ref are immutable, only
// metadata_uri may be updated (by the registry authority).
type OriginRecord struct {
	// TokenID is the fixed-width token identifier, 0x-prefixed hex
	TokenID string `gorm:"column:token_id;primaryKey;type:text"`
	// OriginalAssetRef is the asset's first-minted representation on its home ledger, 0x-prefixed hex
	OriginalAssetRef string `gorm:"column:original_asset_ref;not null;type:text"`
	// CollectionRef is the logical collection/group the asset belongs to
	CollectionRef string `gorm:"column:collection_ref;not null;type:text;index:idx_origin_records_collection"`
	// OriginChainID is the numeric id of the ledger where the asset was first minted
	OriginChainID uint64 `gorm:"column:origin_chain_id;not null"`
	// IsNative is true iff origin_chain_id equals the local ledger's id; computed once at creation
	IsNative bool `gorm:"column:is_native;not null"`
	// MetadataURI is the mutable pointer to off-chain descriptive data
	MetadataURI string `gorm:"column:metadata_uri;not null;type:text"`
	// MetadataDigest is the keccak digest of the JCS-canonicalized metadata
	// document, pinned when the document was last seen; nil when never seen
	MetadataDigest *string `gorm:"column:metadata_digest;type:text"`
	// CreatedAtBlock is the block/level marker at creation time
	CreatedAtBlock uint64 `gorm:"column:created_at_block;not null"`
	// CreatedAt is the timestamp when the record was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()"`
	// UpdatedAt is the timestamp when metadata_uri was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now()"`
}

// TableName specifies the table name for the OriginRecord model
func (OriginRecord) TableName() string {
	return "origin_records"
}
