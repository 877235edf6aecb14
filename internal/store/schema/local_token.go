package schema

import (
	"time"
)

// LocalToken represents the local_tokens table - the local representation of
// an asset on this ledger. A row stays after a burn (live=false) so the next
// inbound restore re-activates it; the origin record itself lives in
// origin_records and is never touched by mint/burn.
type LocalToken struct {
	// TokenID is the portal token identifier, 0x-prefixed hex
	TokenID string `gorm:"column:token_id;primaryKey;type:text"`
	// AccountKey is the deterministically derived storage account for this
	// representation (keccak over namespace and token id), 0x-prefixed hex
	AccountKey string `gorm:"column:account_key;not null;uniqueIndex;type:text"`
	// OwnerRef is the current owner reference, 0x-prefixed hex
	OwnerRef string `gorm:"column:owner_ref;not null;type:text;index:idx_local_tokens_owner"`
	// Live is false while the representation is burned/locked for an outbound hop
	Live bool `gorm:"column:live;not null;default:true"`
	// CreatedAt is the timestamp when the representation was first minted
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()"`
	// UpdatedAt is the timestamp of the last mint/burn/ownership change
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now()"`
}

// TableName specifies the table name for the LocalToken model
func (LocalToken) TableName() string {
	return "local_tokens"
}

// Approval represents the approvals table - fungible spending allowances
// granted to a named spender (the relay, for swap router escrow). Quantity is
// stored as numeric text to support full 256-bit amounts.
type Approval struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// OwnerRef is the granting account, 0x-prefixed hex
	OwnerRef string `gorm:"column:owner_ref;not null;type:text;uniqueIndex:idx_approvals_owner_spender_asset,priority:1"`
	// SpenderRef is the approved spender, 0x-prefixed hex
	SpenderRef string `gorm:"column:spender_ref;not null;type:text;uniqueIndex:idx_approvals_owner_spender_asset,priority:2"`
	// AssetRef is the fungible asset the allowance is denominated in, 0x-prefixed hex
	AssetRef string `gorm:"column:asset_ref;not null;type:text;uniqueIndex:idx_approvals_owner_spender_asset,priority:3"`
	// Quantity is the approved amount (up to 78 digits)
	Quantity string `gorm:"column:quantity;not null;type:numeric(78,0)"`
	// CreatedAt is the timestamp when the approval was first granted
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()"`
	// UpdatedAt is the timestamp when the approval was last changed
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now()"`
}

// TableName specifies the table name for the Approval model
func (Approval) TableName() string {
	return "approvals"
}
