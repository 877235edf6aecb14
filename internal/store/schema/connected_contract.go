package schema

import (
	"time"
)

// ConnectedContract represents the connected_contracts table - the per-chain
// allow-list of the single counterparty contract trusted as the remote portal
// endpoint. Mutable only by the registry authority.
type ConnectedContract struct {
	// ChainID is the remote ledger's numeric id
	ChainID uint64 `gorm:"column:chain_id;primaryKey"`
	// ContractRef is the trusted remote contract reference, 0x-prefixed hex
	ContractRef string `gorm:"column:contract_ref;not null;type:text"`
	// CreatedAt is the timestamp when the entry was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()"`
	// UpdatedAt is the timestamp when the entry was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now()"`
}

// TableName specifies the table name for the ConnectedContract model
func (ConnectedContract) TableName() string {
	return "connected_contracts"
}
