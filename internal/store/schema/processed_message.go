package schema

import (
	"time"

	"gorm.io/datatypes"
)

// ProcessedMessage represents the processed_messages table - an audit row
// written in the same transaction as the message's state mutations, so the
// audit trail can never show a message the registry did not commit.
type ProcessedMessage struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// MessageID is the relay-assigned message id
	MessageID string `gorm:"column:message_id;not null;uniqueIndex;type:text"`
	// SourceChainID is the claimed source chain of the message
	SourceChainID uint64 `gorm:"column:source_chain_id;not null"`
	// Kind is the message kind (transfer or revert)
	Kind string `gorm:"column:kind;not null;type:text"`
	// Envelope is the full inbound envelope as received from the relay
	Envelope datatypes.JSON `gorm:"column:envelope;type:jsonb"`
	// CreatedAt is the timestamp when the message committed
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()"`
}

// TableName specifies the table name for the ProcessedMessage model
func (ProcessedMessage) TableName() string {
	return "processed_messages"
}
