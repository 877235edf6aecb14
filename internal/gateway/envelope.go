// Package gateway is the portal's single entry and exit point for
// cross-ledger messages. Inbound envelopes are authenticated against the
// configured relay and the per-chain connected contract before any payload
// byte is interpreted; outbound messages leave through the RelayClient.
package gateway

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/feral-file/ff-portal/internal/domain"
	"github.com/feral-file/ff-portal/internal/wire"
)

// Envelope is the relay-level message wrapper. The relay authenticates the
// transport hop; the portal still verifies RelayID and Sender itself and
// trusts nothing inside Payload until both checks pass.
type Envelope struct {
	// MessageID is the relay-assigned message identifier (ULID)
	MessageID string `json:"message_id"`
	// RelayID identifies the relay instance that delivered the message
	RelayID string `json:"relay_id"`
	// SourceChainID is the chain the message claims to originate from
	SourceChainID uint64 `json:"source_chain_id"`
	// Sender is the originating contract on the source chain, 0x-prefixed hex
	Sender string `json:"sender"`
	// Kind discriminates transfer and revert messages
	Kind domain.MessageKind `json:"kind"`
	// Amount is an optional accompanying value amount, decimal string
	Amount string `json:"amount,omitempty"`
	// AssetRef is the asset the amount is denominated in, 0x-prefixed hex
	AssetRef string `json:"asset_ref,omitempty"`
	// Payload is the binary message body (wire.TransferPayload or
	// wire.RevertState depending on Kind)
	Payload []byte `json:"payload"`
	// Revert is set on outbound envelopes only and tells the relay how to
	// notify the sender when the destination rejects the message
	Revert *wire.RevertDescriptor `json:"revert,omitempty"`
}

// senderRef parses the embedded sender reference
func (e *Envelope) senderRef() (domain.AssetRef, error) {
	if e.Sender == "" {
		return nil, fmt.Errorf("%w: envelope has no sender", domain.ErrInvalidMessage)
	}
	return domain.AssetRefFromHex(e.Sender)
}

// value parses the optional accompanying amount and asset
func (e *Envelope) value() (*uint256.Int, domain.AssetRef, error) {
	if e.Amount == "" {
		return uint256.NewInt(0), nil, nil
	}
	amount, err := uint256.FromDecimal(e.Amount)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: invalid envelope amount %q", domain.ErrInvalidMessage, e.Amount)
	}
	var asset domain.AssetRef
	if e.AssetRef != "" {
		asset, err = domain.AssetRefFromHex(e.AssetRef)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid envelope asset ref", domain.ErrInvalidMessage)
		}
	}
	return amount, asset, nil
}
