// Package wire implements the binary encoding of cross-ledger portal messages.
// All integers are big-endian; variable-length fields are u16 length-prefixed.
package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/feral-file/ff-portal/internal/domain"
)

// PayloadVersion is the only transfer payload version currently emitted or accepted
const PayloadVersion uint8 = 1

// minPayloadLength is the length of the fixed fields of a TransferPayload:
// version + tokenId + source chain + destination chain + nonce + three u16
// length prefixes (recipient, metadata uri, embedded asset ref).
const minPayloadLength = 1 + domain.TokenIDLength + 8 + 8 + 8 + 2 + 2 + 2

// TransferPayload is the cross-ledger transfer message body. Field order is
// part of the wire contract and must not change.
type TransferPayload struct {
	TokenID            domain.TokenID
	SourceChainID      domain.ChainID
	DestinationChainID domain.ChainID
	RecipientRef       domain.AssetRef
	MetadataURI        string
	Nonce              uint64
	// EmbeddedAssetRef is empty when no value asset accompanies the message
	EmbeddedAssetRef domain.AssetRef
}

// Marshal encodes the payload into its binary wire form
func (p *TransferPayload) Marshal() ([]byte, error) {
	if len(p.RecipientRef) > math.MaxUint16 {
		return nil, fmt.Errorf("%w: recipient ref too long", domain.ErrInvalidMessage)
	}
	if len(p.MetadataURI) > math.MaxUint16 {
		return nil, fmt.Errorf("%w: metadata uri too long", domain.ErrInvalidMessage)
	}
	if len(p.EmbeddedAssetRef) > math.MaxUint16 {
		return nil, fmt.Errorf("%w: embedded asset ref too long", domain.ErrInvalidMessage)
	}

	buf := new(bytes.Buffer)
	mustWrite(buf, PayloadVersion)
	buf.Write(p.TokenID.Bytes())
	mustWrite(buf, uint64(p.SourceChainID))
	mustWrite(buf, uint64(p.DestinationChainID))
	writeBytes(buf, p.RecipientRef)
	writeBytes(buf, []byte(p.MetadataURI))
	mustWrite(buf, p.Nonce)
	writeBytes(buf, p.EmbeddedAssetRef)
	return buf.Bytes(), nil
}

// UnmarshalTransferPayload decodes a binary transfer payload, rejecting
// undersized or structurally malformed input with ErrInvalidMessage
func UnmarshalTransferPayload(data []byte) (*TransferPayload, error) {
	if len(data) < minPayloadLength {
		return nil, fmt.Errorf("%w: payload too short (%d bytes)", domain.ErrInvalidMessage, len(data))
	}

	if data[0] != PayloadVersion {
		return nil, fmt.Errorf("%w: unsupported payload version %d", domain.ErrInvalidMessage, data[0])
	}
	r := bytes.NewReader(data[1:])

	p := &TransferPayload{}
	tokenID := make([]byte, domain.TokenIDLength)
	if n, err := r.Read(tokenID); err != nil || n != domain.TokenIDLength {
		return nil, fmt.Errorf("%w: failed to read token id", domain.ErrInvalidMessage)
	}
	copy(p.TokenID[:], tokenID)

	var src, dst uint64
	if err := binary.Read(r, binary.BigEndian, &src); err != nil {
		return nil, fmt.Errorf("%w: failed to read source chain id", domain.ErrInvalidMessage)
	}
	if err := binary.Read(r, binary.BigEndian, &dst); err != nil {
		return nil, fmt.Errorf("%w: failed to read destination chain id", domain.ErrInvalidMessage)
	}
	p.SourceChainID = domain.ChainID(src)
	p.DestinationChainID = domain.ChainID(dst)

	recipient, err := readBytes(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read recipient ref", domain.ErrInvalidMessage)
	}
	p.RecipientRef = recipient

	uri, err := readBytes(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read metadata uri", domain.ErrInvalidMessage)
	}
	p.MetadataURI = string(uri)

	if err := binary.Read(r, binary.BigEndian, &p.Nonce); err != nil {
		return nil, fmt.Errorf("%w: failed to read nonce", domain.ErrInvalidMessage)
	}

	embedded, err := readBytes(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read embedded asset ref", domain.ErrInvalidMessage)
	}
	if len(embedded) > 0 {
		p.EmbeddedAssetRef = embedded
	}

	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", domain.ErrInvalidMessage, r.Len())
	}

	return p, nil
}

// writeBytes writes a u16 length prefix followed by the raw bytes
func writeBytes(buf *bytes.Buffer, b []byte) {
	mustWrite(buf, uint16(len(b))) // #nosec G115 -- callers bound length to MaxUint16
	buf.Write(b)
}

// readBytes reads a u16 length prefix followed by that many bytes
func readBytes(r *bytes.Reader) ([]byte, error) {
	var length uint16
	if err := binary.Read(r, binary.BigEndian, &length); err != nil {
		return nil, err
	}
	if length == 0 {
		return nil, nil
	}
	b := make([]byte, length)
	if n, err := r.Read(b); err != nil || n != int(length) {
		return nil, fmt.Errorf("short read: want %d got %d", length, n)
	}
	return b, nil
}

// mustWrite calls binary.Write and panics on errors; writing fixed-width
// values into a bytes.Buffer cannot fail
func mustWrite(buf *bytes.Buffer, v any) {
	if err := binary.Write(buf, binary.BigEndian, v); err != nil {
		panic(fmt.Sprintf("failed to write binary data: %v", v))
	}
}
