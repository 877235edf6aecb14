package domain

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ChainID is the numeric identifier of a ledger (EVM-style chain id)
type ChainID uint64

const (
	ChainEthereumMainnet ChainID = 1
	ChainEthereumSepolia ChainID = 11155111
	ChainBaseSepolia     ChainID = 84532
)

// TokenIDLength is the fixed width of a portal token identifier in bytes
const TokenIDLength = 32

// TokenID is the fixed-width globally unique identifier of an asset.
// It is assigned exactly once, when the asset first appears anywhere in the
// portal network, and never changes across ledger hops.
type TokenID [TokenIDLength]byte

// TokenIDFromBytes converts a byte slice into a TokenID
func TokenIDFromBytes(b []byte) (TokenID, error) {
	var id TokenID
	if len(b) != TokenIDLength {
		return id, fmt.Errorf("%w: token id must be %d bytes, got %d", ErrInvalidMessage, TokenIDLength, len(b))
	}
	copy(id[:], b)
	return id, nil
}

// TokenIDFromHex parses a 0x-prefixed or bare hex string into a TokenID
func TokenIDFromHex(s string) (TokenID, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return TokenID{}, fmt.Errorf("%w: invalid token id hex: %v", ErrInvalidMessage, err)
	}
	return TokenIDFromBytes(b)
}

// Bytes returns the token id as a byte slice
func (t TokenID) Bytes() []byte {
	return t[:]
}

// String returns the 0x-prefixed hex representation of the token id
func (t TokenID) String() string {
	return "0x" + hex.EncodeToString(t[:])
}

// IsZero reports whether the token id is the all-zero value
func (t TokenID) IsZero() bool {
	return t == TokenID{}
}

// AssetRef is an opaque reference to an asset representation on some ledger:
// a contract/token address on an EVM chain, a mint account on Solana, etc.
// The portal never interprets it beyond equality and emptiness.
type AssetRef []byte

// AssetRefFromHex parses a 0x-prefixed or bare hex string into an AssetRef
func AssetRefFromHex(s string) (AssetRef, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid asset ref hex: %v", ErrInvalidAddress, err)
	}
	return AssetRef(b), nil
}

// AssetRefFromAddress converts an EVM address into an AssetRef
func AssetRefFromAddress(addr common.Address) AssetRef {
	return AssetRef(addr.Bytes())
}

// String returns the 0x-prefixed hex representation of the asset ref
func (a AssetRef) String() string {
	return "0x" + hex.EncodeToString(a)
}

// Equal reports whether two asset refs are byte-identical
func (a AssetRef) Equal(other AssetRef) bool {
	return bytes.Equal(a, other)
}

// IsZero reports whether the asset ref is empty or all zero bytes
func (a AssetRef) IsZero() bool {
	if len(a) == 0 {
		return true
	}
	for _, b := range a {
		if b != 0 {
			return false
		}
	}
	return true
}

// CollectionRef identifies the logical collection/group an asset belongs to
type CollectionRef string

// MessageKind discriminates the two inbound message types consumed by the
// gateway adapter. A transfer and its eventual revert notification are two
// independent messages correlated only by the revert descriptor.
type MessageKind string

const (
	MessageKindTransfer MessageKind = "transfer"
	MessageKindRevert   MessageKind = "revert"
)

// Valid reports whether the message kind is one the portal understands
func (k MessageKind) Valid() bool {
	return k == MessageKindTransfer || k == MessageKindRevert
}

// OriginRecord is the durable provenance record for one asset. It is created
// exactly once (local mint or first cross-ledger arrival) and never deleted;
// only MetadataURI may change afterwards.
type OriginRecord struct {
	TokenID          TokenID
	OriginalAssetRef AssetRef
	CollectionRef    CollectionRef
	OriginChainID    ChainID
	IsNative         bool
	MetadataURI      string
	CreatedAtBlock   uint64
}

// CollectionStats tracks per-collection counters. NextTokenID strictly
// increases; TotalMinted and NativeCount are monotonic non-decreasing.
type CollectionStats struct {
	CollectionRef CollectionRef
	NextTokenID   uint64
	TotalMinted   uint64
	NativeCount   uint64
	OutboundNonce uint64
}
