// Package tokenid derives the fixed-width globally unique token identifier
// assigned to an asset when it first appears anywhere in the portal network.
//
// The derivation is a single Keccak-256 over the asset's local reference, a
// freshness value (block/slot height at creation), and the collection's
// next-token-id counter. The same formula is used on every creation path;
// it is deterministic for given inputs and independent of wall-clock time.
package tokenid

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/feral-file/ff-portal/internal/domain"
)

// Derive computes the token id for (assetRef, freshness, counter).
//
// counter is the collection's nextTokenId at creation time. When it has
// reached its maximum representable value the derivation fails loudly
// rather than wrapping.
func Derive(assetRef domain.AssetRef, freshness uint64, counter uint64) (domain.TokenID, error) {
	if len(assetRef) == 0 {
		return domain.TokenID{}, fmt.Errorf("%w: empty asset ref", domain.ErrInvalidAddress)
	}
	if counter == math.MaxUint64 {
		return domain.TokenID{}, fmt.Errorf("%w: next token id reached max", domain.ErrCounterExhausted)
	}

	buf := new(bytes.Buffer)
	buf.Write(assetRef)
	if err := binary.Write(buf, binary.BigEndian, freshness); err != nil {
		return domain.TokenID{}, err
	}
	if err := binary.Write(buf, binary.BigEndian, counter); err != nil {
		return domain.TokenID{}, err
	}

	digest := crypto.Keccak256(buf.Bytes())
	return domain.TokenIDFromBytes(digest)
}
