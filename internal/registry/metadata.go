package registry

import (
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gowebpki/jcs"

	"github.com/feral-file/ff-portal/internal/domain"
)

// MetadataDigest computes the keccak digest of a metadata document after
// JCS (RFC 8785) canonicalization, so the same logical JSON always produces
// the same digest regardless of key order or whitespace.
func MetadataDigest(doc []byte) (string, error) {
	canonical, err := jcs.Transform(doc)
	if err != nil {
		return "", fmt.Errorf("%w: metadata is not valid JSON: %v", domain.ErrInvalidMessage, err)
	}
	return "0x" + hex.EncodeToString(crypto.Keccak256(canonical)), nil
}
