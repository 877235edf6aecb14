// Package tokens wraps the local token storage primitive: minting, burning
// and approving the on-ledger representations the portal manages. Storage
// accounts are located by a pure derivation over (namespace, key), never by
// raw references.
package tokens

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"github.com/feral-file/ff-portal/internal/domain"
	"github.com/feral-file/ff-portal/internal/store"
	"github.com/feral-file/ff-portal/internal/store/schema"
)

// accountNamespace seeds the deterministic account derivation for portal
// token representations
const accountNamespace = "ff-portal/token"

// Ledger defines the local asset representation operations
//
//go:generate mockgen -source=ledger.go -destination=../mocks/ledger.go -package=mocks -mock_names=Ledger=MockLedger
type Ledger interface {
	// Mint creates or re-activates the local representation of tokenID owned
	// by owner
	Mint(ctx context.Context, tokenID domain.TokenID, owner domain.AssetRef) error
	// Burn deactivates a live representation; returns
	// domain.ErrTransferFailed when the token is absent or already burned
	Burn(ctx context.Context, tokenID domain.TokenID) error
	// OwnerOf returns the current owner of a live representation, nil when the
	// token is absent or burned
	OwnerOf(ctx context.Context, tokenID domain.TokenID) (domain.AssetRef, error)
	// Approve grants spender an allowance of amount over asset on behalf of owner
	Approve(ctx context.Context, owner, spender, asset domain.AssetRef, amount *uint256.Int) error
	// WithStore rebinds the ledger to a transaction-scoped store
	WithStore(s store.Store) Ledger
}

type ledger struct {
	store store.Store
}

// NewLedger creates a ledger over the given store
func NewLedger(s store.Store) Ledger {
	return &ledger{store: s}
}

// WithStore rebinds the ledger to a transaction-scoped store
func (l *ledger) WithStore(s store.Store) Ledger {
	return &ledger{store: s}
}

// AccountKey derives the storage account for a token representation.
// The derivation is pure: keccak over the namespace and the token id.
func AccountKey(tokenID domain.TokenID) string {
	digest := crypto.Keccak256([]byte(accountNamespace), tokenID.Bytes())
	return "0x" + hex.EncodeToString(digest)
}

// Mint creates or re-activates the local representation of tokenID
func (l *ledger) Mint(ctx context.Context, tokenID domain.TokenID, owner domain.AssetRef) error {
	if owner.IsZero() {
		return fmt.Errorf("%w: zero mint recipient", domain.ErrInvalidAddress)
	}

	existing, err := l.store.GetLocalToken(ctx, tokenID.String())
	if err != nil {
		return err
	}
	if existing != nil && existing.Live {
		return fmt.Errorf("%w: token %s is already live", domain.ErrTransferFailed, tokenID)
	}

	return l.store.UpsertLocalToken(ctx, &schema.LocalToken{
		TokenID:    tokenID.String(),
		AccountKey: AccountKey(tokenID),
		OwnerRef:   owner.String(),
		Live:       true,
	})
}

// Burn deactivates a live representation
func (l *ledger) Burn(ctx context.Context, tokenID domain.TokenID) error {
	return l.store.DeactivateLocalToken(ctx, tokenID.String())
}

// OwnerOf returns the current owner of a live representation
func (l *ledger) OwnerOf(ctx context.Context, tokenID domain.TokenID) (domain.AssetRef, error) {
	token, err := l.store.GetLocalToken(ctx, tokenID.String())
	if err != nil {
		return nil, err
	}
	if token == nil || !token.Live {
		return nil, nil
	}
	return domain.AssetRefFromHex(token.OwnerRef)
}

// Approve grants spender an allowance over asset on behalf of owner
func (l *ledger) Approve(ctx context.Context, owner, spender, asset domain.AssetRef, amount *uint256.Int) error {
	if owner.IsZero() || spender.IsZero() || asset.IsZero() {
		return fmt.Errorf("%w: zero approval party", domain.ErrInvalidAddress)
	}
	if amount == nil {
		return fmt.Errorf("%w: nil approval amount", domain.ErrApprovalFailed)
	}

	err := l.store.UpsertApproval(ctx, &schema.Approval{
		OwnerRef:   owner.String(),
		SpenderRef: spender.String(),
		AssetRef:   asset.String(),
		Quantity:   amount.Dec(),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrApprovalFailed, err)
	}
	return nil
}
