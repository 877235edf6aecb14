package registry

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/feral-file/ff-portal/internal/domain"
	"github.com/feral-file/ff-portal/internal/logger"
	"github.com/feral-file/ff-portal/internal/store"
)

// Directory is the per-chain allow-list of the single counterparty contract
// trusted as the remote portal endpoint
//
//go:generate mockgen -source=directory.go -destination=../mocks/directory.go -package=mocks -mock_names=Directory=MockDirectory
type Directory interface {
	// SetConnectedContract sets the trusted counterparty for a chain; only the
	// registry authority may call it
	SetConnectedContract(ctx context.Context, caller domain.AssetRef, chainID domain.ChainID, contractRef domain.AssetRef) error
	// ConnectedContract returns the trusted counterparty for a chain, nil when
	// no contract is connected
	ConnectedContract(ctx context.Context, chainID domain.ChainID) (domain.AssetRef, error)
}

type directory struct {
	store     store.Store
	authority domain.AssetRef
}

// NewDirectory creates a connected-contract directory administered by authority
func NewDirectory(s store.Store, authority domain.AssetRef) Directory {
	return &directory{store: s, authority: authority}
}

// SetConnectedContract sets the trusted counterparty for a chain
func (d *directory) SetConnectedContract(ctx context.Context, caller domain.AssetRef, chainID domain.ChainID, contractRef domain.AssetRef) error {
	if !caller.Equal(d.authority) {
		return fmt.Errorf("%w: caller %s is not the registry authority", domain.ErrUnauthorized, caller)
	}
	if contractRef.IsZero() {
		return fmt.Errorf("%w: zero connected contract ref", domain.ErrInvalidAddress)
	}

	if err := d.store.UpsertConnectedContract(ctx, uint64(chainID), contractRef.String()); err != nil {
		return err
	}

	logger.InfoCtx(ctx, "Connected contract set",
		zap.Uint64("chainID", uint64(chainID)),
		zap.String("contractRef", contractRef.String()),
	)
	return nil
}

// ConnectedContract returns the trusted counterparty for a chain
func (d *directory) ConnectedContract(ctx context.Context, chainID domain.ChainID) (domain.AssetRef, error) {
	entry, err := d.store.GetConnectedContract(ctx, uint64(chainID))
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}
	return domain.AssetRefFromHex(entry.ContractRef)
}
