// Package guard enforces at-most-once processing of inbound cross-ledger
// messages. Each message is keyed by (source chain id, nonce); a key is
// consumed atomically with the state changes it authorizes, so a crash
// between consumption and effect can never drop a message.
package guard

import (
	"context"
	"fmt"

	"github.com/feral-file/ff-portal/internal/domain"
	"github.com/feral-file/ff-portal/internal/store"
)

// ReplayGuard consumes message keys exactly once
//
//go:generate mockgen -source=guard.go -destination=../mocks/guard.go -package=mocks -mock_names=ReplayGuard=MockReplayGuard
type ReplayGuard interface {
	// Consume marks (sourceChainID, nonce) as processed; returns
	// domain.ErrReplayDetected when the pair was consumed before
	Consume(ctx context.Context, sourceChainID domain.ChainID, nonce uint64) error
	// WithStore rebinds the guard to a transaction-scoped store
	WithStore(s store.Store) ReplayGuard
}

type replayGuard struct {
	store store.Store
}

// New creates a replay guard over the given store
func New(s store.Store) ReplayGuard {
	return &replayGuard{store: s}
}

// WithStore rebinds the guard to a transaction-scoped store
func (g *replayGuard) WithStore(s store.Store) ReplayGuard {
	return &replayGuard{store: s}
}

// Consume marks (sourceChainID, nonce) as processed
func (g *replayGuard) Consume(ctx context.Context, sourceChainID domain.ChainID, nonce uint64) error {
	if err := g.store.InsertReplayMarker(ctx, uint64(sourceChainID), nonce); err != nil {
		return fmt.Errorf("consume replay key %d/%d: %w", sourceChainID, nonce, err)
	}
	return nil
}
