// Package reception implements the inbound transfer state machine. Every
// message runs as one storage transaction: the replay key is consumed first,
// then the asset either gets its origin record created (first arrival
// anywhere) or is restored against the record it already has. A failure at
// any step rolls the whole run back, replay key included.
package reception

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/feral-file/ff-portal/internal/adapter"
	"github.com/feral-file/ff-portal/internal/domain"
	"github.com/feral-file/ff-portal/internal/gateway"
	"github.com/feral-file/ff-portal/internal/guard"
	"github.com/feral-file/ff-portal/internal/logger"
	"github.com/feral-file/ff-portal/internal/registry"
	"github.com/feral-file/ff-portal/internal/store"
	"github.com/feral-file/ff-portal/internal/store/schema"
	"github.com/feral-file/ff-portal/internal/tokens"
)

// StateMachine processes authenticated inbound transfers
//
//go:generate mockgen -source=reception.go -destination=../mocks/reception.go -package=mocks -mock_names=StateMachine=MockStateMachine
type StateMachine interface {
	// HandleArrival runs one inbound transfer to completion
	HandleArrival(ctx context.Context, arrival *gateway.Arrival) error
}

type stateMachine struct {
	store    store.Store
	guard    guard.ReplayGuard
	registry registry.Registry
	ledger   tokens.Ledger
	json     adapter.JSON
}

// New creates the reception state machine
func New(s store.Store, g guard.ReplayGuard, r registry.Registry, l tokens.Ledger, jsonAdapter adapter.JSON) StateMachine {
	return &stateMachine{
		store:    s,
		guard:    g,
		registry: r,
		ledger:   l,
		json:     jsonAdapter,
	}
}

// HandleArrival runs one inbound transfer inside a single transaction
func (m *stateMachine) HandleArrival(ctx context.Context, arrival *gateway.Arrival) error {
	payload := arrival.Payload
	if payload == nil {
		return fmt.Errorf("%w: arrival without payload", domain.ErrInvalidMessage)
	}

	recipient := domain.AssetRef(payload.RecipientRef)
	if recipient.IsZero() {
		return fmt.Errorf("%w: transfer has no recipient", domain.ErrInvalidMessage)
	}

	return m.store.Atomic(ctx, func(tx store.Store) error {
		// The replay key is consumed in the same transaction as every state
		// change it authorizes; a crash cannot burn the key without the effects.
		if err := m.guard.WithStore(tx).Consume(ctx, arrival.SourceChainID, payload.Nonce); err != nil {
			return err
		}

		reg := m.registry.WithStore(tx)
		ledger := m.ledger.WithStore(tx)

		record, err := reg.Get(ctx, payload.TokenID)
		switch {
		case err == nil:
			// Returning asset: the origin record is never touched, the local
			// representation is re-activated against it.
			if err := ledger.Mint(ctx, payload.TokenID, recipient); err != nil {
				return err
			}
			logger.InfoCtx(ctx, "Asset restored",
				zap.String("tokenID", payload.TokenID.String()),
				zap.Uint64("originChainID", uint64(record.OriginChainID)),
				zap.Bool("isNative", record.IsNative),
			)
		case errors.Is(err, domain.ErrOriginNotFound):
			// First arrival anywhere: the origin record is created now, with
			// the source chain as the permanent origin.
			if payload.EmbeddedAssetRef.IsZero() {
				return fmt.Errorf("%w: first arrival without an embedded asset ref", domain.ErrInvalidMessage)
			}
			if _, err := reg.Create(ctx, registry.CreateInput{
				TokenID:          payload.TokenID,
				OriginalAssetRef: payload.EmbeddedAssetRef,
				CollectionRef:    collectionFor(arrival.SourceChainID, payload.EmbeddedAssetRef),
				OriginChainID:    arrival.SourceChainID,
				MetadataURI:      payload.MetadataURI,
			}); err != nil {
				return err
			}
			if err := ledger.Mint(ctx, payload.TokenID, recipient); err != nil {
				return err
			}
		default:
			return err
		}

		return m.audit(ctx, tx, arrival)
	})
}

// audit writes the per-message audit row inside the same transaction
func (m *stateMachine) audit(ctx context.Context, tx store.Store, arrival *gateway.Arrival) error {
	envelope, err := m.json.Marshal(arrival)
	if err != nil {
		return fmt.Errorf("failed to marshal arrival for audit: %w", err)
	}
	return tx.RecordProcessedMessage(ctx, &schema.ProcessedMessage{
		MessageID:     arrival.MessageID,
		SourceChainID: uint64(arrival.SourceChainID),
		Kind:          string(domain.MessageKindTransfer),
		Envelope:      datatypes.JSON(envelope),
	})
}

// collectionFor groups foreign-origin assets by their source contract
func collectionFor(sourceChainID domain.ChainID, assetRef domain.AssetRef) domain.CollectionRef {
	return domain.CollectionRef(fmt.Sprintf("%d:%s", sourceChainID, assetRef))
}
