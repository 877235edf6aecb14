package gateway

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/feral-file/ff-portal/internal/domain"
	"github.com/feral-file/ff-portal/internal/logger"
	"github.com/feral-file/ff-portal/internal/registry"
	"github.com/feral-file/ff-portal/internal/wire"
)

// Arrival is an authenticated, decoded inbound transfer handed to the receiver
type Arrival struct {
	MessageID     string
	SourceChainID domain.ChainID
	Payload       *wire.TransferPayload
	// Amount and AssetRef carry the optional value asset accompanying the
	// transfer; Amount is zero when none does
	Amount   *uint256.Int
	AssetRef domain.AssetRef
}

// Reversion is an authenticated, decoded revert notification. It correlates
// with an earlier outbound message only through the descriptor state the
// portal embedded when sending.
type Reversion struct {
	MessageID     string
	SourceChainID domain.ChainID
	State         *wire.RevertState
	// Amount and AssetRef describe the funds returned with the notification
	Amount   *uint256.Int
	AssetRef domain.AssetRef
}

// AssetReceiver is the capability the gateway dispatches into once a message
// has cleared authentication and decoding
//
//go:generate mockgen -source=gateway.go -destination=../mocks/gateway.go -package=mocks -mock_names=AssetReceiver=MockAssetReceiver,Gateway=MockGateway
type AssetReceiver interface {
	// OnArrive handles an inbound asset transfer
	OnArrive(ctx context.Context, arrival *Arrival) error
	// OnReverted handles a revert notification for an earlier outbound message
	OnReverted(ctx context.Context, reversion *Reversion) error
}

// Gateway authenticates and dispatches inbound envelopes
type Gateway interface {
	// Handle processes one inbound envelope end to end
	Handle(ctx context.Context, env *Envelope) error
}

type gateway struct {
	relayID   string
	directory registry.Directory
	receiver  AssetReceiver
}

// New creates a gateway trusting exactly one relay identity
func New(relayID string, directory registry.Directory, receiver AssetReceiver) Gateway {
	return &gateway{
		relayID:   relayID,
		directory: directory,
		receiver:  receiver,
	}
}

// Handle processes one inbound envelope: authenticate, decode, dispatch
func (g *gateway) Handle(ctx context.Context, env *Envelope) error {
	if err := g.authenticate(ctx, env); err != nil {
		return err
	}

	amount, assetRef, err := env.value()
	if err != nil {
		return err
	}

	switch env.Kind {
	case domain.MessageKindTransfer:
		payload, err := wire.UnmarshalTransferPayload(env.Payload)
		if err != nil {
			return err
		}
		logger.InfoCtx(ctx, "Inbound transfer accepted",
			zap.String("messageID", env.MessageID),
			zap.Uint64("sourceChainID", env.SourceChainID),
			zap.String("tokenID", payload.TokenID.String()),
			zap.Uint64("nonce", payload.Nonce),
		)
		return g.receiver.OnArrive(ctx, &Arrival{
			MessageID:     env.MessageID,
			SourceChainID: domain.ChainID(env.SourceChainID),
			Payload:       payload,
			Amount:        amount,
			AssetRef:      assetRef,
		})
	case domain.MessageKindRevert:
		state, err := wire.UnmarshalRevertState(env.Payload)
		if err != nil {
			return err
		}
		logger.InfoCtx(ctx, "Revert notification accepted",
			zap.String("messageID", env.MessageID),
			zap.Uint64("sourceChainID", env.SourceChainID),
		)
		return g.receiver.OnReverted(ctx, &Reversion{
			MessageID:     env.MessageID,
			SourceChainID: domain.ChainID(env.SourceChainID),
			State:         state,
			Amount:        amount,
			AssetRef:      assetRef,
		})
	default:
		return fmt.Errorf("%w: unknown message kind %q", domain.ErrInvalidMessage, env.Kind)
	}
}

// authenticate verifies the delivering relay and the embedded source contract
func (g *gateway) authenticate(ctx context.Context, env *Envelope) error {
	if env.RelayID != g.relayID {
		return fmt.Errorf("%w: message delivered by relay %q", domain.ErrUnauthorized, env.RelayID)
	}

	sender, err := env.senderRef()
	if err != nil {
		return err
	}

	connected, err := g.directory.ConnectedContract(ctx, domain.ChainID(env.SourceChainID))
	if err != nil {
		return err
	}
	if connected == nil {
		return fmt.Errorf("%w: no connected contract for chain %d", domain.ErrUnauthorized, env.SourceChainID)
	}
	if !sender.Equal(connected) {
		return fmt.Errorf("%w: sender %s is not the connected contract for chain %d",
			domain.ErrUnauthorized, sender, env.SourceChainID)
	}
	return nil
}
