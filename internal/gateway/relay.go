package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/holiman/uint256"
	"github.com/nats-io/nats.go"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/feral-file/ff-portal/internal/adapter"
	"github.com/feral-file/ff-portal/internal/domain"
	"github.com/feral-file/ff-portal/internal/logger"
	"github.com/feral-file/ff-portal/internal/wire"
)

// Config holds the configuration for the NATS JetStream relay connection
type Config struct {
	URL            string
	StreamName     string
	RelayID        string
	LocalChainID   uint64
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
	ConnectionName string
}

// RelayClient sends outbound cross-ledger messages through the relay
//
//go:generate mockgen -source=relay.go -destination=../mocks/relay.go -package=mocks -mock_names=RelayClient=MockRelayClient
type RelayClient interface {
	// Send forwards a message-only payload to the destination chain and
	// returns the relay message id
	Send(ctx context.Context, destChainID domain.ChainID, kind domain.MessageKind, payload []byte, revert *wire.RevertDescriptor) (string, error)
	// SendWithValue forwards a payload accompanied by amount of asset
	SendWithValue(ctx context.Context, destChainID domain.ChainID, amount *uint256.Int, assetRef domain.AssetRef, kind domain.MessageKind, payload []byte, revert *wire.RevertDescriptor) (string, error)
	// Close closes the relay connection
	Close()
}

type natsRelay struct {
	nc     adapter.NatsConn
	js     adapter.JetStream
	json   adapter.JSON
	config Config
	// localContract is embedded as Sender on every outbound envelope
	localContract domain.AssetRef
}

// NewRelayClient connects to the NATS relay, retrying the initial dial with
// exponential backoff; reconnects after that are handled by the nats client
func NewRelayClient(cfg Config, localContract domain.AssetRef, natsJS adapter.NatsJetStream, jsonAdapter adapter.JSON) (RelayClient, error) {
	opts := []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error(err, zap.String("message", "Disconnected from NATS"))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	var (
		nc adapter.NatsConn
		js adapter.JetStream
	)
	connect := func() error {
		var err error
		nc, js, err = natsJS.Connect(cfg.URL, opts...)
		return err
	}
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = cfg.ConnectTimeout
	if err := backoff.Retry(connect, policy); err != nil {
		return nil, fmt.Errorf("failed to connect to NATS relay: %w", err)
	}

	return &natsRelay{
		nc:            nc,
		js:            js,
		json:          jsonAdapter,
		config:        cfg,
		localContract: localContract,
	}, nil
}

// Send forwards a message-only payload to the destination chain
func (r *natsRelay) Send(ctx context.Context, destChainID domain.ChainID, kind domain.MessageKind, payload []byte, revert *wire.RevertDescriptor) (string, error) {
	return r.publish(ctx, destChainID, nil, nil, kind, payload, revert)
}

// SendWithValue forwards a payload accompanied by a value asset
func (r *natsRelay) SendWithValue(ctx context.Context, destChainID domain.ChainID, amount *uint256.Int, assetRef domain.AssetRef, kind domain.MessageKind, payload []byte, revert *wire.RevertDescriptor) (string, error) {
	if amount == nil || amount.IsZero() {
		return "", fmt.Errorf("%w: value send without an amount", domain.ErrInvalidMessage)
	}
	if assetRef.IsZero() {
		return "", fmt.Errorf("%w: value send without an asset ref", domain.ErrInvalidMessage)
	}
	return r.publish(ctx, destChainID, amount, assetRef, kind, payload, revert)
}

func (r *natsRelay) publish(ctx context.Context, destChainID domain.ChainID, amount *uint256.Int, assetRef domain.AssetRef, kind domain.MessageKind, payload []byte, revert *wire.RevertDescriptor) (string, error) {
	env := &Envelope{
		MessageID:     ulid.Make().String(),
		RelayID:       r.config.RelayID,
		SourceChainID: r.config.LocalChainID,
		Sender:        r.localContract.String(),
		Kind:          kind,
		Payload:       payload,
		Revert:        revert,
	}
	if amount != nil {
		env.Amount = amount.Dec()
	}
	if assetRef != nil {
		env.AssetRef = assetRef.String()
	}

	data, err := r.json.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("failed to marshal envelope: %w", err)
	}

	subject := fmt.Sprintf("portal.outbound.%d", destChainID)
	if _, err := r.js.Publish(ctx, subject, data); err != nil {
		return "", fmt.Errorf("failed to publish envelope: %w", err)
	}

	logger.InfoCtx(ctx, "Outbound message published",
		zap.String("messageID", env.MessageID),
		zap.Uint64("destChainID", uint64(destChainID)),
		zap.String("kind", string(kind)),
	)
	return env.MessageID, nil
}

// Close closes the NATS connection
func (r *natsRelay) Close() {
	if r.nc == nil {
		return
	}
	r.nc.Close()
}
