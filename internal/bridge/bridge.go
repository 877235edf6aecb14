// Package bridge is the inbound consumer daemon: it pulls relay envelopes
// off a JetStream durable consumer, hands them to the gateway with bounded
// concurrency, and acknowledges them according to how the processing ended.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/feral-file/ff-portal/internal/adapter"
	"github.com/feral-file/ff-portal/internal/domain"
	"github.com/feral-file/ff-portal/internal/gateway"
	"github.com/feral-file/ff-portal/internal/logger"
)

const (
	defaultWorkerPoolSize  = 8
	defaultWorkerQueueSize = 256
)

// Config holds the configuration for the inbound bridge
type Config struct {
	URL             string
	StreamName      string
	ConsumerName    string
	MaxReconnects   int
	ReconnectWait   time.Duration
	ConnectionName  string
	AckWaitTimeout  time.Duration
	MaxDeliver      int
	WorkerPoolSize  int
	WorkerQueueSize int
}

// Bridge defines the interface for the inbound consumer daemon
type Bridge interface {
	// Run starts consuming inbound envelopes until ctx is cancelled
	Run(ctx context.Context) error
	// Close closes the bridge and cleans up resources
	Close()
}

type bridge struct {
	nc      adapter.NatsConn
	js      adapter.JetStream
	gateway gateway.Gateway
	json    adapter.JSON
	config  Config
}

// NewBridge connects to NATS and creates the inbound bridge
func NewBridge(
	cfg Config,
	natsJS adapter.NatsJetStream,
	gw gateway.Gateway,
	jsonAdapter adapter.JSON,
) (Bridge, error) {
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

	nc, js, err := natsJS.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}

	return &bridge{
		nc:      nc,
		js:      js,
		gateway: gw,
		json:    jsonAdapter,
		config:  cfg,
	}, nil
}

// Run starts consuming inbound envelopes
func (b *bridge) Run(ctx context.Context) error {
	logger.Info("Starting inbound bridge",
		zap.String("stream", b.config.StreamName),
		zap.String("consumer", b.config.ConsumerName),
	)

	consumerConfig := jetstream.ConsumerConfig{
		Durable:       b.config.ConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       b.config.AckWaitTimeout,
		MaxDeliver:    b.config.MaxDeliver,
		FilterSubject: "portal.inbound.>",
	}

	consumer, err := b.js.CreateOrUpdateConsumer(ctx, b.config.StreamName, consumerConfig)
	if err != nil {
		return fmt.Errorf("failed to create/update consumer: %w", err)
	}

	workers := b.config.WorkerPoolSize
	if workers == 0 {
		workers = defaultWorkerPoolSize
	}
	queueSize := b.config.WorkerQueueSize
	if queueSize == 0 {
		queueSize = defaultWorkerQueueSize
	}
	pool := pond.NewPool(workers, pond.WithQueueSize(queueSize), pond.WithContext(ctx))
	defer pool.StopAndWait()

	sub, err := consumer.Consume(func(msg adapter.Message) {
		pool.Submit(func() {
			b.handleMessage(ctx, msg)
		})
	})
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	defer sub.Stop()

	logger.Info("Started consuming inbound envelopes", zap.Int("workers", workers))

	<-ctx.Done()
	logger.Info("Shutting down inbound bridge",
		zap.Uint64("submitted", pool.SubmittedTasks()),
		zap.Uint64("waiting", pool.WaitingTasks()),
	)
	return ctx.Err()
}

// handleMessage processes a single relay envelope and acknowledges it
// according to the outcome: Term for unparseable data, Ack for success and
// terminal protocol rejections, Nak for anything transient.
func (b *bridge) handleMessage(ctx context.Context, msg adapter.Message) {
	metadata, _ := msg.Metadata()

	var env gateway.Envelope
	if err := b.json.Unmarshal(msg.Data(), &env); err != nil {
		logger.Error(err, zap.String("message", "Failed to unmarshal envelope"))
		if err := msg.Term(); err != nil {
			logger.Error(err, zap.String("message", "Failed to terminate message"))
		}
		return
	}

	var deliveries uint64
	if metadata != nil {
		deliveries = metadata.NumDelivered
	}
	logger.Info("Received inbound envelope",
		zap.String("messageID", env.MessageID),
		zap.Uint64("sourceChainID", env.SourceChainID),
		zap.String("kind", string(env.Kind)),
		zap.Uint64("deliveryCount", deliveries),
	)

	err := b.gateway.Handle(ctx, &env)
	switch {
	case err == nil:
		if err := msg.Ack(); err != nil {
			logger.Error(err, zap.String("message", "Failed to ACK message"))
		}
	case isTerminal(err):
		// Redelivery can never fix these; retrying a replayed nonce in
		// particular would spin until MaxDeliver for nothing.
		logger.Error(err, zap.String("message", "Envelope rejected"), zap.String("messageID", env.MessageID))
		if err := msg.Ack(); err != nil {
			logger.Error(err, zap.String("message", "Failed to ACK rejected message"))
		}
	default:
		logger.Error(err, zap.String("message", "Failed to process envelope"), zap.String("messageID", env.MessageID))
		if err := msg.Nak(); err != nil {
			logger.Error(err, zap.String("message", "Failed to NAK message"))
		}
	}
}

// isTerminal reports whether a processing error is a definitive protocol
// rejection rather than a transient fault
func isTerminal(err error) bool {
	return errors.Is(err, domain.ErrReplayDetected) ||
		errors.Is(err, domain.ErrUnauthorized) ||
		errors.Is(err, domain.ErrInvalidMessage) ||
		errors.Is(err, domain.ErrInvalidAddress) ||
		errors.Is(err, domain.ErrInsufficientOutAmount)
}

// Close closes the bridge and cleans up resources
func (b *bridge) Close() {
	if b.nc == nil {
		return
	}
	b.nc.Close()
}
