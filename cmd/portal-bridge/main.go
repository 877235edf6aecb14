package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/feral-file/ff-portal/internal/adapter"
	"github.com/feral-file/ff-portal/internal/bridge"
	"github.com/feral-file/ff-portal/internal/config"
	"github.com/feral-file/ff-portal/internal/domain"
	"github.com/feral-file/ff-portal/internal/gateway"
	"github.com/feral-file/ff-portal/internal/guard"
	"github.com/feral-file/ff-portal/internal/logger"
	"github.com/feral-file/ff-portal/internal/reception"
	"github.com/feral-file/ff-portal/internal/registry"
	"github.com/feral-file/ff-portal/internal/store"
	"github.com/feral-file/ff-portal/internal/swap"
	"github.com/feral-file/ff-portal/internal/tokens"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadBridgeConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "portal-bridge",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Portal Bridge")

	// Parse on-ledger references
	authority, err := domain.AssetRefFromHex(cfg.Relay.Authority)
	if err != nil {
		logger.FatalCtx(ctx, "Invalid authority reference", zap.Error(err), zap.String("authority", cfg.Relay.Authority))
	}
	localContract, err := domain.AssetRefFromHex(cfg.Relay.LocalContract)
	if err != nil {
		logger.FatalCtx(ctx, "Invalid local contract reference", zap.Error(err), zap.String("local_contract", cfg.Relay.LocalContract))
	}
	relayRef, err := domain.AssetRefFromHex(cfg.Relay.RelayRef)
	if err != nil {
		logger.FatalCtx(ctx, "Invalid relay spender reference", zap.Error(err), zap.String("relay_ref", cfg.Relay.RelayRef))
	}

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("dsn", cfg.Database.DSN()))
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
	)

	// Initialize store
	dataStore := store.NewPGStore(db)

	// Initialize adapters
	jsonAdapter := adapter.NewJSON()
	natsJS := adapter.NewNatsJetStream()
	httpClient := adapter.NewHTTPClient(cfg.Swap.RequestTimeout)

	// Build the protocol core
	localChainID := domain.ChainID(cfg.Relay.LocalChainID)
	originRegistry := registry.New(dataStore, localChainID, authority)
	directory := registry.NewDirectory(dataStore, authority)
	replayGuard := guard.New(dataStore)
	ledger := tokens.NewLedger(dataStore)
	stateMachine := reception.New(dataStore, replayGuard, originRegistry, ledger, jsonAdapter)

	// Outbound relay client, used by the revert handler for refunds
	relay, err := gateway.NewRelayClient(gateway.Config{
		URL:            cfg.NATS.URL,
		StreamName:     cfg.NATS.StreamName,
		RelayID:        cfg.Relay.RelayID,
		LocalChainID:   cfg.Relay.LocalChainID,
		MaxReconnects:  cfg.NATS.MaxReconnects,
		ReconnectWait:  cfg.NATS.ReconnectWait,
		ConnectTimeout: cfg.Relay.ConnectTimeout,
		ConnectionName: cfg.NATS.ConnectionName,
	}, localContract, natsJS, jsonAdapter)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to relay", zap.Error(err), zap.String("url", cfg.NATS.URL))
	}
	defer relay.Close()
	logger.InfoCtx(ctx, "Connected to relay", zap.String("stream", cfg.NATS.StreamName))

	// External swap facility
	swapper, oracle := swap.NewFacilityClient(swap.FacilityConfig{BaseURL: cfg.Swap.FacilityURL}, httpClient, jsonAdapter)
	revertHandler := swap.NewRevertHandler(dataStore, swapper, oracle, ledger, relay, relayRef, jsonAdapter)

	// Gateway over the inbound consumer
	receiver := bridge.NewReceiver(stateMachine, revertHandler)
	gw := gateway.New(cfg.Relay.RelayID, directory, receiver)

	portalBridge, err := bridge.NewBridge(
		bridge.Config{
			URL:             cfg.NATS.URL,
			StreamName:      cfg.NATS.StreamName,
			ConsumerName:    cfg.NATS.ConsumerName,
			MaxReconnects:   cfg.NATS.MaxReconnects,
			ReconnectWait:   cfg.NATS.ReconnectWait,
			ConnectionName:  cfg.NATS.ConnectionName,
			AckWaitTimeout:  cfg.NATS.AckWait,
			MaxDeliver:      cfg.NATS.MaxDeliver,
			WorkerPoolSize:  cfg.Worker.WorkerPoolSize,
			WorkerQueueSize: cfg.Worker.WorkerQueueSize,
		},
		natsJS,
		gw,
		jsonAdapter,
	)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create bridge", zap.Error(err))
	}
	defer portalBridge.Close()
	logger.InfoCtx(ctx, "Bridge created", zap.String("stream", cfg.NATS.StreamName), zap.String("consumer", cfg.NATS.ConsumerName))

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Channel for bridge errors
	errCh := make(chan error, 1)

	// Start the bridge
	go func() {
		if err := portalBridge.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "bridge"))
		cancel()
	}

	// Give some time for graceful shutdown
	time.Sleep(time.Second)

	logger.Info("Portal Bridge stopped")
}
