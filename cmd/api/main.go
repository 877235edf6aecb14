package main

import (
	"context"
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
	"github.com/feral-file/ff-portal/internal/api/middleware"
	"github.com/feral-file/ff-portal/internal/api/server"
	"github.com/feral-file/ff-portal/internal/config"
	"github.com/feral-file/ff-portal/internal/domain"
	"github.com/feral-file/ff-portal/internal/gateway"
	"github.com/feral-file/ff-portal/internal/logger"
	"github.com/feral-file/ff-portal/internal/mint"
	"github.com/feral-file/ff-portal/internal/registry"
	"github.com/feral-file/ff-portal/internal/store"
	"github.com/feral-file/ff-portal/internal/swap"
	"github.com/feral-file/ff-portal/internal/tokens"
	"github.com/feral-file/ff-portal/internal/transfer"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
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
			"service": "api-server",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Portal API")

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
	ledger := tokens.NewLedger(dataStore)
	minter := mint.New(dataStore, originRegistry, ledger)

	// Outbound relay client
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

	// Outbound transfer path and swap router
	transfers := transfer.New(dataStore, originRegistry, ledger, relay, localContract)
	swapper, oracle := swap.NewFacilityClient(swap.FacilityConfig{BaseURL: cfg.Swap.FacilityURL}, httpClient, jsonAdapter)
	swapRouter := swap.NewRouter(dataStore, swapper, oracle, ledger, relay, relayRef)

	// Create server config
	serverConfig := server.Config{
		Debug:        cfg.Debug,
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		Auth: middleware.AuthConfig{
			JWTPublicKey: cfg.Auth.JWTPublicKey,
			APIKeys:      cfg.Auth.APIKeys,
		},
	}

	// Create and start server
	srv := server.New(serverConfig, originRegistry, directory, ledger, minter, transfers, swapRouter)

	// Start server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
		cancel()
	}

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	logger.InfoCtx(shutdownCtx, "Shutting down server...")

	// Shutdown server
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.FatalCtx(shutdownCtx, "Server forced to shutdown", zap.Error(err))
	}

	// Use non-context logger for final message since original ctx is canceled
	logger.Info("API server stopped")
}
