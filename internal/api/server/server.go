package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feral-file/ff-portal/internal/api/middleware"
	"github.com/feral-file/ff-portal/internal/api/rest"
	"github.com/feral-file/ff-portal/internal/logger"
	"github.com/feral-file/ff-portal/internal/mint"
	"github.com/feral-file/ff-portal/internal/registry"
	"github.com/feral-file/ff-portal/internal/swap"
	"github.com/feral-file/ff-portal/internal/tokens"
	"github.com/feral-file/ff-portal/internal/transfer"
)

// Config holds the server configuration
type Config struct {
	Debug        bool
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	Auth         middleware.AuthConfig
}

// Server wraps the HTTP server
type Server struct {
	config     Config
	registry   registry.Registry
	directory  registry.Directory
	ledger     tokens.Ledger
	minter     mint.Minter
	transfers  transfer.Sender
	router     swap.Router
	httpServer *http.Server
}

// New creates a new API server
func New(cfg Config, reg registry.Registry, dir registry.Directory, ledger tokens.Ledger, minter mint.Minter, transfers transfer.Sender, router swap.Router) *Server {
	return &Server{
		config:    cfg,
		registry:  reg,
		directory: dir,
		ledger:    ledger,
		minter:    minter,
		transfers: transfers,
		router:    router,
	}
}

// Start initializes and starts the HTTP server
func (s *Server) Start() error {
	// Set Gin mode based on debug flag
	if s.config.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	engine := gin.New()

	// Setup middleware
	engine.Use(middleware.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger())
	engine.Use(middleware.SetupCORS())

	// Create REST handler
	restHandler := rest.NewHandler(s.registry, s.directory, s.ledger, s.minter, s.transfers, s.router)

	// Setup REST routes
	rest.SetupRoutes(engine, restHandler, s.config.Auth)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	logger.Info("Starting API server",
		zap.String("address", addr),
	)

	// Start server
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down API server")

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}

	return nil
}
