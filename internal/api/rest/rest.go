package rest

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/feral-file/ff-portal/internal/api/middleware"
	"github.com/feral-file/ff-portal/internal/domain"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Asset lookup (public read access)
		v1.GET("/assets/:token_id", handler.GetAsset)

		// Native asset creation, outbound transfer, and gas-abstraction
		// deposit (requires authentication)
		v1.POST("/assets", middleware.Auth(authCfg), handler.MintAsset)
		v1.POST("/transfers", middleware.Auth(authCfg), handler.InitiateTransfer)
		v1.POST("/deposits", middleware.Auth(authCfg), handler.DepositAndForward)

		// Admin endpoints (requires API key authentication only)
		admin := v1.Group("/admin", middleware.APIKeyAuth(authCfg))
		{
			admin.PUT("/connected-contracts/:chain_id", handler.SetConnectedContract)
			admin.PUT("/assets/:token_id/metadata", handler.UpdateMetadata)
		}
	}
}

// parseChainID parses a decimal chain id path parameter
func parseChainID(s string) (domain.ChainID, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("chain id must be a decimal integer: %w", err)
	}
	return domain.ChainID(id), nil
}
