// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"heatstock/internal/core/types"
	"heatstock/internal/domain/costing"
	"heatstock/internal/domain/documents/melting"
	"heatstock/internal/domain/ledger"
	"heatstock/internal/domain/posting"
	"heatstock/internal/domain/statement"
	"heatstock/internal/infrastructure/http/v1/handlers"
	"heatstock/internal/infrastructure/http/v1/middleware"
	"heatstock/internal/infrastructure/storage/postgres"
	"heatstock/pkg/logger"
)

// RouterConfig holds everything the router wires together.
type RouterConfig struct {
	Logger *logger.Logger
	Pool   *postgres.Pool

	PostingEngine    *posting.Engine
	StatementService *statement.Service
	CostingEngine    *costing.Engine
	LedgerService    *ledger.Service

	// Materials binds melting document fields to catalog items.
	Materials melting.Materials

	// FinishedRate values finished goods received from heat treatment.
	FinishedRate types.Money

	Development bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Development {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	api := router.Group("/api/v1")
	{
		docHandler := handlers.NewDocumentHandler(cfg.PostingEngine, cfg.Materials, cfg.FinishedRate)
		documents := api.Group("/documents")
		{
			documents.PUT("/:kind/:id", docHandler.Save)
			documents.DELETE("/:kind/:id", docHandler.Delete)
		}

		reportHandler := handlers.NewReportHandler(cfg.StatementService, cfg.CostingEngine, cfg.LedgerService)
		api.GET("/reports/stock-statement", reportHandler.StockStatement)
		api.GET("/rates/:itemId", reportHandler.CurrentRate)
		api.GET("/ledger/movements", reportHandler.Movements)
	}

	return router
}
