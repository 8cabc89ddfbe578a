// Package main is the entry point for the heatstock API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"heatstock/internal/core/id"
	"heatstock/internal/core/types"
	"heatstock/internal/domain/costing"
	"heatstock/internal/domain/documents/melting"
	"heatstock/internal/domain/ledger"
	"heatstock/internal/domain/posting"
	"heatstock/internal/domain/statement"
	v1 "heatstock/internal/infrastructure/http/v1"
	"heatstock/internal/infrastructure/storage/postgres"
	"heatstock/internal/infrastructure/storage/postgres/catalog_repo"
	"heatstock/internal/infrastructure/storage/postgres/ledger_repo"
	"heatstock/pkg/config"
	"heatstock/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.App.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting heatstock server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.DB.ConnectionString())
	poolCfg.MaxConns = cfg.DB.MaxConns
	poolCfg.MinConns = cfg.DB.MinConns

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Ledger wiring ---
	movementRepo := ledger_repo.NewMovementRepo(txManager)
	itemRepo := catalog_repo.NewItemRepo(txManager)
	ledgerService := ledger.NewService(movementRepo)

	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}

	outbox := postgres.NewOutboxPublisher(txManager)

	defaultRate := mustMoney(log, "LEDGER_DEFAULT_RATE", cfg.Ledger.DefaultRate)
	finishedRate := mustMoney(log, "LEDGER_FINISHED_GOODS_RATE", cfg.Ledger.FinishedGoodsRate)

	costingEngine := costing.NewEngine(movementRepo, defaultRate, outbox)
	postingEngine := posting.NewEngine(txManager, ledgerService, costingEngine, auditService)
	statementService := statement.NewService(movementRepo, itemRepo, defaultRate, txManager)

	materials, err := materialsFromConfig(cfg.Ledger)
	if err != nil {
		log.Fatalw("invalid material item bindings", "error", err)
	}

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:           log,
		Pool:             pool,
		PostingEngine:    postingEngine,
		StatementService: statementService,
		CostingEngine:    costingEngine,
		LedgerService:    ledgerService,
		Materials:        materials,
		FinishedRate:     finishedRate,
		Development:      cfg.App.IsDevelopment(),
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("http server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("http server failed", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server shutdown failed", "error", err)
	}

	log.Info("server stopped")
}

// materialsFromConfig parses the configured item bindings for melting
// documents. Every binding must be a valid UUID.
func materialsFromConfig(cfg config.LedgerConfig) (melting.Materials, error) {
	var m melting.Materials
	var err error

	parse := func(name, s string) id.ID {
		if err != nil {
			return id.Nil()
		}
		var parsed id.ID
		parsed, err = id.Parse(s)
		if err != nil {
			err = fmt.Errorf("binding %s: %w", name, err)
		}
		return parsed
	}

	m.ScrapItemID = parse("LEDGER_ITEM_SCRAP", cfg.ScrapItemID)
	m.CarbonItemID = parse("LEDGER_ITEM_CARBON", cfg.CarbonItemID)
	m.ManganeseItemID = parse("LEDGER_ITEM_MANGANESE", cfg.ManganeseItemID)
	m.SiliconItemID = parse("LEDGER_ITEM_SILICON", cfg.SiliconItemID)
	m.AluminiumItemID = parse("LEDGER_ITEM_ALUMINIUM", cfg.AluminiumItemID)
	m.CalciumItemID = parse("LEDGER_ITEM_CALCIUM", cfg.CalciumItemID)
	m.WIPItemID = parse("LEDGER_ITEM_WIP", cfg.WIPItemID)

	return m, err
}

func mustMoney(log *logger.Logger, name, s string) types.Money {
	m, err := types.NewMoneyFromString(s)
	if err != nil {
		log.Fatalw("invalid rate configuration", "name", name, "value", s, "error", err)
	}
	return m
}
