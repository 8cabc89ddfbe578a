// Package main is the entry point for the heatstock background worker.
// It relays outbox events (uncosted-item warnings and the like) out of the
// database.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"heatstock/internal/infrastructure/storage/postgres"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Info("starting heatstock worker")

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DB.ConnectionString()))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	relay := postgres.NewOutboxRelay(pool.Pool, cfg.Worker.BatchSize, postgres.LogHandler{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		runRelay(ctx, relay, cfg.Worker.PollInterval, log)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancel()

	wg.Wait()
	log.Info("worker stopped")
}

func runRelay(ctx context.Context, relay *postgres.OutboxRelay, interval time.Duration, log *logger.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			processed, err := relay.ProcessBatch(ctx)
			if err != nil {
				log.Errorw("outbox batch failed", "error", err)
				continue
			}
			if processed > 0 {
				log.Infow("processed outbox batch", "count", processed)
			}
		}
	}
}
