package ledger

import (
	"context"
	"fmt"

	"heatstock/internal/core/id"
	"heatstock/pkg/logger"
)

// Service guards the Store contract: every row that reaches storage has
// passed the movement invariants. Transactions are managed by the caller
// (the derivation engine); the service never opens its own.
type Service struct {
	store Store
}

// NewService creates a new ledger service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Store exposes the underlying store for read-only collaborators
// (costing, statement aggregation).
func (s *Service) Store() Store {
	return s.store
}

// Append validates and inserts a movement set atomically.
func (s *Service) Append(ctx context.Context, movements []StockMovement) error {
	if len(movements) == 0 {
		return nil
	}

	for i := range movements {
		if err := movements[i].Validate(ctx); err != nil {
			return fmt.Errorf("movement %d: %w", i, err)
		}
	}

	if err := s.store.Append(ctx, movements); err != nil {
		return fmt.Errorf("append movements: %w", err)
	}

	logger.Info(ctx, "appended stock movements",
		"count", len(movements),
		"source_kind", movements[0].SourceKind,
		"source_id", movements[0].SourceID,
	)

	return nil
}

// DeleteBySource removes the owned set for one source.
func (s *Service) DeleteBySource(ctx context.Context, kind SourceKind, sourceID id.ID) error {
	if err := s.store.DeleteBySource(ctx, kind, sourceID); err != nil {
		return fmt.Errorf("delete movements: %w", err)
	}

	logger.Info(ctx, "removed stock movements",
		"source_kind", kind,
		"source_id", sourceID,
	)

	return nil
}

// Query returns movements matching the filter.
func (s *Service) Query(ctx context.Context, filter Filter) ([]StockMovement, error) {
	return s.store.Query(ctx, filter)
}

// LockSource serializes writers on one source.
func (s *Service) LockSource(ctx context.Context, kind SourceKind, sourceID id.ID) error {
	return s.store.LockSource(ctx, kind, sourceID)
}
