package ledger

import (
	"context"
	"time"

	"heatstock/internal/core/id"
)

// Filter narrows a ledger query. All fields are optional; nil means
// "no constraint". DateFrom is inclusive, DateTo exclusive, so adjacent
// windows partition the ledger without overlap.
type Filter struct {
	ItemID       *id.ID
	DateFrom     *time.Time
	DateTo       *time.Time
	SourceKind   *SourceKind
	MovementType *MovementType
}

// Store is the durable home of stock movements. No row is ever updated in
// place; all mutation is delete-then-append.
type Store interface {
	// Append inserts all rows as a single atomic unit: either every row
	// becomes visible or none do.
	Append(ctx context.Context, movements []StockMovement) error

	// DeleteBySource removes every movement owned by (kind, sourceID).
	// Idempotent: a no-op when none exist.
	DeleteBySource(ctx context.Context, kind SourceKind, sourceID id.ID) error

	// Query returns matching rows ordered by transaction date, then line id.
	Query(ctx context.Context, filter Filter) ([]StockMovement, error)

	// LockSource serializes writers touching one source for the duration of
	// the enclosing transaction. Writers on different sources proceed in
	// parallel.
	LockSource(ctx context.Context, kind SourceKind, sourceID id.ID) error
}
