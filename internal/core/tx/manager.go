// Package tx defines the transaction boundary abstraction.
// Domain services depend on these interfaces, never on a concrete pool,
// so tests can substitute an in-memory or scoped transactional store.
package tx

import (
	"context"
)

// Manager defines the contract for transaction management.
// Implementations handle BEGIN, COMMIT, ROLLBACK and nested reuse.
type Manager interface {
	// RunInTransaction executes fn within a transaction.
	// If fn returns an error, the transaction is rolled back; otherwise it
	// is committed. Nested calls reuse the transaction already in ctx.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager extends Manager with read-only transaction support.
// Reports run here: repeatable reads, no locks taken on ledger rows.
type ReadOnlyManager interface {
	Manager

	// ReadOnly executes fn in a read-only transaction.
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}
