package memory

import (
	"context"
	"sync"

	"heatstock/internal/core/tx"
)

// txKey marks a context as already inside a transaction so nested
// RunInTransaction calls reuse it instead of deadlocking.
type txKey struct{}

// TxManager is a serializing tx.ReadOnlyManager for tests: one writer at a
// time, which gives the in-memory store the same isolation the Postgres
// manager gets from the database.
type TxManager struct {
	mu sync.RWMutex
}

// NewTxManager creates a new in-memory transaction manager.
func NewTxManager() *TxManager {
	return &TxManager{}
}

// RunInTransaction implements tx.Manager. There is no rollback: the store
// mutates live, which tests account for by asserting on final state only.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(context.WithValue(ctx, txKey{}, struct{}{}))
}

// ReadOnly implements tx.ReadOnlyManager.
func (m *TxManager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return fn(context.WithValue(ctx, txKey{}, struct{}{}))
}

// Ensure interface compliance.
var (
	_ tx.Manager         = (*TxManager)(nil)
	_ tx.ReadOnlyManager = (*TxManager)(nil)
)
