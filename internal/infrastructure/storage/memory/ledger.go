// Package memory provides in-memory storage implementations used by unit
// tests. The domain only ever sees the same interfaces the Postgres
// implementations satisfy, so the two are interchangeable.
package memory

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"heatstock/internal/core/id"
	"heatstock/internal/domain/ledger"
)

// LedgerStore is a mutex-guarded, in-memory ledger.Store.
// Cross-call atomicity comes from the serializing TxManager in this package;
// the store itself only guarantees per-call atomicity.
type LedgerStore struct {
	mu        sync.RWMutex
	movements []ledger.StockMovement
}

// NewLedgerStore creates an empty in-memory ledger store.
func NewLedgerStore() *LedgerStore {
	return &LedgerStore{}
}

// Append implements ledger.Store.
func (s *LedgerStore) Append(ctx context.Context, movements []ledger.StockMovement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.movements = append(s.movements, movements...)
	return nil
}

// DeleteBySource implements ledger.Store.
func (s *LedgerStore) DeleteBySource(ctx context.Context, kind ledger.SourceKind, sourceID id.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.movements[:0]
	for _, m := range s.movements {
		if m.SourceKind == kind && m.SourceID == sourceID {
			continue
		}
		kept = append(kept, m)
	}
	s.movements = kept
	return nil
}

// Query implements ledger.Store. DateFrom is inclusive, DateTo exclusive.
func (s *LedgerStore) Query(ctx context.Context, filter ledger.Filter) ([]ledger.StockMovement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []ledger.StockMovement
	for _, m := range s.movements {
		if filter.ItemID != nil && m.ItemID != *filter.ItemID {
			continue
		}
		if filter.SourceKind != nil && m.SourceKind != *filter.SourceKind {
			continue
		}
		if filter.MovementType != nil && m.MovementType != *filter.MovementType {
			continue
		}
		if filter.DateFrom != nil && m.TransactionDate.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && !m.TransactionDate.Before(*filter.DateTo) {
			continue
		}
		result = append(result, m)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].TransactionDate.Equal(result[j].TransactionDate) {
			return result[i].TransactionDate.Before(result[j].TransactionDate)
		}
		return bytes.Compare(result[i].LineID[:], result[j].LineID[:]) < 0
	})

	return result, nil
}

// LockSource implements ledger.Store. The serializing TxManager already
// admits one transaction at a time, so no per-source lock is needed here.
func (s *LedgerStore) LockSource(ctx context.Context, kind ledger.SourceKind, sourceID id.ID) error {
	return nil
}

// Ensure interface compliance.
var _ ledger.Store = (*LedgerStore)(nil)
