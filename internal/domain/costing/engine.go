// Package costing supplies rates for movements that are not individually
// priced by their source document: weighted averages over historical receipts.
package costing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"heatstock/internal/core/id"
	"heatstock/internal/core/types"
	"heatstock/internal/domain/ledger"
	"heatstock/pkg/logger"
)

// Notifier receives the signal that an item entered circulation without a
// single costed receipt behind it. Implementations forward it to the
// observability collaborator; failures there never fail the caller.
type Notifier interface {
	UncostedItem(ctx context.Context, itemID id.ID, kind ledger.SourceKind, defaultRate types.Money) error
}

// NopNotifier discards uncosted-item signals.
type NopNotifier struct{}

func (NopNotifier) UncostedItem(context.Context, id.ID, ledger.SourceKind, types.Money) error {
	return nil
}

// Engine computes rates from the ledger's current contents on every call.
// There is no cache: later edits to earlier receipts change the rate seen
// the next time a consumer is re-derived.
type Engine struct {
	store       ledger.Store
	defaultRate types.Money
	notifier    Notifier
}

// NewEngine creates a costing engine. defaultRate is used when an item has
// no qualifying receipts at all.
func NewEngine(store ledger.Store, defaultRate types.Money, notifier Notifier) *Engine {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Engine{
		store:       store,
		defaultRate: defaultRate,
		notifier:    notifier,
	}
}

// DefaultRate returns the configured fallback rate.
func (e *Engine) DefaultRate() types.Money {
	return e.defaultRate
}

// CurrentRate returns the arithmetic mean of the rate over all historical
// RECEIPT movements of the item with the given source kind.
//
// The average is deliberately not date-scoped: every receipt on record
// participates, whatever its transaction date. Accumulation stays in full
// decimal precision; only stored amounts get rounded, downstream.
func (e *Engine) CurrentRate(ctx context.Context, itemID id.ID, kind ledger.SourceKind) (types.Money, error) {
	receiptType := ledger.MovementReceipt
	movements, err := e.store.Query(ctx, ledger.Filter{
		ItemID:       &itemID,
		SourceKind:   &kind,
		MovementType: &receiptType,
	})
	if err != nil {
		return types.ZeroMoney(), fmt.Errorf("query receipts: %w", err)
	}

	if len(movements) == 0 {
		logger.Warn(ctx, "no costed receipts for item, using default rate",
			"item_id", itemID,
			"source_kind", kind,
			"default_rate", e.defaultRate,
		)
		if err := e.notifier.UncostedItem(ctx, itemID, kind, e.defaultRate); err != nil {
			logger.Warn(ctx, "uncosted item notification failed", "error", err)
		}
		return e.defaultRate, nil
	}

	sum := decimal.Zero
	for i := range movements {
		sum = sum.Add(movements[i].Rate)
	}

	return sum.Div(decimal.NewFromInt(int64(len(movements)))), nil
}
