package costing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heatstock/internal/core/id"
	"heatstock/internal/core/types"
	"heatstock/internal/domain/ledger"
	"heatstock/internal/infrastructure/storage/memory"
)

type recordingNotifier struct {
	calls int
	last  id.ID
}

func (n *recordingNotifier) UncostedItem(_ context.Context, itemID id.ID, _ ledger.SourceKind, _ types.Money) error {
	n.calls++
	n.last = itemID
	return nil
}

func receiptAt(itemID id.ID, kind ledger.SourceKind, day int, rate string) ledger.StockMovement {
	return ledger.NewMovement(
		ledger.MovementReceipt, kind, id.New(),
		time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC),
		itemID,
		types.NewQuantityFromFloat64(100),
		types.MustMoney(rate),
		"",
	)
}

func TestCurrentRateMeanOverReceipts(t *testing.T) {
	ctx := context.Background()
	store := memory.NewLedgerStore()
	itemID := id.New()

	require.NoError(t, store.Append(ctx, []ledger.StockMovement{
		receiptAt(itemID, ledger.SourceScrapGRN, 1, "10.00"),
		receiptAt(itemID, ledger.SourceScrapGRN, 2, "20.00"),
		receiptAt(itemID, ledger.SourceScrapGRN, 3, "25.00"),
	}))

	engine := NewEngine(store, types.MustMoney("10.00"), nil)

	rate, err := engine.CurrentRate(ctx, itemID, ledger.SourceScrapGRN)
	require.NoError(t, err)
	assert.True(t, rate.Equal(types.MustMoney("18.333333333333333333")) ||
		rate.StringFixed(4) == "18.3333", "got %s", rate)
}

func TestCurrentRateKeepsFullPrecision(t *testing.T) {
	ctx := context.Background()
	store := memory.NewLedgerStore()
	itemID := id.New()

	// Mean of 10 and 10.01 is 10.005: must not collapse to 10.00 or 10.01.
	require.NoError(t, store.Append(ctx, []ledger.StockMovement{
		receiptAt(itemID, ledger.SourceScrapGRN, 1, "10.00"),
		receiptAt(itemID, ledger.SourceScrapGRN, 2, "10.01"),
	}))

	engine := NewEngine(store, types.MustMoney("1.00"), nil)

	rate, err := engine.CurrentRate(ctx, itemID, ledger.SourceScrapGRN)
	require.NoError(t, err)
	assert.True(t, rate.Equal(types.MustMoney("10.005")), "got %s", rate)
}

func TestCurrentRateIgnoresOtherKindsAndIssues(t *testing.T) {
	ctx := context.Background()
	store := memory.NewLedgerStore()
	itemID := id.New()

	issue := ledger.NewMovement(
		ledger.MovementIssue, ledger.SourceMelting, id.New(),
		time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
		itemID, types.NewQuantityFromFloat64(10), types.MustMoney("99.00"), "",
	)

	require.NoError(t, store.Append(ctx, []ledger.StockMovement{
		receiptAt(itemID, ledger.SourceScrapGRN, 1, "10.00"),
		receiptAt(itemID, ledger.SourceMeltingOutput, 2, "50.00"),
		issue,
	}))

	engine := NewEngine(store, types.MustMoney("1.00"), nil)

	rate, err := engine.CurrentRate(ctx, itemID, ledger.SourceScrapGRN)
	require.NoError(t, err)
	assert.True(t, rate.Equal(types.MustMoney("10.00")), "got %s", rate)
}

func TestCurrentRateDefaultsAndNotifies(t *testing.T) {
	ctx := context.Background()
	store := memory.NewLedgerStore()
	notifier := &recordingNotifier{}
	itemID := id.New()

	engine := NewEngine(store, types.MustMoney("10.00"), notifier)

	rate, err := engine.CurrentRate(ctx, itemID, ledger.SourceScrapGRN)
	require.NoError(t, err)
	assert.True(t, rate.Equal(types.MustMoney("10.00")))
	assert.Equal(t, 1, notifier.calls)
	assert.Equal(t, itemID, notifier.last)
}
