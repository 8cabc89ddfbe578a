package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heatstock/internal/core/id"
	"heatstock/internal/core/types"
	"heatstock/internal/domain/ledger"
)

func mv(itemID, sourceID id.ID, kind ledger.SourceKind, mt ledger.MovementType, day int) ledger.StockMovement {
	return ledger.NewMovement(
		mt, kind, sourceID,
		time.Date(2025, 4, day, 0, 0, 0, 0, time.UTC),
		itemID, types.NewQuantityFromFloat64(1), types.MustMoney("1.00"), "",
	)
}

func TestLedgerStoreDeleteBySource(t *testing.T) {
	ctx := context.Background()
	store := NewLedgerStore()
	itemID := id.New()
	srcA, srcB := id.New(), id.New()

	require.NoError(t, store.Append(ctx, []ledger.StockMovement{
		mv(itemID, srcA, ledger.SourceMelting, ledger.MovementIssue, 1),
		mv(itemID, srcA, ledger.SourceMeltingOutput, ledger.MovementReceipt, 1),
		mv(itemID, srcB, ledger.SourceMelting, ledger.MovementIssue, 2),
	}))

	require.NoError(t, store.DeleteBySource(ctx, ledger.SourceMelting, srcA))

	rest, err := store.Query(ctx, ledger.Filter{})
	require.NoError(t, err)
	require.Len(t, rest, 2)

	// Same source id under a different kind survives: kinds partition
	// independently.
	kinds := map[ledger.SourceKind]int{}
	for _, m := range rest {
		kinds[m.SourceKind]++
	}
	assert.Equal(t, 1, kinds[ledger.SourceMeltingOutput])
	assert.Equal(t, 1, kinds[ledger.SourceMelting])
}

func TestLedgerStoreQueryWindow(t *testing.T) {
	ctx := context.Background()
	store := NewLedgerStore()
	itemID := id.New()
	src := id.New()

	require.NoError(t, store.Append(ctx, []ledger.StockMovement{
		mv(itemID, src, ledger.SourceManual, ledger.MovementReceipt, 1),
		mv(itemID, src, ledger.SourceManual, ledger.MovementReceipt, 5),
		mv(itemID, src, ledger.SourceManual, ledger.MovementReceipt, 10),
	}))

	from := time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)

	// DateFrom inclusive, DateTo exclusive.
	window, err := store.Query(ctx, ledger.Filter{DateFrom: &from, DateTo: &to})
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, 5, window[0].TransactionDate.Day())
}

func TestLedgerStoreQueryFilters(t *testing.T) {
	ctx := context.Background()
	store := NewLedgerStore()
	itemA, itemB := id.New(), id.New()
	src := id.New()

	require.NoError(t, store.Append(ctx, []ledger.StockMovement{
		mv(itemA, src, ledger.SourceScrapGRN, ledger.MovementReceipt, 1),
		mv(itemB, src, ledger.SourceScrapGRN, ledger.MovementReceipt, 1),
		mv(itemA, src, ledger.SourceDispatch, ledger.MovementIssue, 2),
	}))

	kind := ledger.SourceScrapGRN
	mt := ledger.MovementReceipt

	got, err := store.Query(ctx, ledger.Filter{ItemID: &itemA, SourceKind: &kind, MovementType: &mt})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, itemA, got[0].ItemID)
}

func TestLedgerStoreQueryOrdering(t *testing.T) {
	ctx := context.Background()
	store := NewLedgerStore()
	itemID := id.New()
	src := id.New()

	// Insert out of date order.
	require.NoError(t, store.Append(ctx, []ledger.StockMovement{
		mv(itemID, src, ledger.SourceManual, ledger.MovementReceipt, 9),
		mv(itemID, src, ledger.SourceManual, ledger.MovementReceipt, 2),
		mv(itemID, src, ledger.SourceManual, ledger.MovementReceipt, 5),
	}))

	got, err := store.Query(ctx, ledger.Filter{})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.True(t, got[0].TransactionDate.Before(got[1].TransactionDate))
	assert.True(t, got[1].TransactionDate.Before(got[2].TransactionDate))
}
