package statement_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heatstock/internal/core/apperror"
	"heatstock/internal/core/id"
	"heatstock/internal/core/types"
	"heatstock/internal/domain/catalog/item"
	"heatstock/internal/domain/ledger"
	"heatstock/internal/domain/statement"
	"heatstock/internal/infrastructure/storage/memory"
)

var defaultRate = types.MustMoney("10.00")

type env struct {
	store *memory.LedgerStore
	items *memory.ItemRepo
	svc   *statement.Service
}

func newEnv() *env {
	store := memory.NewLedgerStore()
	items := memory.NewItemRepo()
	return &env{
		store: store,
		items: items,
		svc:   statement.NewService(store, items, defaultRate, memory.NewTxManager()),
	}
}

func (e *env) addItem(name string, cat item.Category) id.ID {
	itemID := id.New()
	e.items.Add(item.Item{ID: itemID, Name: name, Category: cat, Unit: "kg"})
	return itemID
}

func (e *env) move(t *testing.T, mt ledger.MovementType, itemID id.ID, day int, qty float64, rate string) {
	t.Helper()
	m := ledger.NewMovement(
		mt, ledger.SourceManual, id.New(),
		date(day), itemID,
		types.NewQuantityFromFloat64(qty), types.MustMoney(rate), "",
	)
	require.NoError(t, e.store.Append(context.Background(), []ledger.StockMovement{m}))
}

func date(day int) time.Time {
	return time.Date(2025, 3, day, 0, 0, 0, 0, time.UTC)
}

func rowFor(t *testing.T, stmt *statement.Statement, itemID id.ID) statement.Row {
	t.Helper()
	for _, r := range stmt.Rows {
		if r.ItemID == itemID {
			return r
		}
	}
	t.Fatalf("row for item %s not found", itemID)
	return statement.Row{}
}

func TestStatementBalances(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	scrap := e.addItem("MS Scrap", item.CategoryRawMaterial)

	// Before the window.
	e.move(t, ledger.MovementReceipt, scrap, 1, 1000, "12.00")
	e.move(t, ledger.MovementIssue, scrap, 3, 200, "12.00")
	// Inside [5, 10).
	e.move(t, ledger.MovementReceipt, scrap, 6, 500, "14.00")
	e.move(t, ledger.MovementIssue, scrap, 8, 300, "13.00")
	// On the exclusive upper bound: outside.
	e.move(t, ledger.MovementReceipt, scrap, 10, 999, "1.00")

	from, to := date(5), date(10)
	stmt, err := e.svc.StockStatement(ctx, statement.Filter{FromDate: from, ToDate: to})
	require.NoError(t, err)

	row := rowFor(t, stmt, scrap)
	assert.Equal(t, types.NewQuantityFromFloat64(800), row.OpeningQty)
	assert.True(t, row.OpeningAmount.Equal(types.MustMoney("9600.00")), "got %s", row.OpeningAmount)
	assert.Equal(t, types.NewQuantityFromFloat64(500), row.ReceiptQty)
	assert.Equal(t, types.NewQuantityFromFloat64(300), row.IssueQty)
	assert.Equal(t, types.NewQuantityFromFloat64(1000), row.ClosingQty)

	// closing amount = opening + receipts - issues = 9600 + 7000 - 3900
	assert.True(t, row.ClosingAmount.Equal(types.MustMoney("12700.00")), "got %s", row.ClosingAmount)
	assert.True(t, row.ClosingRate.Equal(types.MustMoney("12.70")), "got %s", row.ClosingRate)
}

func TestStatementWindowContinuity(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	scrap := e.addItem("MS Scrap", item.CategoryRawMaterial)

	e.move(t, ledger.MovementReceipt, scrap, 2, 100, "10.00")
	e.move(t, ledger.MovementIssue, scrap, 7, 30, "10.00")
	e.move(t, ledger.MovementReceipt, scrap, 12, 50, "11.00")

	first, err := e.svc.StockStatement(ctx, statement.Filter{FromDate: date(1), ToDate: date(10)})
	require.NoError(t, err)
	second, err := e.svc.StockStatement(ctx, statement.Filter{FromDate: date(10), ToDate: date(20)})
	require.NoError(t, err)

	closing := rowFor(t, first, scrap)
	opening := rowFor(t, second, scrap)
	assert.Equal(t, closing.ClosingQty, opening.OpeningQty)
	assert.True(t, closing.ClosingAmount.Equal(opening.OpeningAmount),
		"closing %s, opening %s", closing.ClosingAmount, opening.OpeningAmount)
}

func TestStatementItemComplete(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	moved := e.addItem("MS Scrap", item.CategoryRawMaterial)
	idle := e.addItem("Runner WIP", item.CategoryWIP)
	e.addItem("Balls 25mm", item.CategoryFinishedGoods)
	// Consumables stay off the statement.
	e.addItem("Grinding Disc", item.CategoryConsumable)

	e.move(t, ledger.MovementReceipt, moved, 6, 10, "10.00")

	stmt, err := e.svc.StockStatement(ctx, statement.Filter{FromDate: date(5), ToDate: date(10)})
	require.NoError(t, err)
	require.Len(t, stmt.Rows, 3)

	row := rowFor(t, stmt, idle)
	assert.True(t, row.OpeningQty.IsZero())
	assert.True(t, row.ClosingQty.IsZero())
	// Zero stock falls back to the costing default.
	assert.True(t, row.ClosingRate.Equal(defaultRate))
}

func TestStatementOrderedByNameCaseInsensitive(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	e.addItem("zinc ingot", item.CategoryRawMaterial)
	e.addItem("Balls 25mm", item.CategoryFinishedGoods)
	e.addItem("aluminium shot", item.CategoryRawMaterial)

	stmt, err := e.svc.StockStatement(ctx, statement.Filter{FromDate: date(1), ToDate: date(2)})
	require.NoError(t, err)
	require.Len(t, stmt.Rows, 3)

	assert.Equal(t, "aluminium shot", stmt.Rows[0].ItemName)
	assert.Equal(t, "Balls 25mm", stmt.Rows[1].ItemName)
	assert.Equal(t, "zinc ingot", stmt.Rows[2].ItemName)
}

func TestStatementSingleItemFilter(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	scrap := e.addItem("MS Scrap", item.CategoryRawMaterial)
	other := e.addItem("Runner WIP", item.CategoryWIP)
	e.move(t, ledger.MovementReceipt, scrap, 6, 10, "10.00")
	e.move(t, ledger.MovementReceipt, other, 6, 10, "10.00")

	stmt, err := e.svc.StockStatement(ctx, statement.Filter{
		FromDate: date(5), ToDate: date(10), ItemID: &scrap,
	})
	require.NoError(t, err)
	require.Len(t, stmt.Rows, 1)
	assert.Equal(t, scrap, stmt.Rows[0].ItemID)
}

func TestStatementTotals(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	a := e.addItem("A", item.CategoryRawMaterial)
	b := e.addItem("B", item.CategoryRawMaterial)
	e.move(t, ledger.MovementReceipt, a, 6, 10, "10.00")
	e.move(t, ledger.MovementReceipt, b, 6, 10, "20.00")
	e.move(t, ledger.MovementIssue, a, 7, 5, "10.00")

	stmt, err := e.svc.StockStatement(ctx, statement.Filter{FromDate: date(5), ToDate: date(10)})
	require.NoError(t, err)

	assert.True(t, stmt.TotalReceiptAmount.Equal(types.MustMoney("300.00")))
	assert.True(t, stmt.TotalIssueAmount.Equal(types.MustMoney("50.00")))
	assert.True(t, stmt.TotalClosingAmount.Equal(types.MustMoney("250.00")))
}

func TestStatementValidation(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	_, err := e.svc.StockStatement(ctx, statement.Filter{ToDate: date(10)})
	assert.True(t, apperror.IsValidation(err))

	_, err = e.svc.StockStatement(ctx, statement.Filter{FromDate: date(10), ToDate: date(10)})
	assert.True(t, apperror.IsValidation(err))

	_, err = e.svc.StockStatement(ctx, statement.Filter{FromDate: date(10), ToDate: date(5)})
	assert.True(t, apperror.IsValidation(err))
}

func TestStatementUnknownItemNotFound(t *testing.T) {
	e := newEnv()
	unknown := id.New()

	_, err := e.svc.StockStatement(context.Background(), statement.Filter{
		FromDate: date(1), ToDate: date(2), ItemID: &unknown,
	})
	assert.True(t, apperror.IsNotFound(err))
}
