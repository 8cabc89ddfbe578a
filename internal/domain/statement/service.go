package statement

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"heatstock/internal/core/apperror"
	"heatstock/internal/core/id"
	"heatstock/internal/core/tx"
	"heatstock/internal/core/types"
	"heatstock/internal/domain/catalog/item"
	"heatstock/internal/domain/ledger"
)

// Service aggregates ledger movements into stock statements. It reads the
// store directly and holds no cache: every report is derived from the
// ledger's current contents, so writers can never leave it stale.
type Service struct {
	store       ledger.Store
	items       item.Repository
	defaultRate types.Money

	// txm wraps the two ledger reads in one read-only transaction so a
	// concurrent posting cannot tear the opening and window halves apart.
	// Optional; the in-memory store needs no such wrapping.
	txm tx.ReadOnlyManager
}

// NewService creates a statement service. txm may be nil.
func NewService(store ledger.Store, items item.Repository, defaultRate types.Money, txm tx.ReadOnlyManager) *Service {
	return &Service{
		store:       store,
		items:       items,
		defaultRate: defaultRate,
		txm:         txm,
	}
}

// StockStatement reports per-item opening, receipts, issues and closing for
// the window [from, to). The report is item-complete: every item of a
// reportable category appears, movements or not.
func (s *Service) StockStatement(ctx context.Context, filter Filter) (*Statement, error) {
	if filter.FromDate.IsZero() || filter.ToDate.IsZero() {
		return nil, apperror.NewValidation("fromDate and toDate are required")
	}
	if !filter.FromDate.Before(filter.ToDate) {
		return nil, apperror.NewValidation("fromDate must be before toDate")
	}

	var result *Statement
	run := func(ctx context.Context) error {
		var err error
		result, err = s.aggregate(ctx, filter)
		return err
	}

	if s.txm != nil {
		if err := s.txm.ReadOnly(ctx, run); err != nil {
			return nil, err
		}
		return result, nil
	}

	if err := run(ctx); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) aggregate(ctx context.Context, filter Filter) (*Statement, error) {
	items, err := s.reportableItems(ctx, filter.ItemID)
	if err != nil {
		return nil, err
	}

	rows := make(map[id.ID]*Row, len(items))
	for _, it := range items {
		rows[it.ID] = &Row{
			ItemID:        it.ID,
			ItemName:      it.Name,
			Unit:          it.Unit,
			OpeningAmount: types.ZeroMoney(),
			ReceiptAmount: types.ZeroMoney(),
			IssueAmount:   types.ZeroMoney(),
			ClosingAmount: types.ZeroMoney(),
			ClosingRate:   types.ZeroMoney(),
		}
	}

	// Everything before the window forms the opening balance.
	opening, err := s.store.Query(ctx, ledger.Filter{
		ItemID: filter.ItemID,
		DateTo: &filter.FromDate,
	})
	if err != nil {
		return nil, fmt.Errorf("query opening movements: %w", err)
	}
	for i := range opening {
		m := &opening[i]
		row, ok := rows[m.ItemID]
		if !ok {
			continue
		}
		row.OpeningQty += m.SignedQuantity()
		row.OpeningAmount = row.OpeningAmount.Add(m.SignedAmount())
	}

	window, err := s.store.Query(ctx, ledger.Filter{
		ItemID:   filter.ItemID,
		DateFrom: &filter.FromDate,
		DateTo:   &filter.ToDate,
	})
	if err != nil {
		return nil, fmt.Errorf("query window movements: %w", err)
	}
	for i := range window {
		m := &window[i]
		row, ok := rows[m.ItemID]
		if !ok {
			continue
		}
		switch m.MovementType {
		case ledger.MovementReceipt:
			row.ReceiptQty += m.Quantity
			row.ReceiptAmount = row.ReceiptAmount.Add(m.Amount)
		case ledger.MovementIssue:
			row.IssueQty += m.Quantity
			row.IssueAmount = row.IssueAmount.Add(m.Amount)
		}
	}

	stmt := &Statement{
		FromDate:           filter.FromDate,
		ToDate:             filter.ToDate,
		Rows:               make([]Row, 0, len(rows)),
		TotalReceiptAmount: types.ZeroMoney(),
		TotalIssueAmount:   types.ZeroMoney(),
		TotalClosingAmount: types.ZeroMoney(),
	}

	for _, row := range rows {
		row.ClosingQty = row.OpeningQty + row.ReceiptQty - row.IssueQty
		row.ClosingAmount = row.OpeningAmount.Add(row.ReceiptAmount).Sub(row.IssueAmount)

		if row.ClosingQty.IsZero() {
			row.ClosingRate = s.defaultRate
		} else {
			row.ClosingRate = row.ClosingAmount.Div(row.ClosingQty.Decimal())
		}

		stmt.TotalReceiptAmount = stmt.TotalReceiptAmount.Add(row.ReceiptAmount)
		stmt.TotalIssueAmount = stmt.TotalIssueAmount.Add(row.IssueAmount)
		stmt.TotalClosingAmount = stmt.TotalClosingAmount.Add(row.ClosingAmount)

		stmt.Rows = append(stmt.Rows, *row)
	}

	// Order by item name, ascending, case-insensitive.
	coll := collate.New(language.Und, collate.IgnoreCase)
	sort.Slice(stmt.Rows, func(i, j int) bool {
		return coll.CompareString(stmt.Rows[i].ItemName, stmt.Rows[j].ItemName) < 0
	})

	return stmt, nil
}

// reportableItems resolves the statement's item universe.
func (s *Service) reportableItems(ctx context.Context, itemID *id.ID) ([]item.Item, error) {
	if itemID != nil {
		it, err := s.items.GetByID(ctx, *itemID)
		if err != nil {
			return nil, err
		}
		return []item.Item{it}, nil
	}

	items, err := s.items.List(ctx, item.ReportableCategories()...)
	if err != nil {
		return nil, fmt.Errorf("list reportable items: %w", err)
	}
	return items, nil
}
