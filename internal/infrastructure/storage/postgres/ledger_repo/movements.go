// Package ledger_repo provides the PostgreSQL implementation of the stock
// movement store.
package ledger_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"heatstock/internal/core/apperror"
	"heatstock/internal/core/id"
	"heatstock/internal/domain/ledger"
	"heatstock/internal/infrastructure/storage/postgres"
)

const movementsTable = "stock_movements"

var movementColumns = []string{
	"line_id", "transaction_date", "movement_type", "item_id",
	"quantity", "rate", "amount",
	"source_kind", "source_id", "remarks", "created_at",
}

// MovementRepo implements ledger.Store on PostgreSQL.
type MovementRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewMovementRepo creates a new movement repository.
func NewMovementRepo(txManager *postgres.TxManager) *MovementRepo {
	return &MovementRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Append batch inserts movements.
func (r *MovementRepo) Append(ctx context.Context, movements []ledger.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}

	// Fast path: COPY when inside a transaction. The posting engine always
	// appends inside one, so this is the common case.
	if tx := r.txManager.GetTx(ctx); tx != nil {
		inserter := postgres.NewBatchInserter(r.txManager)
		rows := make([][]any, 0, len(movements))
		for _, m := range movements {
			rows = append(rows, []any{
				m.LineID, m.TransactionDate, m.MovementType, m.ItemID,
				m.Quantity, m.Rate, m.Amount,
				m.SourceKind, m.SourceID, m.Remarks, m.CreatedAt,
			})
		}
		if _, err := inserter.CopyFromSlice(ctx, movementsTable, movementColumns, rows); err != nil {
			return apperror.NewStorage("copy movements", err)
		}
		return nil
	}

	// Fallback: non-transactional multi-row insert.
	q := r.builder.Insert(movementsTable).Columns(movementColumns...)
	for _, m := range movements {
		q = q.Values(
			m.LineID, m.TransactionDate, m.MovementType, m.ItemID,
			m.Quantity, m.Rate, m.Amount,
			m.SourceKind, m.SourceID, m.Remarks, m.CreatedAt,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return apperror.NewStorage("insert movements", err)
	}

	return nil
}

// DeleteBySource removes every movement owned by (kind, sourceID).
func (r *MovementRepo) DeleteBySource(ctx context.Context, kind ledger.SourceKind, sourceID id.ID) error {
	q := r.builder.Delete(movementsTable).
		Where(squirrel.Eq{"source_kind": kind, "source_id": sourceID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return apperror.NewStorage("delete movements by source", err)
	}

	return nil
}

// Query returns matching rows ordered by transaction date, then line id.
func (r *MovementRepo) Query(ctx context.Context, filter ledger.Filter) ([]ledger.StockMovement, error) {
	q := r.builder.Select(movementColumns...).From(movementsTable)

	if filter.ItemID != nil {
		q = q.Where(squirrel.Eq{"item_id": *filter.ItemID})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"transaction_date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.Lt{"transaction_date": *filter.DateTo})
	}
	if filter.SourceKind != nil {
		q = q.Where(squirrel.Eq{"source_kind": *filter.SourceKind})
	}
	if filter.MovementType != nil {
		q = q.Where(squirrel.Eq{"movement_type": *filter.MovementType})
	}

	q = q.OrderBy("transaction_date", "line_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []ledger.StockMovement
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &movements, sql, args...); err != nil {
		return nil, apperror.NewStorage("select movements", err)
	}

	return movements, nil
}

// LockSource takes a transaction-scoped advisory lock on (kind, sourceID).
// Released automatically at commit or rollback, so there is no unlock path.
func (r *MovementRepo) LockSource(ctx context.Context, kind ledger.SourceKind, sourceID id.ID) error {
	if r.txManager.GetTx(ctx) == nil {
		return apperror.NewConsistency("LockSource requires transaction context").
			WithDetail("source_kind", string(kind)).
			WithDetail("source_id", sourceID.String())
	}

	querier := r.txManager.GetQuerier(ctx)
	key := string(kind) + ":" + sourceID.String()
	_, err := querier.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtextextended($1, 0))", key)
	if err != nil {
		return apperror.NewStorage("lock source", err)
	}

	return nil
}

// Ensure interface compliance.
var _ ledger.Store = (*MovementRepo)(nil)
