// Package catalog_repo provides the PostgreSQL view onto the item catalog.
// The catalog itself is mastered upstream; this repo only reads the
// replicated cat_items table.
package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"heatstock/internal/core/apperror"
	"heatstock/internal/core/id"
	"heatstock/internal/domain/catalog/item"
	"heatstock/internal/infrastructure/storage/postgres"
)

const itemsTable = "cat_items"

var itemColumns = []string{"id", "name", "category", "unit", "tax_rate"}

// ItemRepo implements item.Repository on PostgreSQL.
type ItemRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewItemRepo creates a new item repository.
func NewItemRepo(txManager *postgres.TxManager) *ItemRepo {
	return &ItemRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByID returns one item.
func (r *ItemRepo) GetByID(ctx context.Context, itemID id.ID) (item.Item, error) {
	var it item.Item

	q := r.builder.Select(itemColumns...).From(itemsTable).
		Where(squirrel.Eq{"id": itemID}).Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return it, fmt.Errorf("build query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &it, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return it, apperror.NewNotFound("item", itemID.String())
		}
		return it, apperror.NewStorage("get item", err)
	}

	return it, nil
}

// List returns items filtered by category, ordered by id.
func (r *ItemRepo) List(ctx context.Context, categories ...item.Category) ([]item.Item, error) {
	q := r.builder.Select(itemColumns...).From(itemsTable)

	if len(categories) > 0 {
		q = q.Where(squirrel.Eq{"category": categories})
	}

	q = q.OrderBy("id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []item.Item
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, apperror.NewStorage("list items", err)
	}

	return items, nil
}

// Ensure interface compliance.
var _ item.Repository = (*ItemRepo)(nil)
