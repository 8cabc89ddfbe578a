package item

import (
	"context"

	"heatstock/internal/core/id"
)

// Repository is the read-only view of the external item catalog.
type Repository interface {
	// GetByID returns one item; NOT_FOUND when the id is unknown.
	GetByID(ctx context.Context, itemID id.ID) (Item, error)

	// List returns items whose category is in categories (all items when
	// empty), ordered by id for stable iteration.
	List(ctx context.Context, categories ...Category) ([]Item, error)
}
