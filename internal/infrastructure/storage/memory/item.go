package memory

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"heatstock/internal/core/apperror"
	"heatstock/internal/core/id"
	"heatstock/internal/domain/catalog/item"
)

// ItemRepo is an in-memory item.Repository seeded by tests.
type ItemRepo struct {
	mu    sync.RWMutex
	items map[id.ID]item.Item
}

// NewItemRepo creates an empty in-memory item repository.
func NewItemRepo() *ItemRepo {
	return &ItemRepo{items: make(map[id.ID]item.Item)}
}

// Add seeds an item. Not part of item.Repository; the catalog is external
// reference data everywhere but in tests.
func (r *ItemRepo) Add(it item.Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[it.ID] = it
}

// GetByID implements item.Repository.
func (r *ItemRepo) GetByID(ctx context.Context, itemID id.ID) (item.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	it, ok := r.items[itemID]
	if !ok {
		return item.Item{}, apperror.NewNotFound("item", itemID.String())
	}
	return it, nil
}

// List implements item.Repository.
func (r *ItemRepo) List(ctx context.Context, categories ...item.Category) ([]item.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[item.Category]bool, len(categories))
	for _, c := range categories {
		wanted[c] = true
	}

	var result []item.Item
	for _, it := range r.items {
		if len(wanted) > 0 && !wanted[it.Category] {
			continue
		}
		result = append(result, it)
	}

	sort.Slice(result, func(i, j int) bool {
		return bytes.Compare(result[i].ID[:], result[j].ID[:]) < 0
	})

	return result, nil
}

// Ensure interface compliance.
var _ item.Repository = (*ItemRepo)(nil)
