// Package item provides the item catalog: immutable reference data describing
// the materials the melting shop moves. The ledger core only reads it.
package item

import (
	"context"
	"fmt"

	"heatstock/internal/core/apperror"
	"heatstock/internal/core/id"
	"heatstock/internal/core/types"
)

// Category classifies an item for reporting.
type Category string

const (
	CategoryRawMaterial   Category = "raw_material"
	CategoryWIP           Category = "wip"
	CategoryFinishedGoods Category = "finished_goods"
	CategoryConsumable    Category = "consumable"
)

// ParseCategory converts a wire literal to a Category, rejecting
// unrecognized values.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryRawMaterial, CategoryWIP, CategoryFinishedGoods, CategoryConsumable:
		return Category(s), nil
	}
	return "", apperror.NewValidation(fmt.Sprintf("unknown item category %q", s)).
		WithDetail("field", "category")
}

// ReportableCategories are the categories the stock statement covers.
// Every item in one of these appears in the report, movements or not.
func ReportableCategories() []Category {
	return []Category{CategoryRawMaterial, CategoryWIP, CategoryFinishedGoods}
}

// Item is a catalog entry.
type Item struct {
	ID       id.ID       `db:"id" json:"id"`
	Name     string      `db:"name" json:"name"`
	Category Category    `db:"category" json:"category"`
	Unit     string      `db:"unit" json:"unit"`
	TaxRate  types.Money `db:"tax_rate" json:"taxRate"`
}

// Validate checks catalog invariants.
func (i *Item) Validate(ctx context.Context) error {
	if i.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if _, err := ParseCategory(string(i.Category)); err != nil {
		return err
	}
	return nil
}
