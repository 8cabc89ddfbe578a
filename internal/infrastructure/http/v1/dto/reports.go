package dto

import (
	"time"

	"heatstock/internal/core/types"
)

// StockStatementRequest selects the statement window via query parameters.
// Dates are in RFC 3339 or plain YYYY-MM-DD form.
type StockStatementRequest struct {
	From   string `form:"from" binding:"required"`
	To     string `form:"to" binding:"required"`
	ItemID string `form:"itemId"`
}

// RateResponse is the costing engine's answer for one item.
type RateResponse struct {
	ItemID     string      `json:"itemId"`
	SourceKind string      `json:"sourceKind"`
	Rate       types.Money `json:"rate"`
}

// MovementsRequest filters the raw ledger listing.
type MovementsRequest struct {
	ItemID       string `form:"itemId"`
	From         string `form:"from"`
	To           string `form:"to"`
	SourceKind   string `form:"sourceKind"`
	MovementType string `form:"movementType"`
}

// ParseDate accepts RFC 3339 timestamps and plain dates.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
