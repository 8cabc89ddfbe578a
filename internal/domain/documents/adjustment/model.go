// Package adjustment projects a manual stock adjustment onto the ledger.
// It is the only producer of MANUAL movements: physical count corrections,
// opening balances, write-offs.
package adjustment

import (
	"context"
	"time"

	"heatstock/internal/core/id"
	"heatstock/internal/core/types"
	"heatstock/internal/domain/ledger"
	"heatstock/internal/domain/posting"
)

// Line is one adjusted item with an explicit direction and rate.
type Line struct {
	ItemID       id.ID               `json:"itemId"`
	MovementType ledger.MovementType `json:"movementType"`
	Quantity     types.Quantity      `json:"quantity"`
	Rate         types.Money         `json:"rate"`
	Remarks      string              `json:"remarks,omitempty"`
}

// Adjustment is the committed snapshot of a manual adjustment document.
type Adjustment struct {
	ID             id.ID     `json:"id"`
	AdjustmentDate time.Time `json:"adjustmentDate"`
	Reason         string    `json:"reason,omitempty"`
	Lines          []Line    `json:"lines"`
}

// Kind implements posting.Source.
func (a *Adjustment) Kind() ledger.SourceKind {
	return ledger.SourceManual
}

// OwnedKinds implements posting.Source.
func (a *Adjustment) OwnedKinds() []ledger.SourceKind {
	return []ledger.SourceKind{ledger.SourceManual}
}

// SourceID implements posting.Source.
func (a *Adjustment) SourceID() id.ID {
	return a.ID
}

// Date implements posting.Source.
func (a *Adjustment) Date() time.Time {
	return a.AdjustmentDate
}

// Movements implements posting.Source. Every line is fully specified by the
// operator; the pricer is not consulted.
func (a *Adjustment) Movements(ctx context.Context, _ posting.Pricer) ([]ledger.StockMovement, error) {
	movements := make([]ledger.StockMovement, 0, len(a.Lines))
	for _, line := range a.Lines {
		if !line.Quantity.IsPositive() {
			continue
		}
		remarks := line.Remarks
		if remarks == "" {
			remarks = a.Reason
		}
		movements = append(movements, ledger.NewMovement(
			line.MovementType, ledger.SourceManual, a.ID,
			a.AdjustmentDate, line.ItemID, line.Quantity, line.Rate, remarks,
		))
	}

	return movements, nil
}

// Ensure interface compliance at compile time.
var _ posting.Source = (*Adjustment)(nil)
