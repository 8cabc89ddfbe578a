// Package dispatch projects a dispatch (outbound shipment) onto the ledger:
// one ISSUE of finished goods per line, valued at the item's running rate.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"heatstock/internal/core/id"
	"heatstock/internal/core/types"
	"heatstock/internal/domain/ledger"
	"heatstock/internal/domain/posting"
)

// Line is one dispatched item.
type Line struct {
	ItemID   id.ID          `json:"itemId"`
	Quantity types.Quantity `json:"quantity"`
}

// Dispatch is the committed snapshot of a dispatch document.
type Dispatch struct {
	ID           id.ID     `json:"id"`
	DispatchDate time.Time `json:"dispatchDate"`
	InvoiceNo    string    `json:"invoiceNo"`
	Lines        []Line    `json:"lines"`
}

// Kind implements posting.Source.
func (d *Dispatch) Kind() ledger.SourceKind {
	return ledger.SourceDispatch
}

// OwnedKinds implements posting.Source.
func (d *Dispatch) OwnedKinds() []ledger.SourceKind {
	return []ledger.SourceKind{ledger.SourceDispatch}
}

// SourceID implements posting.Source.
func (d *Dispatch) SourceID() id.ID {
	return d.ID
}

// Date implements posting.Source.
func (d *Dispatch) Date() time.Time {
	return d.DispatchDate
}

// Movements implements posting.Source. Finished goods enter stock through
// heat treatment, so the issue rate is the running average over
// HEAT_TREATMENT receipts of the item.
func (d *Dispatch) Movements(ctx context.Context, pricer posting.Pricer) ([]ledger.StockMovement, error) {
	remarks := fmt.Sprintf("invoice %s", d.InvoiceNo)

	movements := make([]ledger.StockMovement, 0, len(d.Lines))
	for _, line := range d.Lines {
		if !line.Quantity.IsPositive() {
			continue
		}
		rate, err := pricer.CurrentRate(ctx, line.ItemID, ledger.SourceHeatTreatment)
		if err != nil {
			return nil, fmt.Errorf("rate for item %s: %w", line.ItemID, err)
		}
		movements = append(movements, ledger.NewMovement(
			ledger.MovementIssue, ledger.SourceDispatch, d.ID,
			d.DispatchDate, line.ItemID, line.Quantity, rate, remarks,
		))
	}

	return movements, nil
}

// Ensure interface compliance at compile time.
var _ posting.Source = (*Dispatch)(nil)
