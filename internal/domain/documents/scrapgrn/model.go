// Package scrapgrn projects a goods-received note onto the ledger: one
// priced RECEIPT per line. The GRN is the only document that carries its
// own rates; everything downstream averages over them.
package scrapgrn

import (
	"context"
	"fmt"
	"time"

	"heatstock/internal/core/id"
	"heatstock/internal/core/types"
	"heatstock/internal/domain/ledger"
	"heatstock/internal/domain/posting"
)

// Line is one received material on the note.
type Line struct {
	ItemID   id.ID          `json:"itemId"`
	Quantity types.Quantity `json:"quantity"`
	Rate     types.Money    `json:"rate"`
}

// GRN is the committed snapshot of a scrap goods-received note.
type GRN struct {
	ID      id.ID     `json:"id"`
	GRNDate time.Time `json:"grnDate"`
	GRNNo   string    `json:"grnNo"`
	Lines   []Line    `json:"lines"`
}

// Kind implements posting.Source.
func (g *GRN) Kind() ledger.SourceKind {
	return ledger.SourceScrapGRN
}

// OwnedKinds implements posting.Source.
func (g *GRN) OwnedKinds() []ledger.SourceKind {
	return []ledger.SourceKind{ledger.SourceScrapGRN}
}

// SourceID implements posting.Source.
func (g *GRN) SourceID() id.ID {
	return g.ID
}

// Date implements posting.Source.
func (g *GRN) Date() time.Time {
	return g.GRNDate
}

// Movements implements posting.Source. Lines are priced by the note itself;
// the pricer is not consulted.
func (g *GRN) Movements(ctx context.Context, _ posting.Pricer) ([]ledger.StockMovement, error) {
	remarks := fmt.Sprintf("grn %s", g.GRNNo)

	movements := make([]ledger.StockMovement, 0, len(g.Lines))
	for _, line := range g.Lines {
		if !line.Quantity.IsPositive() {
			continue
		}
		movements = append(movements, ledger.NewMovement(
			ledger.MovementReceipt, ledger.SourceScrapGRN, g.ID,
			g.GRNDate, line.ItemID, line.Quantity, line.Rate, remarks,
		))
	}

	return movements, nil
}

// Ensure interface compliance at compile time.
var _ posting.Source = (*GRN)(nil)
