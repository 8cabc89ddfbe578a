// Package melting projects a melting process (one furnace heat) onto the
// ledger: raw-material consumption out, WIP yield in.
package melting

import (
	"context"
	"fmt"
	"time"

	"heatstock/internal/core/apperror"
	"heatstock/internal/core/id"
	"heatstock/internal/core/types"
	"heatstock/internal/domain/ledger"
	"heatstock/internal/domain/posting"
)

// Materials binds the melting document's consumption fields to catalog
// items. The document itself carries quantities per material name, not item
// references, so the binding comes from configuration.
type Materials struct {
	ScrapItemID     id.ID
	CarbonItemID    id.ID
	ManganeseItemID id.ID
	SiliconItemID   id.ID
	AluminiumItemID id.ID
	CalciumItemID   id.ID

	// WIPItemID is the intermediate item the heat produces.
	WIPItemID id.ID
}

// Validate checks that every binding is present.
func (m Materials) Validate() error {
	fields := map[string]id.ID{
		"scrap":     m.ScrapItemID,
		"carbon":    m.CarbonItemID,
		"manganese": m.ManganeseItemID,
		"silicon":   m.SiliconItemID,
		"aluminium": m.AluminiumItemID,
		"calcium":   m.CalciumItemID,
		"wip":       m.WIPItemID,
	}
	for name, itemID := range fields {
		if id.IsNil(itemID) {
			return apperror.NewValidation("material item binding missing").
				WithDetail("material", name)
		}
	}
	return nil
}

// Process is the committed snapshot of a melting process document.
// Quantities are in kilograms.
type Process struct {
	ID          id.ID          `json:"id"`
	MeltingDate time.Time      `json:"meltingDate"`
	HeatNo      string         `json:"heatNo"`
	ScrapTotal  types.Quantity `json:"scrapTotal"`
	Carbon      types.Quantity `json:"carbon"`
	Manganese   types.Quantity `json:"manganese"`
	Silicon     types.Quantity `json:"silicon"`
	Aluminium   types.Quantity `json:"aluminium"`
	Calcium     types.Quantity `json:"calcium"`

	Materials Materials `json:"-"`
}

// Kind implements posting.Source.
func (p *Process) Kind() ledger.SourceKind {
	return ledger.SourceMelting
}

// OwnedKinds implements posting.Source. A heat writes consumption under
// MELTING and its yield under MELTING_OUTPUT, both keyed by the process id.
func (p *Process) OwnedKinds() []ledger.SourceKind {
	return []ledger.SourceKind{ledger.SourceMelting, ledger.SourceMeltingOutput}
}

// SourceID implements posting.Source.
func (p *Process) SourceID() id.ID {
	return p.ID
}

// Date implements posting.Source.
func (p *Process) Date() time.Time {
	return p.MeltingDate
}

// consumption pairs a charged material with its quantity, in charge order.
func (p *Process) consumption() []struct {
	itemID id.ID
	qty    types.Quantity
	name   string
} {
	return []struct {
		itemID id.ID
		qty    types.Quantity
		name   string
	}{
		{p.Materials.ScrapItemID, p.ScrapTotal, "scrap"},
		{p.Materials.CarbonItemID, p.Carbon, "carbon"},
		{p.Materials.ManganeseItemID, p.Manganese, "manganese"},
		{p.Materials.SiliconItemID, p.Silicon, "silicon"},
		{p.Materials.AluminiumItemID, p.Aluminium, "aluminium"},
		{p.Materials.CalciumItemID, p.Calcium, "calcium"},
	}
}

// Movements implements posting.Source. Each consumed material is issued at
// its current purchase-average rate; the WIP yield (mass balance of the
// charge) is received at the running WIP rate. Zero quantities produce no
// rows.
func (p *Process) Movements(ctx context.Context, pricer posting.Pricer) ([]ledger.StockMovement, error) {
	if err := p.Materials.Validate(); err != nil {
		return nil, err
	}

	remarks := fmt.Sprintf("heat %s", p.HeatNo)
	var movements []ledger.StockMovement
	var output types.Quantity

	for _, c := range p.consumption() {
		if !c.qty.IsPositive() {
			continue
		}
		rate, err := pricer.CurrentRate(ctx, c.itemID, ledger.SourceScrapGRN)
		if err != nil {
			return nil, fmt.Errorf("rate for %s: %w", c.name, err)
		}
		movements = append(movements, ledger.NewMovement(
			ledger.MovementIssue, ledger.SourceMelting, p.ID,
			p.MeltingDate, c.itemID, c.qty, rate, remarks,
		))
		output += c.qty
	}

	if output.IsPositive() {
		wipRate, err := pricer.CurrentRate(ctx, p.Materials.WIPItemID, ledger.SourceMeltingOutput)
		if err != nil {
			return nil, fmt.Errorf("rate for wip: %w", err)
		}
		movements = append(movements, ledger.NewMovement(
			ledger.MovementReceipt, ledger.SourceMeltingOutput, p.ID,
			p.MeltingDate, p.Materials.WIPItemID, output, wipRate, remarks,
		))
	}

	return movements, nil
}

// Ensure interface compliance at compile time.
var _ posting.Source = (*Process)(nil)
