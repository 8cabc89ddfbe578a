// Package heattreatment projects a heat treatment run onto the ledger:
// WIP goes into the furnace, packaged finished goods come out.
package heattreatment

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

// BagWeightKg is the fixed pack weight. Output is always bagged at 25 kg.
const BagWeightKg = 25

// Treatment is the committed snapshot of a heat treatment document.
type Treatment struct {
	ID            id.ID     `json:"id"`
	TreatmentDate time.Time `json:"treatmentDate"`
	FurnaceNo     string    `json:"furnaceNo"`
	SizeItemID    id.ID     `json:"sizeItemId"`
	BagsProduced  int       `json:"bagsProduced"`

	// WIPItemID comes from configuration, FinishedRate is the configured
	// finished-goods valuation rate.
	WIPItemID    id.ID       `json:"-"`
	FinishedRate types.Money `json:"-"`
}

// Kind implements posting.Source.
func (t *Treatment) Kind() ledger.SourceKind {
	return ledger.SourceHeatTreatment
}

// OwnedKinds implements posting.Source.
func (t *Treatment) OwnedKinds() []ledger.SourceKind {
	return []ledger.SourceKind{ledger.SourceHeatTreatment}
}

// SourceID implements posting.Source.
func (t *Treatment) SourceID() id.ID {
	return t.ID
}

// Date implements posting.Source.
func (t *Treatment) Date() time.Time {
	return t.TreatmentDate
}

// Movements implements posting.Source. The treated quantity is
// bags × 25 kg: one ISSUE of WIP at the running WIP rate, one RECEIPT of
// the finished size item at the configured finished-goods rate.
func (t *Treatment) Movements(ctx context.Context, pricer posting.Pricer) ([]ledger.StockMovement, error) {
	if t.BagsProduced < 0 {
		return nil, apperror.NewValidation("bags produced must not be negative").
			WithDetail("bags_produced", t.BagsProduced)
	}
	if id.IsNil(t.SizeItemID) {
		return nil, apperror.NewValidation("size item is required").
			WithDetail("field", "sizeItemId")
	}
	if id.IsNil(t.WIPItemID) {
		return nil, apperror.NewValidation("wip item binding missing")
	}

	if t.BagsProduced == 0 {
		return nil, nil
	}

	qty := types.NewQuantityFromInt64Scaled(int64(t.BagsProduced) * BagWeightKg * types.QuantityScale)
	remarks := fmt.Sprintf("furnace %s, %d bags", t.FurnaceNo, t.BagsProduced)

	wipRate, err := pricer.CurrentRate(ctx, t.WIPItemID, ledger.SourceMeltingOutput)
	if err != nil {
		return nil, fmt.Errorf("rate for wip: %w", err)
	}

	return []ledger.StockMovement{
		ledger.NewMovement(
			ledger.MovementIssue, ledger.SourceHeatTreatment, t.ID,
			t.TreatmentDate, t.WIPItemID, qty, wipRate, remarks,
		),
		ledger.NewMovement(
			ledger.MovementReceipt, ledger.SourceHeatTreatment, t.ID,
			t.TreatmentDate, t.SizeItemID, qty, t.FinishedRate, remarks,
		),
	}, nil
}

// Ensure interface compliance at compile time.
var _ posting.Source = (*Treatment)(nil)
