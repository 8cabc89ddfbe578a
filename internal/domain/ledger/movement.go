// Package ledger provides the perpetual stock ledger: an append-only log of
// stock movements that is the ground truth for on-hand quantity and value.
package ledger

import (
	"context"
	"fmt"
	"time"

	"heatstock/internal/core/apperror"
	"heatstock/internal/core/id"
	"heatstock/internal/core/types"
)

// MovementType defines the direction of a stock movement.
type MovementType string

const (
	// MovementReceipt increases on-hand quantity and value.
	MovementReceipt MovementType = "RECEIPT"
	// MovementIssue decreases on-hand quantity and value.
	MovementIssue MovementType = "ISSUE"
)

// ParseMovementType converts a wire literal to a MovementType.
// Unrecognized values are rejected, not passed through.
func ParseMovementType(s string) (MovementType, error) {
	switch MovementType(s) {
	case MovementReceipt, MovementIssue:
		return MovementType(s), nil
	}
	return "", apperror.NewValidation(fmt.Sprintf("unknown movement type %q", s)).
		WithDetail("field", "movement_type")
}

// SourceKind identifies the document family that owns a movement.
// Together with the source id it partitions the ledger into sets that are
// exclusively owned by the derivation engine.
type SourceKind string

const (
	SourceMelting       SourceKind = "MELTING"
	SourceMeltingOutput SourceKind = "MELTING_OUTPUT"
	SourceHeatTreatment SourceKind = "HEAT_TREATMENT"
	SourceScrapGRN      SourceKind = "SCRAP_GRN"
	SourceDispatch      SourceKind = "DISPATCH"
	SourceManual        SourceKind = "MANUAL"
)

// SourceKinds lists every valid source kind, in wire order.
func SourceKinds() []SourceKind {
	return []SourceKind{
		SourceMelting, SourceMeltingOutput, SourceHeatTreatment,
		SourceScrapGRN, SourceDispatch, SourceManual,
	}
}

// ParseSourceKind converts a wire literal to a SourceKind, rejecting
// unrecognized values.
func ParseSourceKind(s string) (SourceKind, error) {
	for _, k := range SourceKinds() {
		if SourceKind(s) == k {
			return k, nil
		}
	}
	return "", apperror.NewValidation(fmt.Sprintf("unknown source kind %q", s)).
		WithDetail("field", "source_kind")
}

// StockMovement is one ledger row. Movements are immutable: corrections
// happen by deleting and reinserting the whole owned set for a source,
// never by editing a row in place.
type StockMovement struct {
	// LineID is the system-assigned row id (UUIDv7, never reused)
	LineID id.ID `db:"line_id" json:"lineId"`

	// TransactionDate is the business date of the source document,
	// NOT the insertion time
	TransactionDate time.Time `db:"transaction_date" json:"transactionDate"`

	MovementType MovementType `db:"movement_type" json:"movementType"`

	ItemID id.ID `db:"item_id" json:"itemId"`

	// Quantity is always positive; direction comes from MovementType
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// Rate is the per-unit value assigned at derivation time
	Rate types.Money `db:"rate" json:"rate"`

	// Amount is round(Quantity × Rate, 2), stored, never recomputed at read
	Amount types.Money `db:"amount" json:"amount"`

	// SourceKind and SourceID identify the owning document
	SourceKind SourceKind `db:"source_kind" json:"sourceKind"`
	SourceID   id.ID      `db:"source_id" json:"sourceId"`

	Remarks string `db:"remarks" json:"remarks,omitempty"`

	// CreatedAt is the insertion timestamp, for audit only; it never
	// participates in financial calculations
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewMovement creates a movement with a generated line id and the amount
// computed from quantity × rate at money precision.
func NewMovement(
	movementType MovementType,
	sourceKind SourceKind,
	sourceID id.ID,
	transactionDate time.Time,
	itemID id.ID,
	quantity types.Quantity,
	rate types.Money,
	remarks string,
) StockMovement {
	return StockMovement{
		LineID:          id.New(),
		TransactionDate: transactionDate,
		MovementType:    movementType,
		ItemID:          itemID,
		Quantity:        quantity,
		Rate:            rate,
		Amount:          types.RoundMoney(quantity.Decimal().Mul(rate)),
		SourceKind:      sourceKind,
		SourceID:        sourceID,
		Remarks:         remarks,
		CreatedAt:       time.Now().UTC(),
	}
}

// SignedQuantity returns quantity with sign based on movement type.
func (m *StockMovement) SignedQuantity() types.Quantity {
	if m.MovementType == MovementIssue {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

// SignedAmount returns amount with sign based on movement type.
func (m *StockMovement) SignedAmount() types.Money {
	if m.MovementType == MovementIssue {
		return m.Amount.Neg()
	}
	return m.Amount
}

// Validate checks the row invariants. Amount mismatch is a consistency
// failure (a derivation bug), everything else a validation failure.
func (m *StockMovement) Validate(ctx context.Context) error {
	if _, err := ParseMovementType(string(m.MovementType)); err != nil {
		return err
	}
	if _, err := ParseSourceKind(string(m.SourceKind)); err != nil {
		return err
	}
	if id.IsNil(m.ItemID) {
		return apperror.NewValidation("item is required").
			WithDetail("field", "item_id")
	}
	if id.IsNil(m.SourceID) {
		return apperror.NewValidation("source id is required").
			WithDetail("field", "source_id")
	}
	if m.TransactionDate.IsZero() {
		return apperror.NewValidation("transaction date is required").
			WithDetail("field", "transaction_date")
	}
	if !m.Quantity.IsPositive() {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity").
			WithDetail("quantity", m.Quantity.String())
	}
	if m.Rate.IsNegative() {
		return apperror.NewValidation("rate must not be negative").
			WithDetail("field", "rate").
			WithDetail("rate", m.Rate.String())
	}

	want := types.RoundMoney(m.Quantity.Decimal().Mul(m.Rate))
	if !m.Amount.Equal(want) {
		return apperror.NewConsistency("amount does not match quantity × rate").
			WithDetail("line_id", m.LineID.String()).
			WithDetail("amount", m.Amount.String()).
			WithDetail("expected", want.String())
	}

	return nil
}
