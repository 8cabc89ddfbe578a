package dto

import (
	"time"

	"heatstock/internal/core/id"
	"heatstock/internal/core/types"
)

// Document kinds accepted in the URL path.
const (
	DocKindMelting       = "melting"
	DocKindHeatTreatment = "heat-treatment"
	DocKindScrapGRN      = "scrap-grn"
	DocKindDispatch      = "dispatch"
	DocKindAdjustment    = "adjustment"
)

// MeltingRequest is the committed state of a melting process document.
// Quantities are in kilograms.
type MeltingRequest struct {
	MeltingDate time.Time      `json:"meltingDate" binding:"required"`
	HeatNo      string         `json:"heatNo" binding:"required"`
	ScrapTotal  types.Quantity `json:"scrapTotal"`
	Carbon      types.Quantity `json:"carbon"`
	Manganese   types.Quantity `json:"manganese"`
	Silicon     types.Quantity `json:"silicon"`
	Aluminium   types.Quantity `json:"aluminium"`
	Calcium     types.Quantity `json:"calcium"`
}

// HeatTreatmentRequest is the committed state of a heat treatment document.
type HeatTreatmentRequest struct {
	TreatmentDate time.Time `json:"treatmentDate" binding:"required"`
	FurnaceNo     string    `json:"furnaceNo"`
	SizeItemID    id.ID     `json:"sizeItemId" binding:"required"`
	BagsProduced  int       `json:"bagsProduced"`
}

// GRNLine is one received material.
type GRNLine struct {
	ItemID   id.ID          `json:"itemId" binding:"required"`
	Quantity types.Quantity `json:"quantity"`
	Rate     types.Money    `json:"rate"`
}

// ScrapGRNRequest is the committed state of a scrap goods-received note.
type ScrapGRNRequest struct {
	GRNDate time.Time `json:"grnDate" binding:"required"`
	GRNNo   string    `json:"grnNo" binding:"required"`
	Lines   []GRNLine `json:"lines" binding:"required"`
}

// DispatchLine is one dispatched item.
type DispatchLine struct {
	ItemID   id.ID          `json:"itemId" binding:"required"`
	Quantity types.Quantity `json:"quantity"`
}

// DispatchRequest is the committed state of a dispatch document.
type DispatchRequest struct {
	DispatchDate time.Time      `json:"dispatchDate" binding:"required"`
	InvoiceNo    string         `json:"invoiceNo" binding:"required"`
	Lines        []DispatchLine `json:"lines" binding:"required"`
}

// AdjustmentLine is one manually adjusted item.
type AdjustmentLine struct {
	ItemID       id.ID          `json:"itemId" binding:"required"`
	MovementType string         `json:"movementType" binding:"required"`
	Quantity     types.Quantity `json:"quantity"`
	Rate         types.Money    `json:"rate"`
	Remarks      string         `json:"remarks"`
}

// AdjustmentRequest is the committed state of a manual adjustment document.
type AdjustmentRequest struct {
	AdjustmentDate time.Time        `json:"adjustmentDate" binding:"required"`
	Reason         string           `json:"reason"`
	Lines          []AdjustmentLine `json:"lines" binding:"required"`
}
