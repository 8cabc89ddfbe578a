package handlers

import (
	"github.com/gin-gonic/gin"

	"heatstock/internal/core/apperror"
	"heatstock/internal/core/id"
	"heatstock/internal/domain/costing"
	"heatstock/internal/domain/ledger"
	"heatstock/internal/domain/statement"
	"heatstock/internal/infrastructure/http/v1/dto"
)

// ReportHandler serves the stock statement, rate lookups and the raw
// movement listing.
type ReportHandler struct {
	*BaseHandler
	statements *statement.Service
	costing    *costing.Engine
	movements  *ledger.Service
}

// NewReportHandler creates a report handler.
func NewReportHandler(statements *statement.Service, costingEngine *costing.Engine, movements *ledger.Service) *ReportHandler {
	return &ReportHandler{
		BaseHandler: NewBaseHandler(),
		statements:  statements,
		costing:     costingEngine,
		movements:   movements,
	}
}

// StockStatement renders the per-item stock statement over [from, to).
// GET /api/v1/reports/stock-statement?from=...&to=...
func (h *ReportHandler) StockStatement(c *gin.Context) {
	var req dto.StockStatementRequest
	if !h.BindQuery(c, &req) {
		return
	}

	filter := statement.Filter{}

	from, err := dto.ParseDate(req.From)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid from date").WithDetail("from", req.From))
		return
	}
	filter.FromDate = from

	to, err := dto.ParseDate(req.To)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid to date").WithDetail("to", req.To))
		return
	}
	filter.ToDate = to

	if req.ItemID != "" {
		itemID, err := id.Parse(req.ItemID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid item id").WithDetail("itemId", req.ItemID))
			return
		}
		filter.ItemID = &itemID
	}

	result, err := h.statements.StockStatement(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, result)
}

// CurrentRate answers what rate the costing engine would assign right now.
// GET /api/v1/rates/:itemId?sourceKind=SCRAP_GRN
func (h *ReportHandler) CurrentRate(c *gin.Context) {
	itemID, err := id.Parse(c.Param("itemId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid item id").WithDetail("itemId", c.Param("itemId")))
		return
	}

	kindParam := c.DefaultQuery("sourceKind", string(ledger.SourceScrapGRN))
	kind, err := ledger.ParseSourceKind(kindParam)
	if err != nil {
		h.Error(c, err)
		return
	}

	rate, err := h.costing.CurrentRate(c.Request.Context(), itemID, kind)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.RateResponse{
		ItemID:     itemID.String(),
		SourceKind: string(kind),
		Rate:       rate,
	})
}

// Movements lists raw ledger rows matching the filter.
// GET /api/v1/ledger/movements
func (h *ReportHandler) Movements(c *gin.Context) {
	var req dto.MovementsRequest
	if !h.BindQuery(c, &req) {
		return
	}

	var filter ledger.Filter

	if req.ItemID != "" {
		itemID, err := id.Parse(req.ItemID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid item id").WithDetail("itemId", req.ItemID))
			return
		}
		filter.ItemID = &itemID
	}
	if req.From != "" {
		from, err := dto.ParseDate(req.From)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid from date").WithDetail("from", req.From))
			return
		}
		filter.DateFrom = &from
	}
	if req.To != "" {
		to, err := dto.ParseDate(req.To)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid to date").WithDetail("to", req.To))
			return
		}
		filter.DateTo = &to
	}
	if req.SourceKind != "" {
		kind, err := ledger.ParseSourceKind(req.SourceKind)
		if err != nil {
			h.Error(c, err)
			return
		}
		filter.SourceKind = &kind
	}
	if req.MovementType != "" {
		mt, err := ledger.ParseMovementType(req.MovementType)
		if err != nil {
			h.Error(c, err)
			return
		}
		filter.MovementType = &mt
	}

	movements, err := h.movements.Query(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{
		"items":      movements,
		"totalCount": len(movements),
	})
}
