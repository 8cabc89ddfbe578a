package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"heatstock/internal/core/apperror"
	"heatstock/internal/core/id"
	"heatstock/internal/core/types"
	"heatstock/internal/domain/documents/adjustment"
	"heatstock/internal/domain/documents/dispatch"
	"heatstock/internal/domain/documents/heattreatment"
	"heatstock/internal/domain/documents/melting"
	"heatstock/internal/domain/documents/scrapgrn"
	"heatstock/internal/domain/ledger"
	"heatstock/internal/domain/posting"
	"heatstock/internal/infrastructure/http/v1/dto"
)

// DocumentHandler receives committed document snapshots from the ERP and
// feeds them to the derivation engine. The document id in the URL is the
// ERP's id; resending the same document replaces its ledger rows.
type DocumentHandler struct {
	*BaseHandler
	engine       *posting.Engine
	materials    melting.Materials
	finishedRate types.Money
}

// NewDocumentHandler creates a document handler.
func NewDocumentHandler(engine *posting.Engine, materials melting.Materials, finishedRate types.Money) *DocumentHandler {
	return &DocumentHandler{
		BaseHandler:  NewBaseHandler(),
		engine:       engine,
		materials:    materials,
		finishedRate: finishedRate,
	}
}

// ownedKindsByDocKind maps a URL document kind onto the ledger source kinds
// the document writes under.
var ownedKindsByDocKind = map[string][]ledger.SourceKind{
	dto.DocKindMelting:       {ledger.SourceMelting, ledger.SourceMeltingOutput},
	dto.DocKindHeatTreatment: {ledger.SourceHeatTreatment},
	dto.DocKindScrapGRN:      {ledger.SourceScrapGRN},
	dto.DocKindDispatch:      {ledger.SourceDispatch},
	dto.DocKindAdjustment:    {ledger.SourceManual},
}

// Save handles a created or updated document.
// PUT /api/v1/documents/:kind/:id
func (h *DocumentHandler) Save(c *gin.Context) {
	docID, ok := h.parseDocID(c)
	if !ok {
		return
	}

	src, ok := h.buildSource(c, c.Param("kind"), docID)
	if !ok {
		return
	}

	if err := h.engine.DocumentSaved(c.Request.Context(), src); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewIDResponse(docID))
}

// Delete handles a deleted document.
// DELETE /api/v1/documents/:kind/:id
func (h *DocumentHandler) Delete(c *gin.Context) {
	docID, ok := h.parseDocID(c)
	if !ok {
		return
	}

	kinds, found := ownedKindsByDocKind[c.Param("kind")]
	if !found {
		h.Error(c, apperror.NewValidation(fmt.Sprintf("unknown document kind %q", c.Param("kind"))))
		return
	}

	if err := h.engine.DocumentDeleted(c.Request.Context(), kinds, docID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

func (h *DocumentHandler) parseDocID(c *gin.Context) (id.ID, bool) {
	docID, err := id.Parse(c.Param("id"))
	if err != nil || id.IsNil(docID) {
		h.Error(c, apperror.NewValidation("invalid document id").
			WithDetail("id", c.Param("id")))
		return id.Nil(), false
	}
	return docID, true
}

// buildSource assembles the posting source for a document kind from the
// request body plus configured bindings.
func (h *DocumentHandler) buildSource(c *gin.Context, kind string, docID id.ID) (posting.Source, bool) {
	switch kind {
	case dto.DocKindMelting:
		var req dto.MeltingRequest
		if !h.BindJSON(c, &req) {
			return nil, false
		}
		return &melting.Process{
			ID:          docID,
			MeltingDate: req.MeltingDate,
			HeatNo:      req.HeatNo,
			ScrapTotal:  req.ScrapTotal,
			Carbon:      req.Carbon,
			Manganese:   req.Manganese,
			Silicon:     req.Silicon,
			Aluminium:   req.Aluminium,
			Calcium:     req.Calcium,
			Materials:   h.materials,
		}, true

	case dto.DocKindHeatTreatment:
		var req dto.HeatTreatmentRequest
		if !h.BindJSON(c, &req) {
			return nil, false
		}
		return &heattreatment.Treatment{
			ID:            docID,
			TreatmentDate: req.TreatmentDate,
			FurnaceNo:     req.FurnaceNo,
			SizeItemID:    req.SizeItemID,
			BagsProduced:  req.BagsProduced,
			WIPItemID:     h.materials.WIPItemID,
			FinishedRate:  h.finishedRate,
		}, true

	case dto.DocKindScrapGRN:
		var req dto.ScrapGRNRequest
		if !h.BindJSON(c, &req) {
			return nil, false
		}
		lines := make([]scrapgrn.Line, 0, len(req.Lines))
		for _, l := range req.Lines {
			lines = append(lines, scrapgrn.Line{
				ItemID:   l.ItemID,
				Quantity: l.Quantity,
				Rate:     l.Rate,
			})
		}
		return &scrapgrn.GRN{
			ID:      docID,
			GRNDate: req.GRNDate,
			GRNNo:   req.GRNNo,
			Lines:   lines,
		}, true

	case dto.DocKindDispatch:
		var req dto.DispatchRequest
		if !h.BindJSON(c, &req) {
			return nil, false
		}
		lines := make([]dispatch.Line, 0, len(req.Lines))
		for _, l := range req.Lines {
			lines = append(lines, dispatch.Line{
				ItemID:   l.ItemID,
				Quantity: l.Quantity,
			})
		}
		return &dispatch.Dispatch{
			ID:           docID,
			DispatchDate: req.DispatchDate,
			InvoiceNo:    req.InvoiceNo,
			Lines:        lines,
		}, true

	case dto.DocKindAdjustment:
		var req dto.AdjustmentRequest
		if !h.BindJSON(c, &req) {
			return nil, false
		}
		lines := make([]adjustment.Line, 0, len(req.Lines))
		for _, l := range req.Lines {
			mt, err := ledger.ParseMovementType(l.MovementType)
			if err != nil {
				h.Error(c, err)
				return nil, false
			}
			lines = append(lines, adjustment.Line{
				ItemID:       l.ItemID,
				MovementType: mt,
				Quantity:     l.Quantity,
				Rate:         l.Rate,
				Remarks:      l.Remarks,
			})
		}
		return &adjustment.Adjustment{
			ID:             docID,
			AdjustmentDate: req.AdjustmentDate,
			Reason:         req.Reason,
			Lines:          lines,
		}, true
	}

	h.Error(c, apperror.NewValidation(fmt.Sprintf("unknown document kind %q", kind)))
	return nil, false
}
