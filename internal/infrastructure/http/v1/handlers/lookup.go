package handlers

import (
	"github.com/gin-gonic/gin"

	"pricetable/internal/infrastructure/http/v1/dto"
)

// LookupHandler drives the barcode search and its modal.
type LookupHandler struct {
	*BaseHandler
}

// NewLookupHandler creates a new lookup handler.
func NewLookupHandler(base *BaseHandler) *LookupHandler {
	return &LookupHandler{BaseHandler: base}
}

// Search starts a barcode lookup.
// POST /api/v1/lookup
func (h *LookupHandler) Search(c *gin.Context) {
	w, ok := h.Workspace(c)
	if !ok {
		return
	}

	var req dto.SearchByBarcodeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	w.Fields.Clear()
	w.Lookup.SearchByBarcode(c.Request.Context(), req.Barcode)
	h.Accepted(c, w.Lookup.View())
}

// Get renders the modal.
// GET /api/v1/lookup
func (h *LookupHandler) Get(c *gin.Context) {
	w, ok := h.Workspace(c)
	if !ok {
		return
	}
	h.OK(c, w.Lookup.View())
}

// Close dismisses the modal.
// POST /api/v1/lookup/close
func (h *LookupHandler) Close(c *gin.Context) {
	w, ok := h.Workspace(c)
	if !ok {
		return
	}
	w.Lookup.Close()
	h.OK(c, w.Lookup.View())
}

// FieldErrors lists the violations of the last rejected barcode.
// GET /api/v1/lookup/field-errors
func (h *LookupHandler) FieldErrors(c *gin.Context) {
	w, ok := h.Workspace(c)
	if !ok {
		return
	}
	h.OK(c, dto.FieldErrorsResponse{Violations: w.Fields.Violations()})
}
