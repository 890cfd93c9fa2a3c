package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"pricetable/internal/core/apperror"
	"pricetable/internal/domain/pricetable"
	"pricetable/internal/infrastructure/http/v1/dto"
)

// TableHandler serves the product grid and accepts its events.
type TableHandler struct {
	*BaseHandler
	views *pricetable.ViewBuilder
}

// NewTableHandler creates a new table handler.
func NewTableHandler(base *BaseHandler, views *pricetable.ViewBuilder) *TableHandler {
	return &TableHandler{BaseHandler: base, views: views}
}

// Get renders the current table view.
// GET /api/v1/table
func (h *TableHandler) Get(c *gin.Context) {
	w, ok := h.Workspace(c)
	if !ok {
		return
	}

	var q dto.LocalFilterQuery
	if !h.BindQuery(c, &q) {
		return
	}
	local, err := q.ToCriteria()
	if err != nil {
		h.Error(c, err)
		return
	}

	view, err := h.views.Build(w.Table.Snapshot(), local)
	if err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}
	h.OK(c, view)
}

// SetPage handles onPageChange.
// POST /api/v1/table/page
func (h *TableHandler) SetPage(c *gin.Context) {
	w, ok := h.Workspace(c)
	if !ok {
		return
	}

	var req dto.SetPageRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if err := w.Table.SetPage(c.Request.Context(), *req.Page); err != nil {
		h.Error(c, err)
		return
	}
	h.Accepted(c, w.Table.Snapshot().Page)
}

// SetPageSize handles onPageSizeChange.
// POST /api/v1/table/page-size
func (h *TableHandler) SetPageSize(c *gin.Context) {
	w, ok := h.Workspace(c)
	if !ok {
		return
	}

	var req dto.SetPageSizeRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if err := w.Table.SetPageSize(c.Request.Context(), req.PageSize); err != nil {
		h.Error(c, err)
		return
	}
	h.Accepted(c, w.Table.Snapshot().Page)
}

// SetFilter handles onFilterModelChange.
// POST /api/v1/table/filter
func (h *TableHandler) SetFilter(c *gin.Context) {
	w, ok := h.Workspace(c)
	if !ok {
		return
	}

	var req dto.FilterModelRequest
	if !h.BindJSON(c, &req) {
		return
	}
	forwarded, err := w.Filters.OnFilterModelChange(c.Request.Context(), req.ToModel())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Accepted(c, dto.FilterChangeResponse{
		Forwarded:  forwarded,
		FilterMode: w.Table.Snapshot().Filter.Mode(),
	})
}

// ToggleServerSide flips the filter mode without refetching.
// POST /api/v1/table/server-side
func (h *TableHandler) ToggleServerSide(c *gin.Context) {
	w, ok := h.Workspace(c)
	if !ok {
		return
	}

	serverSide := w.Table.ToggleServerSideFiltering()
	h.OK(c, dto.ServerSideResponse{
		ServerSide: serverSide,
		FilterMode: w.Table.Snapshot().Filter.Mode(),
	})
}

// Retry re-issues the last fetch.
// POST /api/v1/table/retry
func (h *TableHandler) Retry(c *gin.Context) {
	w, ok := h.Workspace(c)
	if !ok {
		return
	}

	if err := w.Table.Retry(c.Request.Context()); err != nil {
		if errors.Is(err, pricetable.ErrNothingToRetry) {
			h.Error(c, apperror.NewConflict("nothing to retry"))
			return
		}
		h.Error(c, apperror.NewInternal(err))
		return
	}
	h.Accepted(c, w.Table.Snapshot().Page)
}
