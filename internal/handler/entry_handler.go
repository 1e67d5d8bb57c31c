package handler

import (
	"context"
	"net/http"

	"fuelops/internal/domain"
	"fuelops/internal/middleware"
	"fuelops/internal/model"
	"fuelops/internal/service"
	"fuelops/pkg/pagination"
	"fuelops/pkg/response"

	"github.com/gin-gonic/gin"
)

type EntryHandler struct {
	entryService    service.EntryService
	approvalService service.ApprovalService
}

func NewEntryHandler(entryService service.EntryService, approvalService service.ApprovalService) *EntryHandler {
	return &EntryHandler{entryService: entryService, approvalService: approvalService}
}

func (h *EntryHandler) RegisterRoutes(router *gin.RouterGroup) {
	entries := router.Group("/api/entries")
	{
		entries.GET("", middleware.RequireCapability(domain.CapViewDashboard), h.ListEntries)
		entries.POST("", middleware.RequireCapability(domain.CapSubmitEntry), h.SubmitEntry)
		entries.GET("/:id", middleware.RequireCapability(domain.CapViewDashboard), h.GetEntry)
		entries.PUT("/:id/approve", middleware.RequireCapability(domain.CapDecideEntry), h.ApproveEntry)
		entries.PUT("/:id/reject", middleware.RequireCapability(domain.CapDecideEntry), h.RejectEntry)
	}
}

// ListEntries returns daily entries, newest first
// @Summary      List daily entries
// @Tags         entries
// @Security     BearerAuth
// @Produce      json
// @Param        status      query     string  false  "PENDING, APPROVED or REJECTED"
// @Param        station_id  query     string  false  "Station ID"
// @Param        from        query     string  false  "From date (YYYY-MM-DD)"
// @Param        to          query     string  false  "To date (YYYY-MM-DD)"
// @Param        page        query     int     false  "Page number (default 1)"
// @Param        limit       query     int     false  "Number of items per page (default 20)"
// @Success      200         {object}  response.PagedResponse{data=[]model.DailyEntry}
// @Failure      403         {object}  response.Response
// @Router       /api/entries [get]
func (h *EntryHandler) ListEntries(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	p := pagination.Parse(c)
	filter := service.EntryFilter{
		Status:    c.Query("status"),
		StationID: c.Query("station_id"),
		FromDate:  c.Query("from"),
		ToDate:    c.Query("to"),
		Page:      p.Page,
		Limit:     p.Limit,
	}

	entries, total, err := h.entryService.List(c.Request.Context(), actor, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paged(http.StatusOK, entries, total, p.Page, p.Limit))
}

// SubmitEntry records a station's daily sales for approval
// @Summary      Submit daily entry
// @Description  Reconciles payments against volume × rate and stores a PENDING entry
// @Tags         entries
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.SubmitEntryRequest  true  "Daily Entry Payload"
// @Success      201      {object}  response.Response{data=model.DailyEntry}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/entries [post]
func (h *EntryHandler) SubmitEntry(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req service.SubmitEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	entry, err := h.entryService.Submit(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, entry))
}

// GetEntry returns one entry with its audit trail
// @Summary      Get daily entry
// @Tags         entries
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Entry ID"
// @Success      200  {object}  response.Response{data=model.DailyEntry}
// @Failure      404  {object}  response.Response
// @Router       /api/entries/{id} [get]
func (h *EntryHandler) GetEntry(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	entry, err := h.entryService.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, entry))
}

// ApproveEntry approves a pending entry and deducts stock
// @Summary      Approve daily entry
// @Tags         entries
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                   true   "Entry ID"
// @Param        payload  body      service.DecisionRequest  false  "Approver comments"
// @Success      200      {object}  response.Response{data=model.DailyEntry}
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/entries/{id}/approve [put]
func (h *EntryHandler) ApproveEntry(c *gin.Context) {
	h.decide(c, h.approvalService.Approve)
}

// RejectEntry rejects a pending entry
// @Summary      Reject daily entry
// @Tags         entries
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                   true   "Entry ID"
// @Param        payload  body      service.DecisionRequest  false  "Approver comments"
// @Success      200      {object}  response.Response{data=model.DailyEntry}
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/entries/{id}/reject [put]
func (h *EntryHandler) RejectEntry(c *gin.Context) {
	h.decide(c, h.approvalService.Reject)
}

type decideFunc func(ctx context.Context, actor domain.Actor, id, comments string) (*model.DailyEntry, error)

func (h *EntryHandler) decide(c *gin.Context, fn decideFunc) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req service.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Allow empty body, comments are optional
		req.Comments = ""
	}

	entry, err := fn(c.Request.Context(), actor, c.Param("id"), req.Comments)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, entry))
}
