package handler

import (
	"net/http"

	"fuelops/internal/domain"
	"fuelops/internal/middleware"
	"fuelops/internal/service"
	"fuelops/pkg/pagination"
	"fuelops/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/audit-logs")
	group.Use(middleware.RequireCapability(domain.CapViewAuditTrail))
	{
		group.GET("", h.GetAuditTrail)
		group.GET("/system", h.GetSystemLogs)
	}
}

// GetAuditTrail returns every entry's audit trail as one feed
// @Summary      Get entry audit trail
// @Description  Flattens the audit trail of every daily entry, newest first
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.PagedResponse{data=[]domain.TrailRecord}
// @Router       /api/audit-logs [get]
func (h *AuditHandler) GetAuditTrail(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	p := pagination.Parse(c)
	records, total, err := h.auditService.Trail(c.Request.Context(), actor, p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paged(http.StatusOK, records, total, p.Page, p.Limit))
}

// GetSystemLogs returns station, procurement and alert activity
// @Summary      Get system audit logs
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.PagedResponse{data=[]service.AuditLogResponse}
// @Router       /api/audit-logs/system [get]
func (h *AuditHandler) GetSystemLogs(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	p := pagination.Parse(c)
	logs, total, err := h.auditService.SystemLogs(c.Request.Context(), actor, p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paged(http.StatusOK, logs, total, p.Page, p.Limit))
}
