package handler

import (
	"net/http"

	"fuelops/internal/domain"
	"fuelops/internal/middleware"
	"fuelops/internal/service"
	"fuelops/pkg/response"

	"github.com/gin-gonic/gin"
)

type AlertHandler struct {
	alertService service.AlertService
}

func NewAlertHandler(alertService service.AlertService) *AlertHandler {
	return &AlertHandler{alertService: alertService}
}

func (h *AlertHandler) RegisterRoutes(router *gin.RouterGroup) {
	alerts := router.Group("/api/alerts")
	{
		alerts.GET("", middleware.RequireCapability(domain.CapViewDashboard), h.ListAlerts)
		alerts.POST("/evaluate", middleware.RequireCapability(domain.CapResolveAlert), h.EvaluateAlerts)
		alerts.PUT("/:id/resolve", middleware.RequireCapability(domain.CapResolveAlert), h.ResolveAlert)
	}
}

// ListAlerts returns alerts, newest first
// @Summary      List alerts
// @Tags         alerts
// @Security     BearerAuth
// @Produce      json
// @Param        active  query     bool  false  "Only unresolved alerts"
// @Success      200     {object}  response.Response{data=[]model.Alert}
// @Router       /api/alerts [get]
func (h *AlertHandler) ListAlerts(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	alerts, err := h.alertService.List(c.Request.Context(), actor, c.Query("active") == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, alerts))
}

// EvaluateAlerts re-derives condition alerts from current data
// @Summary      Evaluate alerts
// @Tags         alerts
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.Alert}
// @Router       /api/alerts/evaluate [post]
func (h *AlertHandler) EvaluateAlerts(c *gin.Context) {
	raised, err := h.alertService.Evaluate(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, raised))
}

// ResolveAlert marks an alert resolved
// @Summary      Resolve alert
// @Tags         alerts
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Alert ID"
// @Success      200  {object}  response.Response{data=model.Alert}
// @Failure      404  {object}  response.Response
// @Router       /api/alerts/{id}/resolve [put]
func (h *AlertHandler) ResolveAlert(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	alert, err := h.alertService.Resolve(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, alert))
}
