package handler

import (
	"fmt"
	"net/http"

	"fuelops/internal/domain"
	"fuelops/internal/middleware"
	"fuelops/internal/service"
	"fuelops/pkg/response"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	reportService  service.ReportService
	insightService service.InsightService
}

func NewReportHandler(reportService service.ReportService, insightService service.InsightService) *ReportHandler {
	return &ReportHandler{reportService: reportService, insightService: insightService}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api")
	{
		api.GET("/dashboard", middleware.RequireCapability(domain.CapViewDashboard), h.GetDashboard)
		api.GET("/reports", middleware.RequireCapability(domain.CapViewReports), h.GetReport)
		api.GET("/reports/export", middleware.RequireCapability(domain.CapViewReports), h.ExportReport)
		api.GET("/insights", middleware.RequireCapability(domain.CapViewDashboard), h.GetInsight)
		api.POST("/insights/image", middleware.RequireCapability(domain.CapViewDashboard), h.GenerateImage)
	}
}

// GetDashboard returns KPIs, the seven-day series and station stock status
// @Summary      Get dashboard
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.Dashboard}
// @Router       /api/dashboard [get]
func (h *ReportHandler) GetDashboard(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	dash, err := h.reportService.Dashboard(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, dash))
}

// GetReport returns entries in the range with totals
// @Summary      Get financial report
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        station_id  query     string  false  "Station ID or ALL"
// @Param        range       query     string  false  "LAST_7 (default), LAST_30 or ALL"
// @Param        from        query     string  false  "From date (YYYY-MM-DD), overrides range"
// @Param        to          query     string  false  "To date (YYYY-MM-DD), overrides range"
// @Success      200         {object}  response.Response{data=service.ReportSummary}
// @Failure      400         {object}  response.Response
// @Router       /api/reports [get]
func (h *ReportHandler) GetReport(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var filter service.ReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		badRequest(c, err)
		return
	}
	summary, err := h.reportService.Summary(c.Request.Context(), actor, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}

// ExportReport downloads the report as an Excel workbook
// @Summary      Export financial report
// @Tags         reports
// @Security     BearerAuth
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        station_id  query     string  false  "Station ID or ALL"
// @Param        range       query     string  false  "LAST_7 (default), LAST_30 or ALL"
// @Param        from        query     string  false  "From date (YYYY-MM-DD)"
// @Param        to          query     string  false  "To date (YYYY-MM-DD)"
// @Success      200         {file}    file
// @Failure      400         {object}  response.Response
// @Router       /api/reports/export [get]
func (h *ReportHandler) ExportReport(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var filter service.ReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		badRequest(c, err)
		return
	}
	data, name, err := h.reportService.ExportXLSX(c.Request.Context(), actor, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", name))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// GetInsight returns advisory text for the caller's dashboard
// @Summary      Get operational insight
// @Tags         insights
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.InsightResponse}
// @Router       /api/insights [get]
func (h *ReportHandler) GetInsight(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	res, err := h.insightService.Advise(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

type imageRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// GenerateImage returns an image URL for a station description
// @Summary      Generate station image
// @Tags         insights
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      handler.imageRequest  true  "Prompt"
// @Success      200      {object}  response.Response{data=object}
// @Failure      400      {object}  response.Response
// @Router       /api/insights/image [post]
func (h *ReportHandler) GenerateImage(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req imageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	url, err := h.insightService.StationImage(c.Request.Context(), actor, req.Prompt)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"url": url}))
}
