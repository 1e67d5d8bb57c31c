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

type StationHandler struct {
	stationService   service.StationService
	inventoryService service.InventoryService
}

func NewStationHandler(stationService service.StationService, inventoryService service.InventoryService) *StationHandler {
	return &StationHandler{stationService: stationService, inventoryService: inventoryService}
}

func (h *StationHandler) RegisterRoutes(router *gin.RouterGroup) {
	stations := router.Group("/api/stations")
	{
		stations.GET("", middleware.RequireCapability(domain.CapViewDashboard), h.ListStations)
		stations.POST("", middleware.RequireCapability(domain.CapManageStations), h.CreateStation)
		stations.GET("/:id", middleware.RequireCapability(domain.CapViewDashboard), h.GetStation)
		stations.PUT("/:id", middleware.RequireCapability(domain.CapManageStations), h.UpdateStation)
		stations.DELETE("/:id", middleware.RequireCapability(domain.CapManageStations), h.DeleteStation)
		stations.POST("/:id/procurements", middleware.RequireCapability(domain.CapProcure), h.Procure)
		stations.GET("/:id/procurements", middleware.RequireCapability(domain.CapViewReports), h.ListPurchases)
		stations.GET("/:id/movements", middleware.RequireCapability(domain.CapViewReports), h.ListMovements)
	}
}

// ListStations returns stations with their fuel lines
// @Summary      List stations
// @Tags         stations
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.Station}
// @Router       /api/stations [get]
func (h *StationHandler) ListStations(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	stations, err := h.stationService.List(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, stations))
}

// CreateStation registers a new station
// @Summary      Create station
// @Tags         stations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateStationRequest  true  "Create Station Payload"
// @Success      201      {object}  response.Response{data=model.Station}
// @Failure      400      {object}  response.Response
// @Router       /api/stations [post]
func (h *StationHandler) CreateStation(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req service.CreateStationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	station, err := h.stationService.Create(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, station))
}

// GetStation returns one station
// @Summary      Get station
// @Tags         stations
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Station ID"
// @Success      200  {object}  response.Response{data=model.Station}
// @Failure      404  {object}  response.Response
// @Router       /api/stations/{id} [get]
func (h *StationHandler) GetStation(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	station, err := h.stationService.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, station))
}

// UpdateStation edits details and fuel line settings
// @Summary      Update station
// @Tags         stations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Station ID"
// @Param        payload  body      service.UpdateStationRequest  true  "Update Station Payload"
// @Success      200      {object}  response.Response{data=model.Station}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/stations/{id} [put]
func (h *StationHandler) UpdateStation(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req service.UpdateStationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	station, err := h.stationService.Update(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, station))
}

// DeleteStation soft-deletes a station
// @Summary      Delete station
// @Tags         stations
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Station ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/stations/{id} [delete]
func (h *StationHandler) DeleteStation(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	if err := h.stationService.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Station deleted successfully"}))
}

// Procure records a delivery and tops up the fuel line up to capacity
// @Summary      Record stock purchase
// @Tags         stations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                  true  "Station ID"
// @Param        payload  body      service.ProcureRequest  true  "Purchase Payload"
// @Success      201      {object}  response.Response{data=service.ProcurementResult}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/stations/{id}/procurements [post]
func (h *StationHandler) Procure(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req service.ProcureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	result, err := h.inventoryService.Procure(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// ListPurchases returns the station's purchase ledger
// @Summary      List stock purchases
// @Tags         stations
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Station ID"
// @Success      200  {object}  response.Response{data=[]model.StockPurchase}
// @Router       /api/stations/{id}/procurements [get]
func (h *StationHandler) ListPurchases(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	purchases, err := h.inventoryService.Purchases(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, purchases))
}

// ListMovements returns the station's stock ledger
// @Summary      List stock movements
// @Tags         stations
// @Security     BearerAuth
// @Produce      json
// @Param        id     path      string  true   "Station ID"
// @Param        page   query     int     false  "Page number (default 1)"
// @Param        limit  query     int     false  "Number of items per page (default 20)"
// @Success      200    {object}  response.PagedResponse{data=[]model.StockMovement}
// @Router       /api/stations/{id}/movements [get]
func (h *StationHandler) ListMovements(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	p := pagination.Parse(c)
	movements, total, err := h.inventoryService.Movements(c.Request.Context(), actor, c.Param("id"), p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paged(http.StatusOK, movements, total, p.Page, p.Limit))
}
