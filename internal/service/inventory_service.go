package service

import (
	"context"
	"fmt"
	"time"

	"fuelops/internal/domain"
	"fuelops/internal/model"
	"fuelops/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProcureRequest records a delivery. FuelType has no default.
type ProcureRequest struct {
	FuelType      string          `json:"fuel_type" binding:"required,oneof=PMS AGO DPK"`
	Quantity      decimal.Decimal `json:"quantity" validate:"gt=0"`
	Cost          decimal.Decimal `json:"cost" validate:"gte=0"`
	Supplier      string          `json:"supplier"`
	Date          string          `json:"date"`
	TruckPlate    string          `json:"truck_plate"`
	WaybillNumber string          `json:"waybill_number"`
	DepotSource   string          `json:"depot_source"`
}

type ProcurementResult struct {
	Purchase model.StockPurchase `json:"purchase"`
	Line     model.FuelLine      `json:"line"`
	Clamped  bool                `json:"clamped"`
}

type InventoryService interface {
	Procure(ctx context.Context, actor domain.Actor, stationID string, req ProcureRequest) (*ProcurementResult, error)
	// DeductForEntry must run inside a transaction holding the station lock.
	DeductForEntry(txCtx context.Context, actor domain.Actor, entry *model.DailyEntry) (domain.Adjustment, error)
	Movements(ctx context.Context, actor domain.Actor, stationID string, page, limit int) ([]model.StockMovement, int64, error)
	Purchases(ctx context.Context, actor domain.Actor, stationID string) ([]model.StockPurchase, error)
}

type inventoryService struct {
	stationRepo repository.StationRepository
	stockRepo   repository.StockRepository
	auditRepo   repository.AuditRepository
	alerts      AlertService
	common      Common
}

func NewInventoryService(
	stationRepo repository.StationRepository,
	stockRepo repository.StockRepository,
	auditRepo repository.AuditRepository,
	alerts AlertService,
	common Common,
) InventoryService {
	return &inventoryService{
		stationRepo: stationRepo,
		stockRepo:   stockRepo,
		auditRepo:   auditRepo,
		alerts:      alerts,
		common:      common.withDefaults(),
	}
}

func (s *inventoryService) DeductForEntry(txCtx context.Context, actor domain.Actor, entry *model.DailyEntry) (domain.Adjustment, error) {
	station, err := s.stationRepo.FindByIDForUpdate(txCtx, entry.StationID)
	if err != nil {
		return domain.Adjustment{}, err
	}
	line, err := domain.FindLine(station, entry.FuelType)
	if err != nil {
		return domain.Adjustment{}, err
	}

	adj, err := domain.Deduct(line, entry.QuantitySold)
	if err != nil {
		return domain.Adjustment{}, err
	}
	if err := s.stationRepo.SaveLine(txCtx, line); err != nil {
		return domain.Adjustment{}, fmt.Errorf("failed to update stock: %w", err)
	}

	if err := s.stockRepo.CreateMovement(txCtx, &model.StockMovement{
		StationID:     station.ID,
		FuelType:      line.FuelType,
		Direction:     model.MovementOut,
		ReferenceType: model.RefDailyEntry,
		ReferenceID:   entry.ID,
		Requested:     adj.Requested,
		Applied:       adj.Applied,
		StockBefore:   adj.Before,
		StockAfter:    adj.After,
	}); err != nil {
		return domain.Adjustment{}, fmt.Errorf("failed to record stock movement: %w", err)
	}

	audit := systemAudit(actor, model.ActionDeductStock, entry.ID.String(), station.Name, map[string]interface{}{
		"fuel_type":   line.FuelType,
		"requested":   adj.Requested.String(),
		"applied":     adj.Applied.String(),
		"stock_after": adj.After.String(),
	})
	if err := s.auditRepo.Log(txCtx, audit); err != nil {
		return domain.Adjustment{}, fmt.Errorf("failed to write audit log: %w", err)
	}

	if adj.Clamped {
		s.common.Logger.Warn("Stock deduction clamped",
			zap.String("station", station.Name),
			zap.String("fuel_type", line.FuelType),
			zap.String("requested", adj.Requested.String()),
			zap.String("applied", adj.Applied.String()))
		alert := domain.DiscrepancyAlert(station, line.FuelType, model.MovementOut, entry.ID, adj, s.common.AlertPolicy, s.common.Now())
		if err := s.alerts.Raise(txCtx, alert); err != nil {
			return domain.Adjustment{}, fmt.Errorf("failed to raise discrepancy alert: %w", err)
		}
	}
	return adj, nil
}

func (s *inventoryService) Procure(ctx context.Context, actor domain.Actor, stationID string, req ProcureRequest) (*ProcurementResult, error) {
	if err := domain.Authorize(actor, domain.CapProcure, nil); err != nil {
		return nil, err
	}
	sid, err := parseID(stationID, "station")
	if err != nil {
		return nil, err
	}
	if req.FuelType == "" {
		return nil, validationf("fuel type is required")
	}
	if !model.IsValidFuelType(req.FuelType) {
		return nil, validationf("unknown fuel type %q", req.FuelType)
	}
	if err := domain.ValidateStruct(req); err != nil {
		return nil, err
	}
	now := s.common.Now()
	date := req.Date
	if date == "" {
		date = now.Format(model.DateLayout)
	} else if _, err := time.Parse(model.DateLayout, date); err != nil {
		return nil, validationf("date must be YYYY-MM-DD")
	}

	var result ProcurementResult
	var raised []model.Alert
	err = s.common.Locker.WithStationLock(ctx, sid.String(), func(ctx context.Context) error {
		return s.common.TX.RunInTx(ctx, func(txCtx context.Context) error {
			station, err := s.stationRepo.FindByIDForUpdate(txCtx, sid)
			if err != nil {
				return err
			}
			line, err := domain.FindLine(station, req.FuelType)
			if err != nil {
				return err
			}
			adj, err := domain.Replenish(line, req.Quantity)
			if err != nil {
				return err
			}
			if err := s.stationRepo.SaveLine(txCtx, line); err != nil {
				return fmt.Errorf("failed to update stock: %w", err)
			}

			purchase := model.StockPurchase{
				ID:            uuid.New(),
				StationID:     station.ID,
				StationName:   station.Name,
				FuelType:      line.FuelType,
				PurchaseDate:  date,
				Quantity:      adj.Requested,
				Applied:       adj.Applied,
				Overflow:      adj.Unapplied(),
				Cost:          req.Cost,
				Supplier:      req.Supplier,
				TruckPlate:    req.TruckPlate,
				WaybillNumber: req.WaybillNumber,
				DepotSource:   req.DepotSource,
				CreatedBy:     actor.ID,
			}
			if err := s.stockRepo.CreatePurchase(txCtx, &purchase); err != nil {
				return fmt.Errorf("failed to record purchase: %w", err)
			}

			if err := s.stockRepo.CreateMovement(txCtx, &model.StockMovement{
				StationID:     station.ID,
				FuelType:      line.FuelType,
				Direction:     model.MovementIn,
				ReferenceType: model.RefStockPurchase,
				ReferenceID:   purchase.ID,
				Requested:     adj.Requested,
				Applied:       adj.Applied,
				StockBefore:   adj.Before,
				StockAfter:    adj.After,
			}); err != nil {
				return fmt.Errorf("failed to record stock movement: %w", err)
			}

			audit := systemAudit(actor, model.ActionProcureStock, purchase.ID.String(), station.Name, map[string]interface{}{
				"fuel_type": line.FuelType,
				"quantity":  adj.Requested.String(),
				"applied":   adj.Applied.String(),
				"cost":      req.Cost.StringFixed(2),
				"supplier":  req.Supplier,
			})
			if err := s.auditRepo.Log(txCtx, audit); err != nil {
				return fmt.Errorf("failed to write audit log: %w", err)
			}

			var events []model.Alert
			if adj.Clamped {
				events = append(events, domain.DiscrepancyAlert(station, line.FuelType, model.MovementIn, purchase.ID, adj, s.common.AlertPolicy, now))
			}
			if req.TruckPlate != "" || req.WaybillNumber != "" {
				events = append(events, domain.TruckArrivalAlert(station, &purchase, s.common.AlertPolicy, now))
			}
			if err := s.alerts.Raise(txCtx, events...); err != nil {
				return fmt.Errorf("failed to raise alerts: %w", err)
			}
			raised = events

			result = ProcurementResult{Purchase: purchase, Line: *line, Clamped: adj.Clamped}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.common.Logger.Info("Stock procured",
		zap.String("station", result.Purchase.StationName),
		zap.String("fuel_type", result.Purchase.FuelType),
		zap.String("applied", result.Purchase.Applied.String()))
	s.common.Notifier.Publish(EventStockChanged, result.Line.StationID, result.Line)
	for _, a := range raised {
		s.common.Notifier.Publish(EventAlertRaised, a.StationID, a)
	}
	if _, err := s.alerts.Evaluate(ctx); err != nil {
		s.common.Logger.Error("Alert evaluation failed", zap.Error(err))
	}
	s.common.Syncer.Sync(ctx)
	return &result, nil
}

func (s *inventoryService) Movements(ctx context.Context, actor domain.Actor, stationID string, page, limit int) ([]model.StockMovement, int64, error) {
	sid, err := parseID(stationID, "station")
	if err != nil {
		return nil, 0, err
	}
	if err := domain.Authorize(actor, domain.CapViewReports, &sid); err != nil {
		return nil, 0, err
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.stockRepo.ListMovements(ctx, sid, page, limit)
}

func (s *inventoryService) Purchases(ctx context.Context, actor domain.Actor, stationID string) ([]model.StockPurchase, error) {
	var scope *uuid.UUID
	if stationID != "" {
		sid, err := parseID(stationID, "station")
		if err != nil {
			return nil, err
		}
		scope = &sid
	}
	if err := domain.Authorize(actor, domain.CapViewReports, scope); err != nil {
		return nil, err
	}
	if scope == nil {
		scope = actor.StationScope()
	}
	return s.stockRepo.ListPurchases(ctx, scope)
}
