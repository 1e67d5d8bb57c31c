package service

import (
	"context"
	"fmt"

	"fuelops/internal/domain"
	"fuelops/internal/model"
	"fuelops/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// --- DTOs ---

type SubmitEntryRequest struct {
	StationID      string                 `json:"station_id" binding:"required"`
	Date           string                 `json:"date"`
	FuelType       string                 `json:"fuel_type" binding:"required"`
	OpeningMeter   decimal.Decimal        `json:"opening_meter"`
	ClosingMeter   decimal.Decimal        `json:"closing_meter"`
	QuantitySold   decimal.Decimal        `json:"quantity_sold"`
	GeneratorHours decimal.Decimal        `json:"generator_hours"`
	Payments       model.PaymentBreakdown `json:"payments"`
	Expenses       model.ExpenseBreakdown `json:"expenses"`
}

type EntryFilter struct {
	Status    string
	StationID string
	FromDate  string
	ToDate    string
	Page      int
	Limit     int
}

// --- Interface ---

type EntryService interface {
	Submit(ctx context.Context, actor domain.Actor, req SubmitEntryRequest) (*model.DailyEntry, error)
	List(ctx context.Context, actor domain.Actor, filter EntryFilter) ([]model.DailyEntry, int64, error)
	Get(ctx context.Context, actor domain.Actor, id string) (*model.DailyEntry, error)
}

type entryService struct {
	entryRepo   repository.EntryRepository
	stationRepo repository.StationRepository
	auditRepo   repository.AuditRepository
	alerts      AlertService
	common      Common
}

func NewEntryService(
	entryRepo repository.EntryRepository,
	stationRepo repository.StationRepository,
	auditRepo repository.AuditRepository,
	alerts AlertService,
	common Common,
) EntryService {
	return &entryService{
		entryRepo:   entryRepo,
		stationRepo: stationRepo,
		auditRepo:   auditRepo,
		alerts:      alerts,
		common:      common.withDefaults(),
	}
}

// --- Implementation ---

// Submit validates and stores a PENDING daily record. Stock is untouched until approval.
func (s *entryService) Submit(ctx context.Context, actor domain.Actor, req SubmitEntryRequest) (*model.DailyEntry, error) {
	if req.StationID == "" {
		return nil, validationf("station is required")
	}
	stationID, err := parseID(req.StationID, "station")
	if err != nil {
		return nil, err
	}
	if err := domain.Authorize(actor, domain.CapSubmitEntry, &stationID); err != nil {
		return nil, err
	}

	station, err := s.stationRepo.FindByID(ctx, stationID)
	if err != nil {
		return nil, err
	}

	entry, err := domain.NewDailyEntry(station, domain.EntryInput{
		Date:           req.Date,
		FuelType:       req.FuelType,
		OpeningMeter:   req.OpeningMeter,
		ClosingMeter:   req.ClosingMeter,
		QuantitySold:   req.QuantitySold,
		GeneratorHours: req.GeneratorHours,
		Payments:       req.Payments,
		Expenses:       req.Expenses,
	}, actor, s.common.Now(), s.common.MinorUnits)
	if err != nil {
		return nil, err
	}

	err = s.common.TX.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.entryRepo.Create(txCtx, entry); err != nil {
			return fmt.Errorf("failed to create daily entry: %w", err)
		}
		audit := systemAudit(actor, model.ActionSubmitEntry, entry.ID.String(), station.Name, map[string]interface{}{
			"date":      entry.EntryDate,
			"fuel_type": entry.FuelType,
			"quantity":  entry.QuantitySold.String(),
			"delta":     entry.ReconciliationDelta.StringFixed(2),
		})
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.common.Logger.Info("Daily entry submitted",
		zap.String("entry_id", entry.ID.String()),
		zap.String("station", entry.StationName),
		zap.String("fuel_type", entry.FuelType),
		zap.String("delta", entry.ReconciliationDelta.StringFixed(2)))
	s.common.Notifier.Publish(EventEntrySubmitted, entry.StationID, entry)
	if _, err := s.alerts.Evaluate(ctx); err != nil {
		s.common.Logger.Error("Alert evaluation failed", zap.Error(err))
	}
	s.common.Syncer.Sync(ctx)
	return entry, nil
}

// List returns entries newest first. Station managers only see their own station.
func (s *entryService) List(ctx context.Context, actor domain.Actor, filter EntryFilter) ([]model.DailyEntry, int64, error) {
	repoFilter := repository.EntryFilter{
		Status:   filter.Status,
		FromDate: filter.FromDate,
		ToDate:   filter.ToDate,
		Page:     filter.Page,
		Limit:    filter.Limit,
	}
	if filter.StationID != "" {
		sid, err := parseID(filter.StationID, "station")
		if err != nil {
			return nil, 0, err
		}
		repoFilter.StationID = &sid
	}
	if err := domain.Authorize(actor, domain.CapViewDashboard, repoFilter.StationID); err != nil {
		return nil, 0, err
	}
	if repoFilter.StationID == nil {
		repoFilter.StationID = actor.StationScope()
	}
	entries, total, err := s.entryRepo.List(ctx, repoFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list daily entries: %w", err)
	}
	return entries, total, nil
}

func (s *entryService) Get(ctx context.Context, actor domain.Actor, id string) (*model.DailyEntry, error) {
	entryID, err := parseID(id, "entry")
	if err != nil {
		return nil, err
	}
	entry, err := s.entryRepo.FindByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	stationID := entry.StationID
	if err := domain.Authorize(actor, domain.CapViewDashboard, &stationID); err != nil {
		return nil, err
	}
	return entry, nil
}

