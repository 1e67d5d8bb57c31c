package service

import (
	"context"
	"fmt"
	"strings"

	"fuelops/internal/domain"
	"fuelops/internal/model"
	"fuelops/internal/repository"
	"fuelops/internal/seed"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// --- DTOs ---

// FuelLineRequest describes one product line. Nil figures take the network defaults.
type FuelLineRequest struct {
	FuelType          string           `json:"fuel_type" binding:"required,oneof=PMS AGO DPK"`
	CurrentStock      decimal.Decimal  `json:"current_stock"`
	Capacity          *decimal.Decimal `json:"capacity"`
	Rate              *decimal.Decimal `json:"rate"`
	LowStockThreshold *decimal.Decimal `json:"low_stock_threshold"`
}

type CreateStationRequest struct {
	Name      string            `json:"name" binding:"required"`
	Location  string            `json:"location"`
	ImageURL  string            `json:"image_url"`
	Inventory []FuelLineRequest `json:"inventory" binding:"dive"`
}

// UpdateStationRequest edits station details and line settings. Stock only
// moves through approvals and procurement, so CurrentStock is ignored for
// existing lines.
type UpdateStationRequest struct {
	Name        *string           `json:"name"`
	Location    *string           `json:"location"`
	ImageURL    *string           `json:"image_url"`
	HealthScore *int              `json:"health_score"`
	Inventory   []FuelLineRequest `json:"inventory" binding:"dive"`
}

// --- Interface ---

type StationService interface {
	List(ctx context.Context, actor domain.Actor) ([]model.Station, error)
	Get(ctx context.Context, actor domain.Actor, id string) (*model.Station, error)
	Create(ctx context.Context, actor domain.Actor, req CreateStationRequest) (*model.Station, error)
	Update(ctx context.Context, actor domain.Actor, id string, req UpdateStationRequest) (*model.Station, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
}

type stationService struct {
	stationRepo repository.StationRepository
	auditRepo   repository.AuditRepository
	alerts      AlertService
	common      Common
}

func NewStationService(
	stationRepo repository.StationRepository,
	auditRepo repository.AuditRepository,
	alerts AlertService,
	common Common,
) StationService {
	return &stationService{
		stationRepo: stationRepo,
		auditRepo:   auditRepo,
		alerts:      alerts,
		common:      common.withDefaults(),
	}
}

// --- Implementation ---

func (s *stationService) List(ctx context.Context, actor domain.Actor) ([]model.Station, error) {
	if err := domain.Authorize(actor, domain.CapViewDashboard, nil); err != nil {
		return nil, err
	}
	stations, err := s.stationRepo.List(ctx, actor.StationScope())
	if err != nil {
		return nil, fmt.Errorf("failed to list stations: %w", err)
	}
	return stations, nil
}

func (s *stationService) Get(ctx context.Context, actor domain.Actor, id string) (*model.Station, error) {
	sid, err := parseID(id, "station")
	if err != nil {
		return nil, err
	}
	if err := domain.Authorize(actor, domain.CapViewDashboard, &sid); err != nil {
		return nil, err
	}
	return s.stationRepo.FindByID(ctx, sid)
}

func lineFromRequest(req FuelLineRequest) model.FuelLine {
	line := model.FuelLine{
		FuelType:          req.FuelType,
		CurrentStock:      req.CurrentStock,
		Capacity:          seed.DefaultCapacity,
		Rate:              seed.DefaultRate,
		LowStockThreshold: seed.DefaultThreshold,
	}
	applyLineSettings(&line, req)
	return line
}

func applyLineSettings(line *model.FuelLine, req FuelLineRequest) {
	if req.Capacity != nil {
		line.Capacity = *req.Capacity
	}
	if req.Rate != nil {
		line.Rate = *req.Rate
	}
	if req.LowStockThreshold != nil {
		line.LowStockThreshold = *req.LowStockThreshold
	}
}

// Create registers a station. Without explicit lines it gets an empty PMS line.
func (s *stationService) Create(ctx context.Context, actor domain.Actor, req CreateStationRequest) (*model.Station, error) {
	if err := domain.Authorize(actor, domain.CapManageStations, nil); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validationf("station name is required")
	}

	lines := make([]model.FuelLine, 0, len(req.Inventory))
	for _, lr := range req.Inventory {
		lines = append(lines, lineFromRequest(lr))
	}
	if len(lines) == 0 {
		lines = append(lines, lineFromRequest(FuelLineRequest{FuelType: model.FuelPMS}))
	}
	if err := domain.ValidateLines(lines); err != nil {
		return nil, err
	}

	station := &model.Station{
		Name:        name,
		Location:    strings.TrimSpace(req.Location),
		ImageURL:    req.ImageURL,
		HealthScore: 100,
		Inventory:   lines,
	}

	err := s.common.TX.RunInTx(ctx, func(txCtx context.Context) error {
		code, err := s.stationRepo.NextCode(txCtx)
		if err != nil {
			return fmt.Errorf("failed to allocate station code: %w", err)
		}
		station.Code = code
		if err := s.stationRepo.Create(txCtx, station); err != nil {
			return fmt.Errorf("failed to create station: %w", err)
		}
		audit := systemAudit(actor, model.ActionCreateStation, station.ID.String(), station.Name, map[string]interface{}{
			"code":     station.Code,
			"location": station.Location,
			"lines":    len(station.Inventory),
		})
		return s.auditRepo.Log(txCtx, audit)
	})
	if err != nil {
		return nil, err
	}

	s.common.Logger.Info("Station created", zap.String("station_id", station.ID.String()), zap.String("code", station.Code))
	s.afterChange(ctx, station)
	return station, nil
}

// Update edits details and upserts lines by fuel type under the station lock.
func (s *stationService) Update(ctx context.Context, actor domain.Actor, id string, req UpdateStationRequest) (*model.Station, error) {
	sid, err := parseID(id, "station")
	if err != nil {
		return nil, err
	}
	if err := domain.Authorize(actor, domain.CapManageStations, nil); err != nil {
		return nil, err
	}

	var station *model.Station
	err = s.common.Locker.WithStationLock(ctx, sid.String(), func(ctx context.Context) error {
		return s.common.TX.RunInTx(ctx, func(txCtx context.Context) error {
			found, err := s.stationRepo.FindByIDForUpdate(txCtx, sid)
			if err != nil {
				return err
			}
			station = found

			changes := map[string]interface{}{}
			if req.Name != nil {
				name := strings.TrimSpace(*req.Name)
				if name == "" {
					return validationf("station name is required")
				}
				station.Name = name
				changes["name"] = name
			}
			if req.Location != nil {
				station.Location = strings.TrimSpace(*req.Location)
				changes["location"] = station.Location
			}
			if req.ImageURL != nil {
				station.ImageURL = *req.ImageURL
				changes["image_url"] = station.ImageURL
			}
			if req.HealthScore != nil {
				if *req.HealthScore < 0 || *req.HealthScore > 100 {
					return validationf("health score must be between 0 and 100")
				}
				station.HealthScore = *req.HealthScore
				changes["health_score"] = station.HealthScore
			}

			touched := make([]*model.FuelLine, 0, len(req.Inventory))
			for _, lr := range req.Inventory {
				if line := station.Line(lr.FuelType); line != nil {
					applyLineSettings(line, lr)
					touched = append(touched, line)
					continue
				}
				station.Inventory = append(station.Inventory, lineFromRequest(lr))
				touched = append(touched, &station.Inventory[len(station.Inventory)-1])
			}
			if err := domain.ValidateLines(station.Inventory); err != nil {
				return err
			}
			if len(touched) > 0 {
				changes["lines"] = len(touched)
			}

			if err := s.stationRepo.Update(txCtx, station); err != nil {
				return fmt.Errorf("failed to update station: %w", err)
			}
			// station.Inventory may have been reallocated by append; save by fuel type.
			for _, lr := range req.Inventory {
				line := station.Line(lr.FuelType)
				line.StationID = station.ID
				if err := s.stationRepo.SaveLine(txCtx, line); err != nil {
					return fmt.Errorf("failed to save %s line: %w", line.FuelType, err)
				}
			}

			audit := systemAudit(actor, model.ActionUpdateStation, station.ID.String(), station.Name, changes)
			return s.auditRepo.Log(txCtx, audit)
		})
	})
	if err != nil {
		return nil, err
	}

	s.common.Logger.Info("Station updated", zap.String("station_id", station.ID.String()))
	s.afterChange(ctx, station)
	return station, nil
}

// Delete soft-deletes the station. Entries and alerts keep their station name.
func (s *stationService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	sid, err := parseID(id, "station")
	if err != nil {
		return err
	}
	if err := domain.Authorize(actor, domain.CapManageStations, nil); err != nil {
		return err
	}

	var station *model.Station
	err = s.common.TX.RunInTx(ctx, func(txCtx context.Context) error {
		found, err := s.stationRepo.FindByID(txCtx, sid)
		if err != nil {
			return err
		}
		station = found
		if err := s.stationRepo.Delete(txCtx, sid); err != nil {
			return fmt.Errorf("failed to delete station: %w", err)
		}
		audit := systemAudit(actor, model.ActionDeleteStation, station.ID.String(), station.Name, map[string]interface{}{
			"code": station.Code,
		})
		return s.auditRepo.Log(txCtx, audit)
	})
	if err != nil {
		return err
	}

	s.common.Logger.Info("Station deleted", zap.String("station_id", sid.String()))
	s.common.Notifier.Publish(EventStationChanged, sid, map[string]interface{}{"id": sid, "deleted": true})
	s.common.Syncer.Sync(ctx)
	return nil
}

func (s *stationService) afterChange(ctx context.Context, station *model.Station) {
	s.common.Notifier.Publish(EventStationChanged, station.ID, station)
	if _, err := s.alerts.Evaluate(ctx); err != nil {
		s.common.Logger.Error("Alert evaluation failed", zap.Error(err))
	}
	s.common.Syncer.Sync(ctx)
}
