package service

import (
	"context"
	"fmt"

	"fuelops/internal/domain"
	"fuelops/internal/model"
	"fuelops/internal/repository"

	"go.uber.org/zap"
)

type AlertService interface {
	Evaluate(ctx context.Context) ([]model.Alert, error)
	List(ctx context.Context, actor domain.Actor, activeOnly bool) ([]model.Alert, error)
	Resolve(ctx context.Context, actor domain.Actor, id string) (*model.Alert, error)
	Raise(ctx context.Context, alerts ...model.Alert) error
}

type alertService struct {
	alertRepo   repository.AlertRepository
	stationRepo repository.StationRepository
	entryRepo   repository.EntryRepository
	auditRepo   repository.AuditRepository
	common      Common
}

// alertEvaluationLockKey serializes evaluation passes across every API
// instance sharing the locker, so an open key is never inserted twice.
const alertEvaluationLockKey = "alert-evaluation"

func NewAlertService(
	alertRepo repository.AlertRepository,
	stationRepo repository.StationRepository,
	entryRepo repository.EntryRepository,
	auditRepo repository.AuditRepository,
	common Common,
) AlertService {
	return &alertService{
		alertRepo:   alertRepo,
		stationRepo: stationRepo,
		entryRepo:   entryRepo,
		auditRepo:   auditRepo,
		common:      common.withDefaults(),
	}
}

// Evaluate derives condition alerts from current stations and entries and stores the new ones.
func (s *alertService) Evaluate(ctx context.Context) ([]model.Alert, error) {
	var fresh []model.Alert
	err := s.common.Locker.WithStationLock(ctx, alertEvaluationLockKey, func(ctx context.Context) error {
		stations, err := s.stationRepo.List(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to load stations: %w", err)
		}
		entries, err := s.entryRepo.ListAll(ctx, repository.EntryFilter{})
		if err != nil {
			return fmt.Errorf("failed to load entries: %w", err)
		}
		existing, err := s.alertRepo.List(ctx, false, nil)
		if err != nil {
			return fmt.Errorf("failed to load alerts: %w", err)
		}

		fresh = domain.Evaluate(stations, entries, existing, s.common.AlertPolicy, s.common.Now())
		if len(fresh) == 0 {
			return nil
		}
		if err := s.alertRepo.CreateMany(ctx, fresh); err != nil {
			return fmt.Errorf("failed to store alerts: %w", err)
		}
		return nil
	})
	if err != nil || len(fresh) == 0 {
		return nil, err
	}

	s.common.Logger.Info("Alerts raised", zap.Int("count", len(fresh)))
	for _, a := range fresh {
		s.common.Notifier.Publish(EventAlertRaised, a.StationID, a)
	}
	return fresh, nil
}

// Raise stores event alerts built at mutation time. It joins the caller's transaction.
func (s *alertService) Raise(ctx context.Context, alerts ...model.Alert) error {
	return s.alertRepo.CreateMany(ctx, alerts)
}

func (s *alertService) List(ctx context.Context, actor domain.Actor, activeOnly bool) ([]model.Alert, error) {
	if err := domain.Authorize(actor, domain.CapViewDashboard, nil); err != nil {
		return nil, err
	}
	alerts, err := s.alertRepo.List(ctx, activeOnly, actor.StationScope())
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	return alerts, nil
}

// Resolve marks an alert resolved. Resolving twice is a no-op.
func (s *alertService) Resolve(ctx context.Context, actor domain.Actor, id string) (*model.Alert, error) {
	if err := domain.Authorize(actor, domain.CapResolveAlert, nil); err != nil {
		return nil, err
	}
	alertID, err := parseID(id, "alert")
	if err != nil {
		return nil, err
	}

	var alert *model.Alert
	var changed bool
	err = s.common.TX.RunInTx(ctx, func(txCtx context.Context) error {
		found, err := s.alertRepo.FindByID(txCtx, alertID)
		if err != nil {
			return err
		}
		alert = found
		if changed = domain.Resolve(alert, actor, s.common.Now()); !changed {
			return nil
		}
		if err := s.alertRepo.Update(txCtx, alert); err != nil {
			return fmt.Errorf("failed to resolve alert: %w", err)
		}
		audit := systemAudit(actor, model.ActionResolveAlert, alert.ID.String(), alert.Type, map[string]interface{}{
			"station": alert.StationName,
			"message": alert.Message,
		})
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.common.Notifier.Publish(EventAlertResolved, alert.StationID, alert)
		s.common.Syncer.Sync(ctx)
	}
	return alert, nil
}
