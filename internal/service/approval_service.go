package service

import (
	"context"
	"fmt"

	"fuelops/internal/domain"
	"fuelops/internal/model"
	"fuelops/internal/repository"

	"go.uber.org/zap"
)

// --- DTOs ---

type DecisionRequest struct {
	Comments string `json:"comments"`
}

// --- Interface ---

type ApprovalService interface {
	Approve(ctx context.Context, actor domain.Actor, id string, comments string) (*model.DailyEntry, error)
	Reject(ctx context.Context, actor domain.Actor, id string, comments string) (*model.DailyEntry, error)
	Decide(ctx context.Context, actor domain.Actor, id string, verdict string, comments string) (*model.DailyEntry, error)
}

type approvalService struct {
	entryRepo repository.EntryRepository
	auditRepo repository.AuditRepository
	inventory InventoryService
	alerts    AlertService
	common    Common
}

func NewApprovalService(
	entryRepo repository.EntryRepository,
	auditRepo repository.AuditRepository,
	inventory InventoryService,
	alerts AlertService,
	common Common,
) ApprovalService {
	return &approvalService{
		entryRepo: entryRepo,
		auditRepo: auditRepo,
		inventory: inventory,
		alerts:    alerts,
		common:    common.withDefaults(),
	}
}

// --- Implementation ---

func (s *approvalService) Approve(ctx context.Context, actor domain.Actor, id string, comments string) (*model.DailyEntry, error) {
	return s.Decide(ctx, actor, id, model.EntryApproved, comments)
}

func (s *approvalService) Reject(ctx context.Context, actor domain.Actor, id string, comments string) (*model.DailyEntry, error) {
	return s.Decide(ctx, actor, id, model.EntryRejected, comments)
}

// Decide applies the verdict to a PENDING entry. Approval deducts the sold
// quantity from the station's fuel line in the same transaction, under the
// station lock. Any failure leaves the entry PENDING and stock unchanged.
func (s *approvalService) Decide(ctx context.Context, actor domain.Actor, id string, verdict string, comments string) (*model.DailyEntry, error) {
	if err := domain.Authorize(actor, domain.CapDecideEntry, nil); err != nil {
		return nil, err
	}
	if !domain.IsValidVerdict(verdict) {
		return nil, validationf("verdict must be APPROVED or REJECTED")
	}
	entryID, err := parseID(id, "entry")
	if err != nil {
		return nil, err
	}

	current, err := s.entryRepo.FindByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	var entry *model.DailyEntry
	var adj *domain.Adjustment
	err = s.common.Locker.WithStationLock(ctx, current.StationID.String(), func(ctx context.Context) error {
		return s.common.TX.RunInTx(ctx, func(txCtx context.Context) error {
			found, err := s.entryRepo.FindByID(txCtx, entryID)
			if err != nil {
				return err
			}
			entry = found

			decision, err := domain.Decide(entry, verdict, actor, comments, s.common.Now())
			if err != nil {
				return err
			}
			if err := s.entryRepo.CompareAndSetStatus(txCtx, entry, decision.From); err != nil {
				return err
			}
			if err := s.entryRepo.AppendLog(txCtx, &decision.Log); err != nil {
				return fmt.Errorf("failed to append audit trail: %w", err)
			}
			entry.AuditTrail[len(entry.AuditTrail)-1] = decision.Log

			if decision.DeductStock {
				a, err := s.inventory.DeductForEntry(txCtx, actor, entry)
				if err != nil {
					return fmt.Errorf("failed to deduct stock: %w", err)
				}
				adj = &a
			}

			action := model.ActionApproveEntry
			if decision.To == model.EntryRejected {
				action = model.ActionRejectEntry
			}
			audit := systemAudit(actor, action, entry.ID.String(), entry.StationName, map[string]interface{}{
				"date":      entry.EntryDate,
				"fuel_type": entry.FuelType,
				"comments":  decision.Log.Details,
			})
			if err := s.auditRepo.Log(txCtx, audit); err != nil {
				return fmt.Errorf("failed to write audit log: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	fields := []zap.Field{
		zap.String("entry_id", entry.ID.String()),
		zap.String("status", entry.Status),
		zap.String("decided_by", actor.Name),
	}
	if adj != nil {
		fields = append(fields, zap.String("deducted", adj.Applied.String()), zap.Bool("clamped", adj.Clamped))
	}
	s.common.Logger.Info("Daily entry decided", fields...)

	s.common.Notifier.Publish(EventEntryDecided, entry.StationID, entry)
	if adj != nil {
		s.common.Notifier.Publish(EventStockChanged, entry.StationID, map[string]interface{}{
			"station_id":  entry.StationID,
			"fuel_type":   entry.FuelType,
			"stock_after": adj.After,
		})
	}
	if _, err := s.alerts.Evaluate(ctx); err != nil {
		s.common.Logger.Error("Alert evaluation failed", zap.Error(err))
	}
	s.common.Syncer.Sync(ctx)
	return entry, nil
}
