package service

import (
	"context"
	"fmt"

	"fuelops/internal/domain"
	"fuelops/internal/repository"
)

type AuditLogResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	UserName   string `json:"user_name"`
	Action     string `json:"action"`
	EntityID   string `json:"entity_id"`
	EntityName string `json:"entity_name"`
	Details    string `json:"details"`
	CreatedAt  string `json:"created_at"`
}

type AuditService interface {
	// Trail is the aggregated feed of every daily entry's audit trail, newest first.
	Trail(ctx context.Context, actor domain.Actor, page, limit int) ([]domain.TrailRecord, int64, error)
	// SystemLogs lists station, procurement and alert activity.
	SystemLogs(ctx context.Context, actor domain.Actor, page, limit int) ([]AuditLogResponse, int64, error)
}

type auditService struct {
	entryRepo repository.EntryRepository
	auditRepo repository.AuditRepository
}

// NewAuditService creates a new AuditService instance
func NewAuditService(entryRepo repository.EntryRepository, auditRepo repository.AuditRepository) AuditService {
	return &auditService{entryRepo: entryRepo, auditRepo: auditRepo}
}

func normalizePage(page, limit int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return page, limit
}

func (s *auditService) Trail(ctx context.Context, actor domain.Actor, page, limit int) ([]domain.TrailRecord, int64, error) {
	if err := domain.Authorize(actor, domain.CapViewAuditTrail, nil); err != nil {
		return nil, 0, err
	}
	entries, err := s.entryRepo.ListAll(ctx, repository.EntryFilter{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load entries: %w", err)
	}

	records := domain.Flatten(entries)
	total := int64(len(records))
	page, limit = normalizePage(page, limit)
	start := (page - 1) * limit
	if start >= len(records) {
		return []domain.TrailRecord{}, total, nil
	}
	end := start + limit
	if end > len(records) {
		end = len(records)
	}
	return records[start:end], total, nil
}

func (s *auditService) SystemLogs(ctx context.Context, actor domain.Actor, page, limit int) ([]AuditLogResponse, int64, error) {
	if err := domain.Authorize(actor, domain.CapViewAuditTrail, nil); err != nil {
		return nil, 0, err
	}
	page, limit = normalizePage(page, limit)
	logs, total, err := s.auditRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		userName := "System"
		userID := ""
		if l.User != nil {
			userName = l.User.Name
		}
		if l.UserID != nil {
			userID = l.UserID.String()
		}
		res = append(res, AuditLogResponse{
			ID:         l.ID.String(),
			UserID:     userID,
			UserName:   userName,
			Action:     l.Action,
			EntityID:   l.EntityID,
			EntityName: l.EntityName,
			Details:    l.Details,
			CreatedAt:  l.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return res, total, nil
}
