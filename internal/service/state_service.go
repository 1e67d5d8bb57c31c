package service

import (
	"context"
	"fmt"
	"sync"

	"fuelops/internal/domain"
	"fuelops/internal/model"
	"fuelops/internal/repository"
	"fuelops/internal/seed"
	"fuelops/internal/statestore"

	"go.uber.org/zap"
)

// StateService mirrors the database into the snapshot store and restores
// an empty database from it at startup.
type StateService interface {
	StateSyncer
	Bootstrap(ctx context.Context) error
}

type stateService struct {
	store       *statestore.Store
	userRepo    repository.UserRepository
	stationRepo repository.StationRepository
	entryRepo   repository.EntryRepository
	alertRepo   repository.AlertRepository
	auditRepo   repository.AuditRepository
	tx          repository.TransactionManager
	logger      *zap.Logger

	// syncMu keeps an older snapshot from overwriting a newer one.
	syncMu sync.Mutex
}

func NewStateService(
	store *statestore.Store,
	userRepo repository.UserRepository,
	stationRepo repository.StationRepository,
	entryRepo repository.EntryRepository,
	alertRepo repository.AlertRepository,
	auditRepo repository.AuditRepository,
	tx repository.TransactionManager,
	logger *zap.Logger,
) StateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &stateService{
		store:       store,
		userRepo:    userRepo,
		stationRepo: stationRepo,
		entryRepo:   entryRepo,
		alertRepo:   alertRepo,
		auditRepo:   auditRepo,
		tx:          tx,
		logger:      logger,
	}
}

// Sync saves stations, entries (newest first) and alerts. Failures are
// logged; the database stays authoritative.
func (s *stateService) Sync(ctx context.Context) {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()

	stations, err := s.stationRepo.List(ctx, nil)
	if err != nil {
		s.logger.Error("State sync: failed to load stations", zap.Error(err))
		return
	}
	entries, err := s.entryRepo.ListNewestFirst(ctx)
	if err != nil {
		s.logger.Error("State sync: failed to load entries", zap.Error(err))
		return
	}
	alerts, err := s.alertRepo.List(ctx, false, nil)
	if err != nil {
		s.logger.Error("State sync: failed to load alerts", zap.Error(err))
		return
	}
	if err := s.store.Save(ctx, statestore.Snapshot{Stations: stations, Entries: entries, Alerts: alerts}); err != nil {
		s.logger.Error("State sync: failed to save snapshot", zap.Error(err))
	}
}

// Bootstrap upserts the demo users and, when no station exists, restores
// stations, entries and alerts from the snapshot (or the seed network).
func (s *stateService) Bootstrap(ctx context.Context) error {
	if err := s.userRepo.Upsert(ctx, seed.Users()); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	count, err := s.stationRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count stations: %w", err)
	}
	if count > 0 {
		return nil
	}

	snap, loaded := s.store.Load(ctx)
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		for i := range snap.Stations {
			if err := s.stationRepo.Create(txCtx, &snap.Stations[i]); err != nil {
				return fmt.Errorf("failed to restore station %s: %w", snap.Stations[i].Code, err)
			}
		}
		for i := range snap.Entries {
			if err := s.entryRepo.Create(txCtx, &snap.Entries[i]); err != nil {
				return fmt.Errorf("failed to restore entry %s: %w", snap.Entries[i].ID, err)
			}
		}
		if err := s.alertRepo.CreateMany(txCtx, snap.Alerts); err != nil {
			return fmt.Errorf("failed to restore alerts: %w", err)
		}
		audit := systemAudit(domain.Actor{}, model.ActionRestoreSnapshot, "", "state", map[string]interface{}{
			"stations":        len(snap.Stations),
			"entries":         len(snap.Entries),
			"alerts":          len(snap.Alerts),
			"stations_stored": loaded.Stations,
			"entries_stored":  loaded.Entries,
			"alerts_stored":   loaded.Alerts,
		})
		return s.auditRepo.Log(txCtx, audit)
	})
	if err != nil {
		return err
	}

	s.logger.Info("State restored",
		zap.Int("stations", len(snap.Stations)),
		zap.Int("entries", len(snap.Entries)),
		zap.Int("alerts", len(snap.Alerts)),
		zap.Bool("from_store", loaded.Stations))
	return nil
}
