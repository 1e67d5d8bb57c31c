package service

import (
	"context"
	"encoding/json"
	"time"

	"fuelops/internal/domain"
	"fuelops/internal/lock"
	"fuelops/internal/model"
	"fuelops/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Live event names pushed to dashboard clients.
const (
	EventEntrySubmitted = "entry.submitted"
	EventEntryDecided   = "entry.decided"
	EventStockChanged   = "station.stock_changed"
	EventStationChanged = "station.changed"
	EventAlertRaised    = "alert.raised"
	EventAlertResolved  = "alert.resolved"
)

// Notifier publishes live events about a station. Implementations must
// not block and must only deliver to actors scoped to that station.
type Notifier interface {
	Publish(event string, stationID uuid.UUID, data interface{})
}

// StateSyncer mirrors the current state into the snapshot store.
type StateSyncer interface {
	Sync(ctx context.Context)
}

type noopNotifier struct{}

func (noopNotifier) Publish(string, uuid.UUID, interface{}) {}

type noopSyncer struct{}

func (noopSyncer) Sync(context.Context) {}

// Common carries the collaborators every mutating service needs.
type Common struct {
	TX          repository.TransactionManager
	Locker      lock.StationLocker
	Notifier    Notifier
	Syncer      StateSyncer
	Logger      *zap.Logger
	Now         func() time.Time
	MinorUnits  int32
	AlertPolicy domain.AlertPolicy
}

// withDefaults fills optional collaborators.
func (c Common) withDefaults() Common {
	if c.Locker == nil {
		c.Locker = lock.NewLocalLocker()
	}
	if c.Notifier == nil {
		c.Notifier = noopNotifier{}
	}
	if c.Syncer == nil {
		c.Syncer = noopSyncer{}
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.MinorUnits == 0 {
		c.MinorUnits = domain.DefaultMinorUnits
	}
	if c.AlertPolicy.Severity == nil {
		c.AlertPolicy = domain.DefaultAlertPolicy()
	}
	return c
}

// systemAudit builds a system audit row with a JSON details payload.
func systemAudit(actor domain.Actor, action, entityID, entityName string, details map[string]interface{}) *model.AuditLog {
	raw, _ := json.Marshal(details)
	var uid *uuid.UUID
	if actor.ID != uuid.Nil {
		id := actor.ID
		uid = &id
	}
	return &model.AuditLog{
		UserID:     uid,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(raw),
	}
}

func parseID(raw, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, validationf("invalid %s id", what)
	}
	return id, nil
}
