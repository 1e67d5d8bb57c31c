package statestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"fuelops/internal/model"

	"go.uber.org/zap"
)

// Document keys
const (
	KeyUser     = "user"
	KeyStations = "stations"
	KeyEntries  = "entries"
	KeyAlerts   = "alerts"
)

// Snapshot is the full dashboard state. Entries are newest first.
type Snapshot struct {
	User     *model.User        `json:"user"`
	Stations []model.Station    `json:"stations"`
	Entries  []model.DailyEntry `json:"entries"`
	Alerts   []model.Alert      `json:"alerts"`
}

// Store reads and writes Snapshots through a KV.
type Store struct {
	kv     KV
	prefix string
	seed   Snapshot
	logger *zap.Logger
}

// NewStore builds a Store. seed supplies the value of any key that is
// absent or unreadable on Load.
func NewStore(kv KV, prefix string, seed Snapshot, logger *zap.Logger) *Store {
	return &Store{kv: kv, prefix: prefix, seed: seed, logger: logger}
}

func (s *Store) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return s.prefix + ":" + name
}

// Loaded reports which documents came from storage rather than the seed.
type Loaded struct {
	User, Stations, Entries, Alerts bool
}

// Load reads every document independently, falling back to the seed per key.
func (s *Store) Load(ctx context.Context) (Snapshot, Loaded) {
	var snap Snapshot
	var loaded Loaded

	var user model.User
	if loaded.User = s.read(ctx, KeyUser, &user); loaded.User {
		snap.User = &user
	} else {
		snap.User = s.seed.User
	}
	if loaded.Stations = s.read(ctx, KeyStations, &snap.Stations); !loaded.Stations {
		snap.Stations = s.seed.Stations
	}
	if loaded.Entries = s.read(ctx, KeyEntries, &snap.Entries); !loaded.Entries {
		snap.Entries = s.seed.Entries
	}
	if loaded.Alerts = s.read(ctx, KeyAlerts, &snap.Alerts); !loaded.Alerts {
		snap.Alerts = s.seed.Alerts
	}
	return snap, loaded
}

func (s *Store) read(ctx context.Context, name string, dest interface{}) bool {
	raw, ok, err := s.kv.Get(ctx, s.key(name))
	if err != nil {
		s.logger.Warn("State document unavailable, using seed", zap.String("key", name), zap.Error(err))
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		s.logger.Warn("State document corrupt, using seed", zap.String("key", name), zap.Error(err))
		return false
	}
	return true
}

// Save writes stations, entries and alerts. Every document is attempted
// and all failures are returned together; nothing is rolled back.
func (s *Store) Save(ctx context.Context, snap Snapshot) error {
	return errors.Join(
		s.write(ctx, KeyStations, snap.Stations),
		s.write(ctx, KeyEntries, snap.Entries),
		s.write(ctx, KeyAlerts, snap.Alerts),
	)
}

// SaveUser records the signed-in user.
func (s *Store) SaveUser(ctx context.Context, u model.User) error {
	return s.write(ctx, KeyUser, u)
}

// ClearUser removes the signed-in user.
func (s *Store) ClearUser(ctx context.Context) error {
	if err := s.kv.Delete(ctx, s.key(KeyUser)); err != nil {
		return fmt.Errorf("failed to clear %s: %w", KeyUser, err)
	}
	return nil
}

func (s *Store) write(ctx context.Context, name string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	if err := s.kv.Set(ctx, s.key(name), raw); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}
