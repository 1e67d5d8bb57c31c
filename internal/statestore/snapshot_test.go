package statestore

import (
	"context"
	"errors"
	"testing"

	"fuelops/internal/model"
	"fuelops/internal/seed"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeKV struct {
	GetFn    func(ctx context.Context, key string) ([]byte, bool, error)
	SetFn    func(ctx context.Context, key string, value []byte) error
	DeleteFn func(ctx context.Context, key string) error
}

func (f *fakeKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return f.GetFn(ctx, key)
}
func (f *fakeKV) Set(ctx context.Context, key string, value []byte) error {
	return f.SetFn(ctx, key, value)
}
func (f *fakeKV) Delete(ctx context.Context, key string) error { return f.DeleteFn(ctx, key) }

func seedSnapshot() Snapshot {
	return Snapshot{Stations: seed.Stations()}
}

func TestLoadFallsBackToSeedWhenEmpty(t *testing.T) {
	store := NewStore(NewMemoryKV(), "test", seedSnapshot(), zap.NewNop())

	snap, loaded := store.Load(context.Background())
	assert.False(t, loaded.Stations)
	assert.Len(t, snap.Stations, 3)
	assert.Nil(t, snap.User)
	assert.Empty(t, snap.Entries)
}

func TestSaveThenLoad(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	store := NewStore(kv, "test", seedSnapshot(), zap.NewNop())

	entry := model.DailyEntry{ID: uuid.New(), StationName: "Expanse Station - Lagos", Status: model.EntryPending}
	require.NoError(t, store.Save(ctx, Snapshot{
		Stations: seed.Stations()[:1],
		Entries:  []model.DailyEntry{entry},
	}))
	require.NoError(t, store.SaveUser(ctx, seed.Users()[0]))

	snap, loaded := store.Load(ctx)
	assert.True(t, loaded.Stations)
	assert.True(t, loaded.Entries)
	assert.True(t, loaded.User)
	require.Len(t, snap.Stations, 1)
	require.Len(t, snap.Entries, 1)
	assert.Equal(t, entry.ID, snap.Entries[0].ID)
	assert.Equal(t, "admin@expanse.com", snap.User.Email)
	assert.True(t, snap.Stations[0].Inventory[0].CurrentStock.Equal(seed.Stations()[0].Inventory[0].CurrentStock))

	require.NoError(t, store.ClearUser(ctx))
	snap, loaded = store.Load(ctx)
	assert.False(t, loaded.User)
	assert.Nil(t, snap.User)
}

func TestLoadCorruptDocumentUsesSeedForThatKeyOnly(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(ctx, "test:stations", []byte("{not json")))
	require.NoError(t, kv.Set(ctx, "test:alerts", []byte(`[{"key":"low:x:PMS","type":"LOW_STOCK"}]`)))

	store := NewStore(kv, "test", seedSnapshot(), zap.NewNop())
	snap, loaded := store.Load(ctx)

	assert.False(t, loaded.Stations)
	assert.Len(t, snap.Stations, 3)
	assert.True(t, loaded.Alerts)
	require.Len(t, snap.Alerts, 1)
	assert.Equal(t, model.AlertLowStock, snap.Alerts[0].Type)
}

func TestSaveReportsEveryFailure(t *testing.T) {
	boom := errors.New("connection refused")
	var attempted []string
	kv := &fakeKV{
		SetFn: func(_ context.Context, key string, _ []byte) error {
			attempted = append(attempted, key)
			return boom
		},
	}
	store := NewStore(kv, "", Snapshot{}, zap.NewNop())

	err := store.Save(context.Background(), Snapshot{})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{KeyStations, KeyEntries, KeyAlerts}, attempted)
}

func TestLoadReadErrorUsesSeed(t *testing.T) {
	kv := &fakeKV{GetFn: func(context.Context, string) ([]byte, bool, error) {
		return nil, false, errors.New("timeout")
	}}
	store := NewStore(kv, "", seedSnapshot(), zap.NewNop())
	snap, loaded := store.Load(context.Background())
	assert.Equal(t, Loaded{}, loaded)
	assert.Len(t, snap.Stations, 3)
}
