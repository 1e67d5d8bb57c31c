package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"fuelops/internal/database"
	"fuelops/internal/domain"
	"fuelops/internal/model"
	"fuelops/internal/repository"
	"fuelops/internal/seed"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

const testDate = "2026-03-10"

type recordedEvent struct {
	Name    string
	Station uuid.UUID
	Data    interface{}
}

type eventRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *eventRecorder) Publish(event string, stationID uuid.UUID, data interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{Name: event, Station: stationID, Data: data})
}

func (r *eventRecorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Name)
	}
	return out
}

// stations returns every station the named event was published for.
func (r *eventRecorder) stations(event string) []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []uuid.UUID
	for _, e := range r.events {
		if e.Name == event {
			out = append(out, e.Station)
		}
	}
	return out
}

type syncCounter struct {
	mu    sync.Mutex
	calls int
}

func (s *syncCounter) Sync(context.Context) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
}

func (s *syncCounter) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type harness struct {
	db     *gorm.DB
	events *eventRecorder
	syncs  *syncCounter
	common Common

	users    repository.UserRepository
	stations repository.StationRepository
	entries  repository.EntryRepository
	alertsDB repository.AlertRepository
	stock    repository.StockRepository
	auditDB  repository.AuditRepository

	alerts    AlertService
	inventory InventoryService
	entry     EntryService
	approval  ApprovalService
	station   StationService
	audit     AuditService
	reports   ReportService
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Use a per-test in-memory database to avoid cross-test interference
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.Open(sqlite.Open(dsn), logger.Silent)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// newHarness wires every service over a fresh database holding the seed network.
func newHarness(t *testing.T) *harness {
	t.Helper()
	db := openTestDB(t)

	h := &harness{
		db:       db,
		events:   &eventRecorder{},
		syncs:    &syncCounter{},
		users:    repository.NewUserRepository(db),
		stations: repository.NewStationRepository(db),
		entries:  repository.NewEntryRepository(db),
		alertsDB: repository.NewAlertRepository(db),
		stock:    repository.NewStockRepository(db),
		auditDB:  repository.NewAuditRepository(db),
	}
	h.common = Common{
		TX:       repository.NewTransactionManager(db),
		Notifier: h.events,
		Syncer:   h.syncs,
		Now:      func() time.Time { return testNow },
	}

	ctx := context.Background()
	require.NoError(t, h.users.Upsert(ctx, seed.Users()))
	for _, s := range seed.Stations() {
		s := s
		require.NoError(t, h.stations.Create(ctx, &s))
	}

	h.alerts = NewAlertService(h.alertsDB, h.stations, h.entries, h.auditDB, h.common)
	h.inventory = NewInventoryService(h.stations, h.stock, h.auditDB, h.alerts, h.common)
	h.entry = NewEntryService(h.entries, h.stations, h.auditDB, h.alerts, h.common)
	h.approval = NewApprovalService(h.entries, h.auditDB, h.inventory, h.alerts, h.common)
	h.station = NewStationService(h.stations, h.auditDB, h.alerts, h.common)
	h.audit = NewAuditService(h.entries, h.auditDB)
	h.reports = NewReportService(h.entries, h.stations, h.alertsDB, func() time.Time { return testNow })
	return h
}

func actorByCode(code string) domain.Actor {
	for _, u := range seed.Users() {
		if u.Code == code {
			return domain.ActorFromUser(u)
		}
	}
	panic("unknown seed user " + code)
}

var (
	admin      = actorByCode("u1")
	ceo        = actorByCode("u2")
	accountant = actorByCode("u3")
	lagosMgr   = actorByCode("u4")
	abujaMgr   = actorByCode("u5")
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// balancedRequest sells qty litres of PMS at the seeded rate, paid in cash.
func balancedRequest(stationCode string, qty int64) SubmitEntryRequest {
	amount := seed.DefaultRate.Mul(decimal.NewFromInt(qty))
	return SubmitEntryRequest{
		StationID:    seed.StationID(stationCode).String(),
		Date:         testDate,
		FuelType:     model.FuelPMS,
		OpeningMeter: decimal.NewFromInt(1000),
		ClosingMeter: decimal.NewFromInt(1000 + qty),
		Payments:     model.PaymentBreakdown{Cash: amount},
	}
}

func (h *harness) lineStock(t *testing.T, stationCode, fuel string) decimal.Decimal {
	t.Helper()
	st, err := h.stations.FindByID(context.Background(), seed.StationID(stationCode))
	require.NoError(t, err)
	line := st.Line(fuel)
	require.NotNil(t, line)
	return line.CurrentStock
}

func (h *harness) alertsOfType(t *testing.T, alertType string) []model.Alert {
	t.Helper()
	all, err := h.alertsDB.List(context.Background(), false, nil)
	require.NoError(t, err)
	var out []model.Alert
	for _, a := range all {
		if a.Type == alertType {
			out = append(out, a)
		}
	}
	return out
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	if len(msgAndArgs) == 0 {
		msgAndArgs = []interface{}{"want %s, got %s", want, got.String()}
	}
	assert.True(t, dec(want).Equal(got), msgAndArgs...)
}
