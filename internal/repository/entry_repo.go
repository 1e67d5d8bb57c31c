package repository

import (
	"context"
	"fmt"
	"time"

	"fuelops/internal/domain"
	"fuelops/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EntryFilter narrows entry queries. Zero values mean "any".
type EntryFilter struct {
	Status    string
	StationID *uuid.UUID
	FromDate  string // YYYY-MM-DD inclusive
	ToDate    string // YYYY-MM-DD inclusive
	Page      int
	Limit     int
}

type EntryRepository interface {
	Create(ctx context.Context, entry *model.DailyEntry) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.DailyEntry, error)
	List(ctx context.Context, filter EntryFilter) ([]model.DailyEntry, int64, error)
	ListAll(ctx context.Context, filter EntryFilter) ([]model.DailyEntry, error)
	ListNewestFirst(ctx context.Context) ([]model.DailyEntry, error)
	CompareAndSetStatus(ctx context.Context, entry *model.DailyEntry, from string) error
	AppendLog(ctx context.Context, log *model.EntryAuditLog) error
	CountByStatus(ctx context.Context, status string, stationID *uuid.UUID) (int64, error)
}

type entryRepository struct {
	db *gorm.DB
}

func NewEntryRepository(db *gorm.DB) EntryRepository {
	return &entryRepository{db: db}
}

// Create inserts the entry together with its audit trail.
func (r *entryRepository) Create(ctx context.Context, entry *model.DailyEntry) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func withTrail(db *gorm.DB) *gorm.DB {
	return db.Preload("AuditTrail", func(db *gorm.DB) *gorm.DB {
		return db.Order("seq asc")
	})
}

func (r *entryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.DailyEntry, error) {
	var entry model.DailyEntry
	if err := withTrail(GetDB(ctx, r.db)).First(&entry, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "daily entry")
	}
	return &entry, nil
}

func applyEntryFilter(db *gorm.DB, f EntryFilter) *gorm.DB {
	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}
	if f.StationID != nil {
		db = db.Where("station_id = ?", *f.StationID)
	}
	if f.FromDate != "" {
		db = db.Where("entry_date >= ?", f.FromDate)
	}
	if f.ToDate != "" {
		db = db.Where("entry_date <= ?", f.ToDate)
	}
	return db
}

// List returns one page, newest record date first.
func (r *entryRepository) List(ctx context.Context, f EntryFilter) ([]model.DailyEntry, int64, error) {
	var entries []model.DailyEntry
	var total int64

	db := GetDB(ctx, r.db)
	if err := applyEntryFilter(db.Model(&model.DailyEntry{}), f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = 20
	}
	offset := (f.Page - 1) * f.Limit
	if err := applyEntryFilter(withTrail(db), f).
		Order("entry_date desc").Order("created_at desc").
		Offset(offset).Limit(f.Limit).Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// ListAll returns every matching entry, newest record date first.
func (r *entryRepository) ListAll(ctx context.Context, f EntryFilter) ([]model.DailyEntry, error) {
	var entries []model.DailyEntry
	if err := applyEntryFilter(withTrail(GetDB(ctx, r.db)), f).
		Order("entry_date desc").Order("created_at desc").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ListNewestFirst returns every entry in reverse insertion order,
// regardless of the record date it reports on.
func (r *entryRepository) ListNewestFirst(ctx context.Context) ([]model.DailyEntry, error) {
	var entries []model.DailyEntry
	if err := withTrail(GetDB(ctx, r.db)).Order("created_at desc").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// CompareAndSetStatus persists the decision fields only if the stored
// status still equals from. A lost race yields domain.ErrInvalidState.
func (r *entryRepository) CompareAndSetStatus(ctx context.Context, entry *model.DailyEntry, from string) error {
	res := GetDB(ctx, r.db).Model(&model.DailyEntry{}).
		Where("id = ? AND status = ?", entry.ID, from).
		Updates(map[string]interface{}{
			"status":            entry.Status,
			"approver_comments": entry.ApproverComments,
			"decided_by":        entry.DecidedBy,
			"decided_at":        entry.DecidedAt,
			"updated_at":        time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return fmt.Errorf("%w: entry was decided concurrently", domain.ErrInvalidState)
	}
	return nil
}

func (r *entryRepository) AppendLog(ctx context.Context, log *model.EntryAuditLog) error {
	return GetDB(ctx, r.db).Create(log).Error
}

func (r *entryRepository) CountByStatus(ctx context.Context, status string, stationID *uuid.UUID) (int64, error) {
	var n int64
	err := applyEntryFilter(GetDB(ctx, r.db).Model(&model.DailyEntry{}), EntryFilter{Status: status, StationID: stationID}).Count(&n).Error
	return n, err
}
