package repository

import (
	"context"

	"fuelops/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AlertRepository interface {
	CreateMany(ctx context.Context, alerts []model.Alert) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Alert, error)
	List(ctx context.Context, activeOnly bool, stationID *uuid.UUID) ([]model.Alert, error)
	Update(ctx context.Context, alert *model.Alert) error
	CountActive(ctx context.Context, stationID *uuid.UUID) (int64, error)
}

type alertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) AlertRepository {
	return &alertRepository{db: db}
}

func (r *alertRepository) CreateMany(ctx context.Context, alerts []model.Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).Create(&alerts).Error
}

func (r *alertRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Alert, error) {
	var alert model.Alert
	if err := GetDB(ctx, r.db).First(&alert, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "alert")
	}
	return &alert, nil
}

// List returns alerts newest first.
func (r *alertRepository) List(ctx context.Context, activeOnly bool, stationID *uuid.UUID) ([]model.Alert, error) {
	var alerts []model.Alert
	db := GetDB(ctx, r.db)
	if activeOnly {
		db = db.Where("resolved = ?", false)
	}
	if stationID != nil {
		db = db.Where("station_id = ?", *stationID)
	}
	if err := db.Order("raised_at desc").Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *alertRepository) Update(ctx context.Context, alert *model.Alert) error {
	return GetDB(ctx, r.db).Save(alert).Error
}

func (r *alertRepository) CountActive(ctx context.Context, stationID *uuid.UUID) (int64, error) {
	var n int64
	db := GetDB(ctx, r.db).Model(&model.Alert{}).Where("resolved = ?", false)
	if stationID != nil {
		db = db.Where("station_id = ?", *stationID)
	}
	err := db.Count(&n).Error
	return n, err
}
