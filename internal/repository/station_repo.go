package repository

import (
	"context"
	"fmt"

	"fuelops/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StationRepository interface {
	Create(ctx context.Context, station *model.Station) error
	Update(ctx context.Context, station *model.Station) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Station, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Station, error)
	List(ctx context.Context, scope *uuid.UUID) ([]model.Station, error)
	Count(ctx context.Context) (int64, error)
	NextCode(ctx context.Context) (string, error)
	SaveLine(ctx context.Context, line *model.FuelLine) error
	DeleteLine(ctx context.Context, id uuid.UUID) error
}

type stationRepository struct {
	db *gorm.DB
}

func NewStationRepository(db *gorm.DB) StationRepository {
	return &stationRepository{db: db}
}

func (r *stationRepository) Create(ctx context.Context, station *model.Station) error {
	return GetDB(ctx, r.db).Create(station).Error
}

// Update saves the station row only; lines go through SaveLine.
func (r *stationRepository) Update(ctx context.Context, station *model.Station) error {
	return GetDB(ctx, r.db).Omit(clause.Associations).Save(station).Error
}

func (r *stationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Station{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "station")
	}
	return nil
}

func withLines(db *gorm.DB) *gorm.DB {
	return db.Preload("Inventory", func(db *gorm.DB) *gorm.DB {
		return db.Order("fuel_type asc")
	})
}

func (r *stationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Station, error) {
	var station model.Station
	if err := withLines(GetDB(ctx, r.db)).First(&station, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "station")
	}
	return &station, nil
}

// FindByIDForUpdate row-locks the station's fuel lines for the rest of the transaction.
func (r *stationRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Station, error) {
	db := GetDB(ctx, r.db)
	var station model.Station
	if err := db.First(&station, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "station")
	}
	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("station_id = ?", id).Order("fuel_type asc").Find(&station.Inventory).Error; err != nil {
		return nil, err
	}
	return &station, nil
}

func (r *stationRepository) List(ctx context.Context, scope *uuid.UUID) ([]model.Station, error) {
	var stations []model.Station
	db := withLines(GetDB(ctx, r.db))
	if scope != nil {
		db = db.Where("id = ?", *scope)
	}
	if err := db.Order("code asc").Find(&stations).Error; err != nil {
		return nil, err
	}
	return stations, nil
}

func (r *stationRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := GetDB(ctx, r.db).Model(&model.Station{}).Count(&n).Error
	return n, err
}

// NextCode returns s{n+1}, counting soft-deleted stations so codes are never reused.
func (r *stationRepository) NextCode(ctx context.Context) (string, error) {
	var n int64
	if err := GetDB(ctx, r.db).Unscoped().Model(&model.Station{}).Count(&n).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("s%d", n+1), nil
}

func (r *stationRepository) SaveLine(ctx context.Context, line *model.FuelLine) error {
	return GetDB(ctx, r.db).Save(line).Error
}

func (r *stationRepository) DeleteLine(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.FuelLine{}).Error
}
