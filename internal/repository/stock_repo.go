package repository

import (
	"context"

	"fuelops/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockRepository records the stock card and deliveries.
type StockRepository interface {
	CreateMovement(ctx context.Context, m *model.StockMovement) error
	ListMovements(ctx context.Context, stationID uuid.UUID, page, limit int) ([]model.StockMovement, int64, error)
	CreatePurchase(ctx context.Context, p *model.StockPurchase) error
	ListPurchases(ctx context.Context, stationID *uuid.UUID) ([]model.StockPurchase, error)
}

type stockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) StockRepository {
	return &stockRepository{db: db}
}

func (r *stockRepository) CreateMovement(ctx context.Context, m *model.StockMovement) error {
	return GetDB(ctx, r.db).Create(m).Error
}

func (r *stockRepository) ListMovements(ctx context.Context, stationID uuid.UUID, page, limit int) ([]model.StockMovement, int64, error) {
	var movements []model.StockMovement
	var total int64

	db := GetDB(ctx, r.db).Model(&model.StockMovement{}).Where("station_id = ?", stationID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&movements).Error; err != nil {
		return nil, 0, err
	}
	return movements, total, nil
}

func (r *stockRepository) CreatePurchase(ctx context.Context, p *model.StockPurchase) error {
	return GetDB(ctx, r.db).Create(p).Error
}

func (r *stockRepository) ListPurchases(ctx context.Context, stationID *uuid.UUID) ([]model.StockPurchase, error) {
	var purchases []model.StockPurchase
	db := GetDB(ctx, r.db)
	if stationID != nil {
		db = db.Where("station_id = ?", *stationID)
	}
	if err := db.Order("purchase_date desc").Order("created_at desc").Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}
