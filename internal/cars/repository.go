package cars

import (
	"context"
	"errors"
	"time"

	"carzy/internal/shared/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Car, error)
	GetAvailability(ctx context.Context, carID uuid.UUID) ([]Availability, error)
	HasOverlap(ctx context.Context, carID uuid.UUID, start, end time.Time) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Car, error) {
	var car Car
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&car).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("car not found")
		}
		return nil, err
	}
	return &car, nil
}

func (r *repository) GetAvailability(ctx context.Context, carID uuid.UUID) ([]Availability, error) {
	var windows []Availability
	err := r.db.WithContext(ctx).
		Where("car_id = ?", carID).
		Order("start_datetime ASC").
		Find(&windows).Error
	return windows, err
}

func (r *repository) HasOverlap(ctx context.Context, carID uuid.UUID, start, end time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Availability{}).
		Where("car_id = ?", carID).
		Where("start_datetime < ? AND end_datetime > ?", end, start).
		Count(&count).Error
	return count > 0, err
}
