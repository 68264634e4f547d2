package otp

import (
	"context"
	"errors"

	"carzy/internal/shared/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, code *Code) error
	GetByID(ctx context.Context, id uuid.UUID) (*Code, error)
	Update(ctx context.Context, code *Code) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, code *Code) error {
	return r.db.WithContext(ctx).Create(code).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Code, error) {
	var code Code
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("otp not found")
		}
		return nil, err
	}
	return &code, nil
}

func (r *repository) Update(ctx context.Context, code *Code) error {
	return r.db.WithContext(ctx).Save(code).Error
}
