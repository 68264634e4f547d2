package ledger

import (
	"context"
	"errors"

	"carzy/internal/shared/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// Claim workflow reads (locked for update inside a transaction)
	GetRefundByID(ctx context.Context, id uuid.UUID) (*Refund, error)
	GetPayoutByID(ctx context.Context, id uuid.UUID) (*Payout, error)
	GetPenaltyByID(ctx context.Context, id uuid.UUID) (*Penalty, error)

	// Claim workflow writes
	UpdateRefund(ctx context.Context, refund *Refund) error
	UpdatePayout(ctx context.Context, payout *Payout) error
	UpdatePenalty(ctx context.Context, penalty *Penalty) error

	// Per-user listings
	GetRefundsByUser(ctx context.Context, userID uuid.UUID) ([]Refund, error)
	GetPenaltiesByUser(ctx context.Context, userID uuid.UUID) ([]Penalty, error)
	GetPaymentsByUser(ctx context.Context, userID uuid.UUID) ([]Payment, error)
	GetCouponsByUser(ctx context.Context, userID uuid.UUID) ([]Coupon, error)
	GetPayoutsByOwner(ctx context.Context, ownerID uuid.UUID) ([]Payout, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetRefundByID(ctx context.Context, id uuid.UUID) (*Refund, error) {
	var refund Refund
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&refund).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("refund not found")
		}
		return nil, err
	}
	return &refund, nil
}

func (r *repository) GetPayoutByID(ctx context.Context, id uuid.UUID) (*Payout, error) {
	var payout Payout
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&payout).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("payout not found")
		}
		return nil, err
	}
	return &payout, nil
}

func (r *repository) GetPenaltyByID(ctx context.Context, id uuid.UUID) (*Penalty, error) {
	var penalty Penalty
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&penalty).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("penalty not found")
		}
		return nil, err
	}
	return &penalty, nil
}

func (r *repository) UpdateRefund(ctx context.Context, refund *Refund) error {
	return r.db.WithContext(ctx).Save(refund).Error
}

func (r *repository) UpdatePayout(ctx context.Context, payout *Payout) error {
	return r.db.WithContext(ctx).Save(payout).Error
}

func (r *repository) UpdatePenalty(ctx context.Context, penalty *Penalty) error {
	return r.db.WithContext(ctx).Save(penalty).Error
}

func (r *repository) GetRefundsByUser(ctx context.Context, userID uuid.UUID) ([]Refund, error) {
	var refunds []Refund
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&refunds).Error
	return refunds, err
}

func (r *repository) GetPenaltiesByUser(ctx context.Context, userID uuid.UUID) ([]Penalty, error) {
	var penalties []Penalty
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&penalties).Error
	return penalties, err
}

func (r *repository) GetPaymentsByUser(ctx context.Context, userID uuid.UUID) ([]Payment, error) {
	var payments []Payment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

func (r *repository) GetCouponsByUser(ctx context.Context, userID uuid.UUID) ([]Coupon, error) {
	var coupons []Coupon
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&coupons).Error
	return coupons, err
}

func (r *repository) GetPayoutsByOwner(ctx context.Context, ownerID uuid.UUID) ([]Payout, error) {
	var payouts []Payout
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&payouts).Error
	return payouts, err
}
