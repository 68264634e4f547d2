package bookings

import (
	"context"
	"errors"
	"time"

	"carzy/internal/cars"
	"carzy/internal/ledger"
	"carzy/internal/shared/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TxOps is the set of writes available inside a booking transaction. The
// service decides what to write; the repository guarantees the writes land
// atomically with the booking row they belong to.
type TxOps interface {
	// ConsumeCoupon locks the coupon row, verifies it is unused and owned by
	// the user, marks it used, and returns it for its discount percentage.
	ConsumeCoupon(ctx context.Context, couponID, userID uuid.UUID) (*ledger.Coupon, error)
	CreatePayment(ctx context.Context, payment *ledger.Payment) error
	InsertBooking(ctx context.Context, booking *Booking) error
	LinkPaymentBooking(ctx context.Context, paymentID, bookingID uuid.UUID) error
	CreateRefund(ctx context.Context, refund *ledger.Refund) error
	CreatePenalty(ctx context.Context, penalty *ledger.Penalty) error
	CreatePayout(ctx context.Context, payout *ledger.Payout) error
	IssueCoupon(ctx context.Context, coupon *ledger.Coupon) error
	AddAvailability(ctx context.Context, window *cars.Availability) error
	// RemoveAvailability deletes the window matching (carID, start, end)
	// exactly. No rows matching is not an error.
	RemoveAvailability(ctx context.Context, carID uuid.UUID, start, end time.Time) error
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Booking, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Booking, error)

	// CreateBooking runs fn inside one transaction; fn performs the payment
	// insert, booking insert and related writes through TxOps.
	CreateBooking(ctx context.Context, fn func(tx TxOps) error) error

	// UpdateBooking locks the booking row FOR UPDATE, hands it to fn along
	// with TxOps for side-effect writes, then persists the mutated booking.
	UpdateBooking(ctx context.Context, id uuid.UUID, fn func(tx TxOps, booking *Booking) error) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("booking not found")
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Where("id = ? AND car_owner_id = ?", id, ownerID).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("booking not found")
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Booking, error) {
	var bookings []Booking
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

func (r *repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Booking, error) {
	var bookings []Booking
	err := r.db.WithContext(ctx).
		Where("car_owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

func (r *repository) CreateBooking(ctx context.Context, fn func(tx TxOps) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&txOps{db: tx})
	})
}

func (r *repository) UpdateBooking(ctx context.Context, id uuid.UUID, fn func(tx TxOps, booking *Booking) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var booking Booking
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&booking).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("booking not found")
			}
			return err
		}

		if err := fn(&txOps{db: tx}, &booking); err != nil {
			return err
		}

		return tx.Save(&booking).Error
	})
}

// txOps implements TxOps against an open gorm transaction.
type txOps struct {
	db *gorm.DB
}

func (t *txOps) ConsumeCoupon(ctx context.Context, couponID, userID uuid.UUID) (*ledger.Coupon, error) {
	var coupon ledger.Coupon
	err := t.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND user_id = ?", couponID, userID).
		First(&coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("coupon not found")
		}
		return nil, err
	}
	if coupon.Used {
		return nil, apperr.InvalidState("coupon already used")
	}

	coupon.Used = true
	if err := t.db.WithContext(ctx).Save(&coupon).Error; err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (t *txOps) CreatePayment(ctx context.Context, payment *ledger.Payment) error {
	return t.db.WithContext(ctx).Create(payment).Error
}

func (t *txOps) InsertBooking(ctx context.Context, booking *Booking) error {
	return t.db.WithContext(ctx).Create(booking).Error
}

func (t *txOps) LinkPaymentBooking(ctx context.Context, paymentID, bookingID uuid.UUID) error {
	return t.db.WithContext(ctx).
		Model(&ledger.Payment{}).
		Where("id = ?", paymentID).
		Update("booking_id", bookingID).Error
}

func (t *txOps) CreateRefund(ctx context.Context, refund *ledger.Refund) error {
	return t.db.WithContext(ctx).Create(refund).Error
}

func (t *txOps) CreatePenalty(ctx context.Context, penalty *ledger.Penalty) error {
	return t.db.WithContext(ctx).Create(penalty).Error
}

func (t *txOps) CreatePayout(ctx context.Context, payout *ledger.Payout) error {
	return t.db.WithContext(ctx).Create(payout).Error
}

func (t *txOps) IssueCoupon(ctx context.Context, coupon *ledger.Coupon) error {
	return t.db.WithContext(ctx).Create(coupon).Error
}

func (t *txOps) AddAvailability(ctx context.Context, window *cars.Availability) error {
	return t.db.WithContext(ctx).Create(window).Error
}

func (t *txOps) RemoveAvailability(ctx context.Context, carID uuid.UUID, start, end time.Time) error {
	return t.db.WithContext(ctx).
		Where("car_id = ? AND start_datetime = ? AND end_datetime = ?", carID, start, end).
		Delete(&cars.Availability{}).Error
}
