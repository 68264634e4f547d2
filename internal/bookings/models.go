package bookings

import (
	"time"

	"github.com/google/uuid"
)

// Booking defines one reservation of a car by a user for a time window.
// It is the aggregate root: payments, refunds, penalties and payouts all
// point back at it via booking_id, never the reverse.
type Booking struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	CarID      uuid.UUID `gorm:"type:uuid;index;not null" json:"car_id"`
	CarOwnerID uuid.UUID `gorm:"type:uuid;index;not null" json:"car_owner_id"`

	StartDatetime time.Time `gorm:"not null" json:"start_datetime"`
	EndDatetime   time.Time `gorm:"not null" json:"end_datetime"`

	PickupDeliveryLocation string   `gorm:"type:varchar(255);not null" json:"pickup_delivery_location"`
	Latitude               *float64 `json:"latitude,omitempty"`
	Longitude              *float64 `json:"longitude,omitempty"`

	Status Status `gorm:"type:varchar(20);check:status IN ('payment_pending', 'booked', 'picked', 'completed', 'cancelled_by_user', 'cancelled_by_owner');default:'payment_pending'" json:"status"`

	TotalHours      float64 `gorm:"not null" json:"total_hours"`
	PricePerHour    float64 `gorm:"not null" json:"price_per_hour"`
	SecurityDeposit float64 `gorm:"not null" json:"security_deposit"`
	CouponDiscount  float64 `gorm:"default:0" json:"coupon_discount"` // percent, 0-100
	LateCharge      float64 `gorm:"default:0" json:"late_charge"`

	PickupOTP     string `gorm:"type:varchar(4);not null" json:"-"`
	DropOTP       string `gorm:"type:varchar(4);not null" json:"-"`
	PickupOTPUsed bool   `gorm:"default:false;not null" json:"pickup_otp_used"`
	DropOTPUsed   bool   `gorm:"default:false;not null" json:"drop_otp_used"`

	// Condition photos taken at handover; set once, never nulled out
	BeforeFrontImageURL     string `gorm:"type:text" json:"before_front_image_url,omitempty"`
	BeforeRearImageURL      string `gorm:"type:text" json:"before_rear_image_url,omitempty"`
	BeforeLeftSideImageURL  string `gorm:"type:text" json:"before_left_side_image_url,omitempty"`
	BeforeRightSideImageURL string `gorm:"type:text" json:"before_right_side_image_url,omitempty"`
	BeforeInteriorImageURL  string `gorm:"type:text" json:"before_interior_image_url,omitempty"`
	AfterFrontImageURL      string `gorm:"type:text" json:"after_front_image_url,omitempty"`
	AfterRearImageURL       string `gorm:"type:text" json:"after_rear_image_url,omitempty"`
	AfterLeftSideImageURL   string `gorm:"type:text" json:"after_left_side_image_url,omitempty"`
	AfterRightSideImageURL  string `gorm:"type:text" json:"after_right_side_image_url,omitempty"`
	AfterInteriorImageURL   string `gorm:"type:text" json:"after_interior_image_url,omitempty"`

	PickedTime   *time.Time `json:"picked_time,omitempty"`
	ReturnedTime *time.Time `json:"returned_time,omitempty"`

	PaymentID *uuid.UUID `gorm:"type:uuid" json:"payment_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// BaseRent is the undiscounted rental charge for the window
func (b *Booking) BaseRent() float64 {
	return b.TotalHours * b.PricePerHour
}

// IsTerminal reports whether the booking can no longer transition
func (b *Booking) IsTerminal() bool {
	return b.Status.IsTerminal()
}

// CreateBookingRequest represents a booking creation payload. The gateway
// payment reference is optional; without it (or when the gateway cannot
// confirm capture) the booking starts as payment_pending.
type CreateBookingRequest struct {
	UserID                 string    `json:"user_id" binding:"required,uuid"`
	CarID                  string    `json:"car_id" binding:"required,uuid"`
	StartDatetime          time.Time `json:"start_datetime" binding:"required"`
	EndDatetime            time.Time `json:"end_datetime" binding:"required"`
	PickupDeliveryLocation string    `json:"pickup_delivery_location" binding:"required"`
	Latitude               *float64  `json:"latitude,omitempty"`
	Longitude              *float64  `json:"longitude,omitempty"`
	TotalHours             float64   `json:"total_hours" binding:"required,gt=0"`
	PricePerHour           float64   `json:"price_per_hour" binding:"required,gt=0"`
	SecurityDeposit        float64   `json:"security_deposit" binding:"required,gte=0"`
	CouponDiscount         float64   `json:"coupon_discount" binding:"gte=0,lte=100"`
	CouponID               string    `json:"coupon_id,omitempty" binding:"omitempty,uuid"`
	GatewayPaymentID       string    `json:"gateway_payment_id,omitempty"`
}

// CreateBookingResponse represents the booking creation result
type CreateBookingResponse struct {
	BookingID     uuid.UUID `json:"booking_id"`
	Status        Status    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	PickupOTP     string    `json:"pickup_otp"`
	DropOTP       string    `json:"drop_otp"`
}

// PickupConfirmationRequest represents a pickup confirmation payload
type PickupConfirmationRequest struct {
	BookingID string `json:"booking_id" binding:"required,uuid"`
	OTP       string `json:"otp" binding:"required,len=4"`

	BeforeFrontImageURL     string `json:"before_front_image_url,omitempty"`
	BeforeRearImageURL      string `json:"before_rear_image_url,omitempty"`
	BeforeLeftSideImageURL  string `json:"before_left_side_image_url,omitempty"`
	BeforeRightSideImageURL string `json:"before_right_side_image_url,omitempty"`
	BeforeInteriorImageURL  string `json:"before_interior_image_url,omitempty"`
}

// DropConfirmationRequest represents a drop confirmation payload
type DropConfirmationRequest struct {
	BookingID string `json:"booking_id" binding:"required,uuid"`
	OTP       string `json:"otp" binding:"required,len=4"`

	AfterFrontImageURL     string `json:"after_front_image_url,omitempty"`
	AfterRearImageURL      string `json:"after_rear_image_url,omitempty"`
	AfterLeftSideImageURL  string `json:"after_left_side_image_url,omitempty"`
	AfterRightSideImageURL string `json:"after_right_side_image_url,omitempty"`
	AfterInteriorImageURL  string `json:"after_interior_image_url,omitempty"`
}

// DropResult reports the money movement decided at drop time
type DropResult struct {
	BookingID     uuid.UUID `json:"booking_id"`
	LateCharge    float64   `json:"late_charge"`
	RefundAmount  float64   `json:"refund_amount"`
	PayoutAmount  float64   `json:"payout_amount"`
	PenaltyAmount float64   `json:"penalty_amount,omitempty"`
}

// CancellationRequest represents a user cancellation payload
type CancellationRequest struct {
	BookingID        string  `json:"booking_id" binding:"required,uuid"`
	UserID           string  `json:"user_id" binding:"required,uuid"`
	RefundPercentage float64 `json:"refund_percentage"`
}

// OwnerCancellationRequest represents an owner cancellation payload
type OwnerCancellationRequest struct {
	BookingID string `json:"booking_id" binding:"required,uuid"`
	OwnerID   string `json:"owner_id" binding:"required,uuid"`
}

// CancellationResult reports the refund decided at cancellation
type CancellationResult struct {
	BookingID       uuid.UUID `json:"booking_id"`
	Status          Status    `json:"status"`
	RefundAmount    float64   `json:"refund_amount"`
	DeductionAmount float64   `json:"deduction_amount"`
}
