package ledger

import (
	"time"

	"github.com/google/uuid"
)

// Payment records the user's charge attempt for a booking. It is created
// before the booking it belongs to; BookingID is back-filled once both rows
// exist inside the same transaction.
type Payment struct {
	ID               uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID        *uuid.UUID `gorm:"type:uuid;index" json:"booking_id,omitempty"`
	UserID           uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	TotalHours       float64    `gorm:"not null;default:0" json:"total_hours"`
	PricePerHour     float64    `gorm:"not null" json:"price_per_hour"`
	SecurityDeposit  float64    `gorm:"not null" json:"security_deposit"`
	CouponDiscount   float64    `gorm:"default:0" json:"coupon_discount"`
	GatewayPaymentID string     `gorm:"type:varchar(100)" json:"gateway_payment_id,omitempty"`
	Status           string     `gorm:"type:varchar(20);check:status IN ('pending', 'paid', 'failed');default:'pending'" json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
}

// Refund is one refund event tied to a booking's termination (cancel or
// drop). Created once per terminating event; afterwards only the claim
// workflow touches it.
type Refund struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID          uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	BookingID       uuid.UUID  `gorm:"type:uuid;index;not null" json:"booking_id"`
	Reason          string     `gorm:"type:varchar(30);check:reason IN ('cancelled_by_user', 'refundable', 'cancelled_by_owner');not null" json:"reason"`
	DeductionAmount float64    `gorm:"default:0" json:"deduction_amount"`
	DeductionReason string     `gorm:"type:text" json:"deduction_reason,omitempty"`
	RefundAmount    float64    `json:"refund_amount"`
	Status          string     `gorm:"type:varchar(20);check:status IN ('pending', 'in_process', 'claimed');default:'pending'" json:"status"`
	UPIID           string     `gorm:"type:varchar(100)" json:"upi_id,omitempty"`
	ClaimedAt       *time.Time `json:"claimed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Penalty is a charge against a party (owner or user) for a policy
// violation: a late return exceeding the security deposit, or an owner
// cancelling after confirmation.
type Penalty struct {
	ID               uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID           uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	BookingID        uuid.UUID `gorm:"type:uuid;index;not null" json:"booking_id"`
	PenaltyAmount    float64   `gorm:"not null" json:"penalty_amount"`
	PenaltyReason    string    `gorm:"type:text" json:"penalty_reason,omitempty"`
	Reason           string    `gorm:"type:varchar(30);check:reason IN ('late_drop', 'cancelled_by_owner');not null" json:"reason"`
	PaymentStatus    string    `gorm:"type:varchar(20);check:payment_status IN ('unpaid', 'paid');default:'unpaid'" json:"payment_status"`
	GatewayPaymentID string    `gorm:"type:varchar(100)" json:"gateway_payment_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// Payout is the amount owed to the car owner for a completed rental,
// created exactly once at drop confirmation.
type Payout struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OwnerID        uuid.UUID  `gorm:"type:uuid;index;not null" json:"owner_id"`
	BookingID      uuid.UUID  `gorm:"type:uuid;index;not null" json:"booking_id"`
	CarID          uuid.UUID  `gorm:"type:uuid;not null" json:"car_id"`
	TotalHours     float64    `gorm:"not null;default:0" json:"total_hours"`
	PricePerHour   float64    `gorm:"not null" json:"price_per_hour"`
	CouponDiscount float64    `gorm:"default:0" json:"coupon_discount"`
	LateCharge     float64    `gorm:"default:0" json:"late_charge"`
	PayoutAmount   float64    `gorm:"default:0" json:"payout_amount"`
	Status         string     `gorm:"type:varchar(20);check:status IN ('pending', 'in_process', 'claimed');default:'pending'" json:"status"`
	UPIID          string     `gorm:"type:varchar(100)" json:"upi_id,omitempty"`
	ClaimedAt      *time.Time `json:"claimed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Coupon is a discount credit issued to a user, consumed at most once at
// booking creation.
type Coupon struct {
	ID                 uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID             uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	DiscountPercentage float64   `gorm:"not null" json:"discount_percentage"`
	Used               bool      `gorm:"default:false;not null" json:"used"`
	IssuedForReason    string    `gorm:"type:text" json:"issued_for_reason,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// TableName sets the table name for Payment
func (Payment) TableName() string {
	return "payments"
}

// TableName sets the table name for Refund
func (Refund) TableName() string {
	return "refunds"
}

// TableName sets the table name for Penalty
func (Penalty) TableName() string {
	return "penalties"
}

// TableName sets the table name for Payout
func (Payout) TableName() string {
	return "payouts"
}

// TableName sets the table name for Coupon
func (Coupon) TableName() string {
	return "coupons"
}

// Refund reasons
const (
	RefundReasonCancelledByUser  = "cancelled_by_user"
	RefundReasonRefundable       = "refundable"
	RefundReasonCancelledByOwner = "cancelled_by_owner"
)

// Penalty reasons
const (
	PenaltyReasonLateDrop         = "late_drop"
	PenaltyReasonCancelledByOwner = "cancelled_by_owner"
)

// Claim statuses shared by refunds and payouts
const (
	ClaimStatusPending   = "pending"
	ClaimStatusInProcess = "in_process"
	ClaimStatusClaimed   = "claimed"
)

// Payment statuses
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// Penalty payment statuses
const (
	PenaltyUnpaid = "unpaid"
	PenaltyPaid   = "paid"
)

func (p *Payment) IsPaid() bool {
	return p.Status == PaymentStatusPaid
}

func (r *Refund) IsClaimable() bool {
	return r.Status == ClaimStatusPending
}

func (p *Payout) IsClaimable() bool {
	return p.Status == ClaimStatusPending
}

func (p *Penalty) IsPaid() bool {
	return p.PaymentStatus == PenaltyPaid
}
