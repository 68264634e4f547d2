package otp

import (
	"time"

	"github.com/google/uuid"
)

// Code is one issued login OTP. These gate mobile-number verification and
// are a separate subsystem from the pickup/drop OTPs the booking state
// machine generates; do not conflate the two.
type Code struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	MobileNumber string     `gorm:"type:varchar(15);index;not null" json:"mobile_number"`
	CodeHash     string     `gorm:"type:varchar(100);not null" json:"-"`
	ExpiresAt    time.Time  `gorm:"not null" json:"expires_at"`
	VerifiedAt   *time.Time `json:"verified_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// TableName sets the table name for Code
func (Code) TableName() string {
	return "otps"
}

// IsExpired reports whether the code can no longer be used
func (c *Code) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// IsUsed reports whether the code was already consumed
func (c *Code) IsUsed() bool {
	return c.VerifiedAt != nil
}
