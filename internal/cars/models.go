package cars

import (
	"time"

	"github.com/google/uuid"
)

// Car defines the rentable vehicle listing. Listing CRUD lives outside the
// booking core; the fields here are the ones the lifecycle needs.
type Car struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OwnerID      uuid.UUID `gorm:"type:uuid;index;not null" json:"owner_id"`
	CompanyName  string    `gorm:"type:varchar(100);not null" json:"company_name"`
	ModelName    string    `gorm:"type:varchar(100);not null" json:"model_name"`
	CarNumber    string    `gorm:"type:varchar(10);not null" json:"car_number"`
	PricePerHour float64   `gorm:"not null" json:"price_per_hour"`
	Location     string    `gorm:"type:varchar(255);not null" json:"location"`
	Latitude     *float64  `json:"latitude,omitempty"`
	Longitude    *float64  `json:"longitude,omitempty"`
	IsVisible    bool      `gorm:"default:true" json:"is_visible"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Availability is one reserved time window on a car. The original system
// stored these as delimiter-joined "<start> - <end>" strings on the car row;
// here each window is its own record keyed by car, ordered by start time.
type Availability struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CarID         uuid.UUID `gorm:"type:uuid;index;not null" json:"car_id"`
	BookingID     uuid.UUID `gorm:"type:uuid;index;not null" json:"booking_id"`
	StartDatetime time.Time `gorm:"index;not null" json:"start_datetime"`
	EndDatetime   time.Time `gorm:"not null" json:"end_datetime"`
	CreatedAt     time.Time `json:"created_at"`

	Car *Car `json:"car,omitempty" gorm:"foreignKey:CarID;constraint:OnDelete:CASCADE;"`
}

// TableName sets the table name for Car
func (Car) TableName() string {
	return "cars"
}

// TableName sets the table name for Availability
func (Availability) TableName() string {
	return "car_availabilities"
}

// Matches reports whether the window equals (start, end) exactly. Removal of
// reserved windows is exact-match only; a near-miss window stays put.
func (a *Availability) Matches(start, end time.Time) bool {
	return a.StartDatetime.Equal(start) && a.EndDatetime.Equal(end)
}

// Overlaps reports whether the window intersects (start, end).
func (a *Availability) Overlaps(start, end time.Time) bool {
	return a.StartDatetime.Before(end) && start.Before(a.EndDatetime)
}
