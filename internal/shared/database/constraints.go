package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds database constraints the booking lifecycle relies on
func MigrateConstraints(db *gorm.DB) error {
	// One payout per completed booking
	err := db.Exec(`
		ALTER TABLE payouts
		ADD CONSTRAINT IF NOT EXISTS unique_payout_per_booking
		UNIQUE (booking_id);
	`).Error
	if err != nil {
		return err
	}

	// Reserved-window lookups scan by car and start time
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_car_availabilities_car_start
		ON car_availabilities (car_id, start_datetime);
	`).Error
	if err != nil {
		return err
	}

	// Listing queries filter bookings by renter and by owner
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_user_created
		ON bookings (user_id, created_at DESC);
	`).Error
	if err != nil {
		return err
	}

	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_owner_created
		ON bookings (car_owner_id, created_at DESC);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
