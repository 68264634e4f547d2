package database

import (
	"carzy/internal/bookings"
	"carzy/internal/cars"
	"carzy/internal/ledger"
	"carzy/internal/otp"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return err
	}

	if err := db.AutoMigrate(
		&cars.Car{},
		&cars.Availability{},
		&bookings.Booking{},
		&ledger.Payment{},
		&ledger.Refund{},
		&ledger.Penalty{},
		&ledger.Payout{},
		&ledger.Coupon{},
		&otp.Code{},
	); err != nil {
		return err
	}

	return MigrateConstraints(db)
}
