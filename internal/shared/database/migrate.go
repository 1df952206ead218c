package database

import (
	"parkly/internal/reservations"
	"parkly/internal/slots"
	"parkly/internal/users"
	"parkly/internal/vehicles"
	"parkly/internal/venues"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&users.User{},
		&venues.Venue{},
		&slots.ParkingSlot{},
		&vehicles.Vehicle{},
		&reservations.Reservation{},
	); err != nil {
		return err
	}
	return MigrateConstraints(db)
}
