package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds database constraints the reservation core relies on
// for concurrency control. AutoMigrate cannot express these.
func MigrateConstraints(db *gorm.DB) error {
	// Overlap queries scan (venue_id, start_time, end_time) for every
	// availability check and every booking transaction.
	err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_reservations_venue_window
		ON reservations (venue_id, start_time, end_time);
	`).Error
	if err != nil {
		return err
	}

	// Status filter rides along with the window scan.
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_reservations_venue_status
		ON reservations (venue_id, status);
	`).Error
	if err != nil {
		return err
	}

	// Slot numbers are unique within a venue, not globally.
	err = db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS unique_slot_number_per_venue
		ON parking_slots (venue_id, slot_number);
	`).Error
	if err != nil {
		return err
	}

	// Invariant: 0 <= available_spots <= total_spots.
	err = db.Exec(`
		ALTER TABLE venues
		DROP CONSTRAINT IF EXISTS chk_available_spots_bounds;
	`).Error
	if err != nil {
		return err
	}
	return db.Exec(`
		ALTER TABLE venues
		ADD CONSTRAINT chk_available_spots_bounds
		CHECK (available_spots >= 0 AND available_spots <= total_spots);
	`).Error
}
