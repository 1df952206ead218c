package reservations

import (
	"time"

	"github.com/google/uuid"
)

// VehicleType mirrors the categories of parking slots.
type VehicleType string

const (
	VehicleCar        VehicleType = "CAR"
	VehicleMotorcycle VehicleType = "MOTORCYCLE"
	VehicleTruck      VehicleType = "TRUCK"
)

func (t VehicleType) IsValid() bool {
	switch t {
	case VehicleCar, VehicleMotorcycle, VehicleTruck:
		return true
	default:
		return false
	}
}

// VehicleSnapshot is embedded into a reservation so the record stays
// meaningful even if the user later edits or deletes the vehicle.
type VehicleSnapshot struct {
	Type         VehicleType `json:"type" gorm:"column:vehicle_type;not null"`
	LicensePlate string      `json:"license_plate" gorm:"column:vehicle_license_plate;not null"`
	Make         string      `json:"make,omitempty" gorm:"column:vehicle_make"`
	Model        string      `json:"model,omitempty" gorm:"column:vehicle_model"`
}

// Reservation holds a parking spot at a venue for a half-open time
// window [StartTime, EndTime).
type Reservation struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ReservationRef string     `gorm:"unique;not null" json:"reservation_ref"`
	UserID         uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	VenueID        uuid.UUID  `gorm:"type:uuid;index;not null" json:"venue_id"`
	SlotID         *uuid.UUID `gorm:"type:uuid;index" json:"slot_id,omitempty"`

	Vehicle VehicleSnapshot `gorm:"embedded" json:"vehicle"`

	StartTime time.Time `gorm:"not null;index" json:"start_time"`
	EndTime   time.Time `gorm:"not null;index" json:"end_time"`

	Status        Status        `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"payment_status"`
	TotalAmount   float64       `gorm:"not null" json:"total_amount"`

	// SpotClaimed records whether creating this reservation decremented
	// the venue's availability counter. Only a claimed spot is released
	// on cancel/complete; a booking taken while the venue was full never
	// claimed one.
	SpotClaimed bool `gorm:"not null;default:false" json:"-"`

	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Overlaps reports whether the reservation window intersects
// [start, end) under half-open semantics. Back-to-back windows that
// share a boundary instant do not overlap.
func (r *Reservation) Overlaps(start, end time.Time) bool {
	return r.StartTime.Before(end) && start.Before(r.EndTime)
}
