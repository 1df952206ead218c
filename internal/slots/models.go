package slots

import (
	"time"

	"github.com/google/uuid"
)

// SlotType mirrors the vehicle categories a slot can host.
type SlotType string

const (
	SlotTypeCar        SlotType = "CAR"
	SlotTypeMotorcycle SlotType = "MOTORCYCLE"
	SlotTypeTruck      SlotType = "TRUCK"
)

func (t SlotType) IsValid() bool {
	switch t {
	case SlotTypeCar, SlotTypeMotorcycle, SlotTypeTruck:
		return true
	default:
		return false
	}
}

type SlotStatus string

const (
	SlotAvailable   SlotStatus = "AVAILABLE"
	SlotOccupied    SlotStatus = "OCCUPIED"
	SlotReserved    SlotStatus = "RESERVED"
	SlotMaintenance SlotStatus = "MAINTENANCE"
)

func (s SlotStatus) IsValid() bool {
	switch s {
	case SlotAvailable, SlotOccupied, SlotReserved, SlotMaintenance:
		return true
	default:
		return false
	}
}

// ParkingSlot is a physical spot inside a venue. Slot numbers are
// unique per venue.
type ParkingSlot struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	VenueID    uuid.UUID  `gorm:"type:uuid;index;not null" json:"venue_id"`
	SlotNumber string     `gorm:"not null" json:"slot_number"`
	Floor      int        `gorm:"not null;default:0" json:"floor"`
	Type       SlotType   `gorm:"type:varchar(20);not null;default:'CAR'" json:"type"`
	Status     SlotStatus `gorm:"type:varchar(20);not null;default:'AVAILABLE'" json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (ParkingSlot) TableName() string {
	return "parking_slots"
}

func (s *ParkingSlot) IsUsable() bool {
	return s.Status == SlotAvailable
}

// GetEffectiveStatus overlays the Redis hold state on the persistent
// slot status.
func (s *ParkingSlot) GetEffectiveStatus(isHeld bool) string {
	if s.Status == SlotMaintenance {
		return string(SlotMaintenance)
	}
	if isHeld {
		return "HELD"
	}
	return string(s.Status)
}
