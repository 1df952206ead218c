package vehicles

import (
	"time"

	"github.com/google/uuid"
)

type VehicleType string

const (
	TypeCar        VehicleType = "CAR"
	TypeMotorcycle VehicleType = "MOTORCYCLE"
	TypeTruck      VehicleType = "TRUCK"
)

func (t VehicleType) IsValid() bool {
	switch t {
	case TypeCar, TypeMotorcycle, TypeTruck:
		return true
	default:
		return false
	}
}

// Vehicle is a saved vehicle on a user's profile, reusable across
// reservations. License plates are unique platform-wide.
type Vehicle struct {
	ID           uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID       uuid.UUID   `gorm:"type:uuid;index;not null" json:"user_id"`
	Type         VehicleType `gorm:"type:varchar(20);not null;default:'CAR'" json:"type"`
	LicensePlate string      `gorm:"uniqueIndex;not null" json:"license_plate"`
	Make         string      `json:"make,omitempty"`
	Model        string      `json:"model,omitempty"`
	Color        string      `json:"color,omitempty"`
	IsDefault    bool        `gorm:"default:false" json:"is_default"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
