package venues

import (
	"time"

	"github.com/google/uuid"
)

type OperatingHours struct {
	Open  string `json:"open" gorm:"default:'00:00'"`
	Close string `json:"close" gorm:"default:'23:59'"`
}

type Venue struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	OwnerID     uuid.UUID `json:"owner_id" gorm:"type:uuid;not null;index"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`

	Address string `json:"address" gorm:"not null"`
	City    string `json:"city" gorm:"not null;index"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`

	TotalSpots     int     `json:"total_spots" gorm:"not null"`
	AvailableSpots int     `json:"available_spots" gorm:"not null"`
	PricePerHour   float64 `json:"price_per_hour" gorm:"not null"`

	OperatingHours OperatingHours `json:"operating_hours" gorm:"embedded;embeddedPrefix:hours_"`
	Amenities      []string       `json:"amenities" gorm:"serializer:json;type:jsonb"`
	Status         Status         `json:"status" gorm:"not null;default:'ACTIVE';index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReservedSpots is the number of spots currently held by non-terminal
// reservations, derived from the capacity counters.
func (v *Venue) ReservedSpots() int {
	return v.TotalSpots - v.AvailableSpots
}
