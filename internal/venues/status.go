package venues

type Status string

const (
	StatusActive      Status = "ACTIVE"
	StatusMaintenance Status = "MAINTENANCE"
	StatusClosed      Status = "CLOSED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusMaintenance, StatusClosed:
		return true
	default:
		return false
	}
}

// AcceptsReservations reports whether new reservations may target a
// venue in this status.
func (s Status) AcceptsReservations() bool {
	return s == StatusActive
}

// Known amenity values for venue listings.
const (
	AmenitySecurity   = "security"
	AmenityCamera     = "camera"
	AmenityCovered    = "covered"
	AmenityEVCharging = "ev_charging"
	AmenityValet      = "valet"
	AmenityCarWash    = "car_wash"
)

// IsValidAmenity checks an amenity string against the known set.
func IsValidAmenity(a string) bool {
	switch a {
	case AmenitySecurity, AmenityCamera, AmenityCovered, AmenityEVCharging, AmenityValet, AmenityCarWash:
		return true
	default:
		return false
	}
}
