package reservations

import "errors"

var (
	ErrReservationNotFound = errors.New("reservation not found")
	ErrVenueNotFound       = errors.New("venue not found")
	ErrVenueNotReservable  = errors.New("venue is not accepting reservations")
	ErrInvalidInterval     = errors.New("invalid reservation interval")
	ErrCapacityExceeded    = errors.New("no spots available for the requested window")
	ErrInvalidTransition   = errors.New("invalid reservation status transition")
	ErrTransactionConflict = errors.New("reservation conflicted with concurrent traffic, please retry")
	ErrVehicleRequired     = errors.New("vehicle details are required")
	ErrNotReservationOwner = errors.New("reservation belongs to another user")
)
