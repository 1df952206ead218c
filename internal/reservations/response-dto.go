package reservations

import "time"

type ReservationResponse struct {
	ID             string  `json:"id"`
	ReservationRef string  `json:"reservation_ref"`
	UserID         string  `json:"user_id"`
	VenueID        string  `json:"venue_id"`
	SlotID         *string `json:"slot_id,omitempty"`

	Vehicle VehicleSnapshot `json:"vehicle"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	Status        string  `json:"status"`
	PaymentStatus string  `json:"payment_status"`
	TotalAmount   float64 `json:"total_amount"`

	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type PaginatedReservationsResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	TotalCount   int64                 `json:"total_count"`
	Page         int                   `json:"page"`
	Limit        int                   `json:"limit"`
	TotalPages   int                   `json:"total_pages"`
}

type AvailabilityResponse struct {
	VenueID        string    `json:"venue_id"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	TotalSpots     int       `json:"total_spots"`
	OverlapCount   int64     `json:"overlap_count"`
	AvailableSpots int       `json:"available_spots"`
	Available      bool      `json:"available"`
}

// ToResponse converts a Reservation model into its API representation.
func (r *Reservation) ToResponse() ReservationResponse {
	var slotID *string
	if r.SlotID != nil {
		s := r.SlotID.String()
		slotID = &s
	}

	return ReservationResponse{
		ID:             r.ID.String(),
		ReservationRef: r.ReservationRef,
		UserID:         r.UserID.String(),
		VenueID:        r.VenueID.String(),
		SlotID:         slotID,
		Vehicle:        r.Vehicle,
		StartTime:      r.StartTime,
		EndTime:        r.EndTime,
		Status:         string(r.Status),
		PaymentStatus:  string(r.PaymentStatus),
		TotalAmount:    r.TotalAmount,
		ConfirmedAt:    r.ConfirmedAt,
		CancelledAt:    r.CancelledAt,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}
