package slots

import "time"

type SlotResponse struct {
	ID         string `json:"id"`
	VenueID    string `json:"venue_id"`
	SlotNumber string `json:"slot_number"`
	Floor      int    `json:"floor"`
	Type       string `json:"type"`
	Status     string `json:"status"`
	IsHeld     bool   `json:"is_held"`
}

type VenueSlotsResponse struct {
	VenueID    string         `json:"venue_id"`
	TotalSlots int            `json:"total_slots"`
	Slots      []SlotResponse `json:"slots"`
}

type SlotHoldResponse struct {
	HoldID    string    `json:"hold_id"`
	SlotID    string    `json:"slot_id"`
	VenueID   string    `json:"venue_id"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	TTL       int       `json:"ttl_seconds"`
}

type HoldValidationResponse struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
	SlotID string `json:"slot_id,omitempty"`
	TTL    int    `json:"ttl_seconds,omitempty"`
}

// ToResponse converts a ParkingSlot into its API representation with
// the hold overlay applied.
func (s *ParkingSlot) ToResponse(isHeld bool) SlotResponse {
	return SlotResponse{
		ID:         s.ID.String(),
		VenueID:    s.VenueID.String(),
		SlotNumber: s.SlotNumber,
		Floor:      s.Floor,
		Type:       string(s.Type),
		Status:     s.GetEffectiveStatus(isHeld),
		IsHeld:     isHeld,
	}
}
