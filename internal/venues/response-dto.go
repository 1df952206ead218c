package venues

import "time"

type VenueResponse struct {
	ID          string `json:"id"`
	OwnerID     string `json:"owner_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zip_code,omitempty"`

	TotalSpots     int     `json:"total_spots"`
	AvailableSpots int     `json:"available_spots"`
	ReservedSpots  int     `json:"reserved_spots"`
	PricePerHour   float64 `json:"price_per_hour"`

	OperatingHours OperatingHours `json:"operating_hours"`
	Amenities      []string       `json:"amenities"`
	Status         string         `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PaginatedVenuesResponse struct {
	Venues     []VenueResponse `json:"venues"`
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

// ToResponse converts a Venue model into its API representation.
func (v *Venue) ToResponse() VenueResponse {
	amenities := v.Amenities
	if amenities == nil {
		amenities = []string{}
	}

	return VenueResponse{
		ID:             v.ID.String(),
		OwnerID:        v.OwnerID.String(),
		Name:           v.Name,
		Description:    v.Description,
		Address:        v.Address,
		City:           v.City,
		State:          v.State,
		ZipCode:        v.ZipCode,
		TotalSpots:     v.TotalSpots,
		AvailableSpots: v.AvailableSpots,
		ReservedSpots:  v.ReservedSpots(),
		PricePerHour:   v.PricePerHour,
		OperatingHours: v.OperatingHours,
		Amenities:      amenities,
		Status:         string(v.Status),
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
	}
}
