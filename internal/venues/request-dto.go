package venues

type OperatingHoursRequest struct {
	Open  string `json:"open" binding:"omitempty,len=5"`
	Close string `json:"close" binding:"omitempty,len=5"`
}

type CreateVenueRequest struct {
	Name        string `json:"name" binding:"required,min=3,max=255"`
	Description string `json:"description" binding:"max=1000"`

	Address string `json:"address" binding:"required,max=500"`
	City    string `json:"city" binding:"required,max=100"`
	State   string `json:"state" binding:"max=100"`
	ZipCode string `json:"zip_code" binding:"max=20"`

	TotalSpots   int     `json:"total_spots" binding:"required,min=1,max=10000"`
	PricePerHour float64 `json:"price_per_hour" binding:"required,min=0"`

	OperatingHours *OperatingHoursRequest `json:"operating_hours"`
	Amenities      []string               `json:"amenities" binding:"omitempty,max=10"`
}

type UpdateVenueRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=3,max=255"`
	Description *string `json:"description" binding:"omitempty,max=1000"`

	Address *string `json:"address" binding:"omitempty,max=500"`
	City    *string `json:"city" binding:"omitempty,max=100"`
	State   *string `json:"state" binding:"omitempty,max=100"`
	ZipCode *string `json:"zip_code" binding:"omitempty,max=20"`

	TotalSpots   *int     `json:"total_spots" binding:"omitempty,min=1,max=10000"`
	PricePerHour *float64 `json:"price_per_hour" binding:"omitempty,min=0"`

	OperatingHours *OperatingHoursRequest `json:"operating_hours"`
	Amenities      []string               `json:"amenities" binding:"omitempty,max=10"`
}

type UpdateVenueStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=ACTIVE MAINTENANCE CLOSED"`
}
