package reservations

import "time"

type VehicleRequest struct {
	Type         string `json:"type" binding:"required,oneof=CAR MOTORCYCLE TRUCK"`
	LicensePlate string `json:"license_plate" binding:"required,min=2,max=20"`
	Make         string `json:"make" binding:"omitempty,max=50"`
	Model        string `json:"model" binding:"omitempty,max=50"`
}

type CreateReservationRequest struct {
	VenueID   string          `json:"venue_id" binding:"required,uuid"`
	SlotID    string          `json:"slot_id" binding:"omitempty,uuid"`
	StartTime time.Time       `json:"start_time" binding:"required"`
	EndTime   time.Time       `json:"end_time" binding:"required"`
	Vehicle   *VehicleRequest `json:"vehicle" binding:"required"`
}

type AvailabilityQuery struct {
	VenueID   string    `form:"venue_id" binding:"required,uuid"`
	StartTime time.Time `form:"start_time" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	EndTime   time.Time `form:"end_time" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
}

type ListQuery struct {
	Page   int        `form:"page" binding:"omitempty,min=1"`
	Limit  int        `form:"limit" binding:"omitempty,min=1,max=100"`
	Status string     `form:"status" binding:"omitempty,oneof=PENDING CONFIRMED ACTIVE COMPLETED CANCELLED"`
	From   *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To     *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
}
