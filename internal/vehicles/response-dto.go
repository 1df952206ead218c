package vehicles

import "time"

type VehicleResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Type         string    `json:"type"`
	LicensePlate string    `json:"license_plate"`
	Make         string    `json:"make,omitempty"`
	Model        string    `json:"model,omitempty"`
	Color        string    `json:"color,omitempty"`
	IsDefault    bool      `json:"is_default"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToResponse converts a Vehicle model into its API representation.
func (v *Vehicle) ToResponse() VehicleResponse {
	return VehicleResponse{
		ID:           v.ID.String(),
		UserID:       v.UserID.String(),
		Type:         string(v.Type),
		LicensePlate: v.LicensePlate,
		Make:         v.Make,
		Model:        v.Model,
		Color:        v.Color,
		IsDefault:    v.IsDefault,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}
