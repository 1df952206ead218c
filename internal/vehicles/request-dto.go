package vehicles

type CreateVehicleRequest struct {
	Type         string `json:"type" binding:"required,oneof=CAR MOTORCYCLE TRUCK"`
	LicensePlate string `json:"license_plate" binding:"required,min=2,max=20"`
	Make         string `json:"make" binding:"omitempty,max=50"`
	Model        string `json:"model" binding:"omitempty,max=50"`
	Color        string `json:"color" binding:"omitempty,max=30"`
	IsDefault    bool   `json:"is_default"`
}

type UpdateVehicleRequest struct {
	Type      *string `json:"type" binding:"omitempty,oneof=CAR MOTORCYCLE TRUCK"`
	Make      *string `json:"make" binding:"omitempty,max=50"`
	Model     *string `json:"model" binding:"omitempty,max=50"`
	Color     *string `json:"color" binding:"omitempty,max=30"`
	IsDefault *bool   `json:"is_default"`
}
