package slots

type CreateSlotItem struct {
	SlotNumber string `json:"slot_number" binding:"required,min=1,max=20"`
	Floor      int    `json:"floor" binding:"omitempty,min=-10,max=50"`
	Type       string `json:"type" binding:"required,oneof=CAR MOTORCYCLE TRUCK"`
}

type CreateSlotsRequest struct {
	Slots []CreateSlotItem `json:"slots" binding:"required,min=1,max=500,dive"`
}

type UpdateSlotRequest struct {
	SlotNumber *string `json:"slot_number" binding:"omitempty,min=1,max=20"`
	Floor      *int    `json:"floor" binding:"omitempty,min=-10,max=50"`
	Type       *string `json:"type" binding:"omitempty,oneof=CAR MOTORCYCLE TRUCK"`
	Status     *string `json:"status" binding:"omitempty,oneof=AVAILABLE OCCUPIED RESERVED MAINTENANCE"`
}

type HoldSlotRequest struct {
	SlotID string `json:"slot_id" binding:"required,uuid"`
}
