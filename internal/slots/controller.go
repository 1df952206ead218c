package slots

import (
	"errors"
	"net/http"

	"parkly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func actorFromContext(ctx *gin.Context) (uuid.UUID, string, bool) {
	userIDStr, exists := ctx.Get("user_id")
	if !exists {
		return uuid.Nil, "", false
	}
	actorID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		return uuid.Nil, "", false
	}
	role, _ := ctx.Get("user_role")
	roleStr, _ := role.(string)
	return actorID, roleStr, true
}

func slotErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ErrSlotNotFound):
		return http.StatusNotFound, "Parking slot not found"
	case errors.Is(err, ErrHoldNotFound):
		return http.StatusNotFound, "Hold not found or expired"
	case errors.Is(err, ErrSlotHeld):
		return http.StatusConflict, "Parking slot is already held"
	case errors.Is(err, ErrSlotNotUsable):
		return http.StatusConflict, "Parking slot is not available"
	case errors.Is(err, ErrNotHoldOwner):
		return http.StatusForbidden, "Hold belongs to another user"
	case errors.Is(err, ErrNotVenueOwner):
		return http.StatusForbidden, "You do not manage this venue"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func (c *Controller) CreateSlots(ctx *gin.Context) {
	actorID, actorRole, ok := actorFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	venueID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid venue ID", nil, err.Error())
		return
	}

	var req CreateSlotsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	result, err := c.service.CreateSlots(ctx.Request.Context(), venueID, actorID, actorRole, req)
	if err != nil {
		status, msg := slotErrorStatus(err)
		response.RespondJSON(ctx, "error", status, msg, nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Slots created successfully", result, nil)
}

func (c *Controller) GetVenueSlots(ctx *gin.Context) {
	venueID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid venue ID", nil, err.Error())
		return
	}

	result, err := c.service.GetVenueSlots(ctx.Request.Context(), venueID)
	if err != nil {
		status, msg := slotErrorStatus(err)
		response.RespondJSON(ctx, "error", status, msg, nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Slots retrieved successfully", result, nil)
}

func (c *Controller) GetSlot(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid slot ID", nil, err.Error())
		return
	}

	slot, err := c.service.GetSlot(ctx.Request.Context(), id)
	if err != nil {
		status, msg := slotErrorStatus(err)
		response.RespondJSON(ctx, "error", status, msg, nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Slot retrieved successfully", slot, nil)
}

func (c *Controller) UpdateSlot(ctx *gin.Context) {
	actorID, actorRole, ok := actorFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid slot ID", nil, err.Error())
		return
	}

	var req UpdateSlotRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	slot, err := c.service.UpdateSlot(ctx.Request.Context(), id, actorID, actorRole, req)
	if err != nil {
		status, msg := slotErrorStatus(err)
		response.RespondJSON(ctx, "error", status, msg, nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Slot updated successfully", slot, nil)
}

func (c *Controller) DeleteSlot(ctx *gin.Context) {
	actorID, actorRole, ok := actorFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid slot ID", nil, err.Error())
		return
	}

	if err := c.service.DeleteSlot(ctx.Request.Context(), id, actorID, actorRole); err != nil {
		status, msg := slotErrorStatus(err)
		response.RespondJSON(ctx, "error", status, msg, nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Slot deleted successfully", nil, nil)
}

func (c *Controller) HoldSlot(ctx *gin.Context) {
	actorID, _, ok := actorFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var req HoldSlotRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	hold, err := c.service.HoldSlot(ctx.Request.Context(), actorID, req)
	if err != nil {
		status, msg := slotErrorStatus(err)
		response.RespondJSON(ctx, "error", status, msg, nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Slot held successfully", hold, nil)
}

func (c *Controller) ReleaseHold(ctx *gin.Context) {
	actorID, actorRole, ok := actorFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	holdID := ctx.Param("holdId")
	if holdID == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Hold ID is required", nil, nil)
		return
	}

	if err := c.service.ReleaseHold(ctx.Request.Context(), actorID, actorRole, holdID); err != nil {
		status, msg := slotErrorStatus(err)
		response.RespondJSON(ctx, "error", status, msg, nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Hold released successfully", nil, nil)
}

func (c *Controller) ValidateHold(ctx *gin.Context) {
	actorID, _, ok := actorFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	holdID := ctx.Param("holdId")
	if holdID == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Hold ID is required", nil, nil)
		return
	}

	result, err := c.service.ValidateHold(ctx.Request.Context(), actorID, holdID)
	if err != nil {
		status, msg := slotErrorStatus(err)
		response.RespondJSON(ctx, "error", status, msg, nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Hold validated", result, nil)
}

func (c *Controller) GetMyHolds(ctx *gin.Context) {
	actorID, _, ok := actorFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	holds, err := c.service.GetUserHolds(ctx.Request.Context(), actorID)
	if err != nil {
		status, msg := slotErrorStatus(err)
		response.RespondJSON(ctx, "error", status, msg, nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Holds retrieved successfully", holds, nil)
}
