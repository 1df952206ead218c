package vehicles

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

func vehicleErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ErrVehicleNotFound):
		return http.StatusNotFound, "Vehicle not found"
	case errors.Is(err, ErrPlateTaken):
		return http.StatusConflict, "License plate is already registered"
	case errors.Is(err, ErrNotVehicleOwner):
		return http.StatusForbidden, "Vehicle belongs to another user"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func (c *Controller) AddVehicle(ctx *gin.Context) {
	actorID, _, ok := actorFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var req CreateVehicleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	vehicle, err := c.service.AddVehicle(ctx.Request.Context(), actorID, req)
	if err != nil {
		status, msg := vehicleErrorStatus(err)
		response.RespondJSON(ctx, "error", status, msg, nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Vehicle added successfully", vehicle, nil)
}

func (c *Controller) GetMyVehicles(ctx *gin.Context) {
	actorID, _, ok := actorFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	vehicles, err := c.service.GetUserVehicles(ctx.Request.Context(), actorID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get vehicles", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Vehicles retrieved successfully", vehicles, nil)
}

func (c *Controller) GetVehicle(ctx *gin.Context) {
	actorID, actorRole, ok := actorFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid vehicle ID", nil, err.Error())
		return
	}

	vehicle, err := c.service.GetVehicleByID(ctx.Request.Context(), id, actorID, actorRole)
	if err != nil {
		status, msg := vehicleErrorStatus(err)
		response.RespondJSON(ctx, "error", status, msg, nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Vehicle retrieved successfully", vehicle, nil)
}

func (c *Controller) UpdateVehicle(ctx *gin.Context) {
	actorID, actorRole, ok := actorFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid vehicle ID", nil, err.Error())
		return
	}

	var req UpdateVehicleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	vehicle, err := c.service.UpdateVehicle(ctx.Request.Context(), id, actorID, actorRole, req)
	if err != nil {
		status, msg := vehicleErrorStatus(err)
		response.RespondJSON(ctx, "error", status, msg, nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Vehicle updated successfully", vehicle, nil)
}

func (c *Controller) DeleteVehicle(ctx *gin.Context) {
	actorID, actorRole, ok := actorFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid vehicle ID", nil, err.Error())
		return
	}

	if err := c.service.DeleteVehicle(ctx.Request.Context(), id, actorID, actorRole); err != nil {
		status, msg := vehicleErrorStatus(err)
		response.RespondJSON(ctx, "error", status, msg, nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Vehicle deleted successfully", nil, nil)
}
