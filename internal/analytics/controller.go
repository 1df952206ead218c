package analytics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"parkly/internal/shared/utils/response"
	"parkly/internal/venues"

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

func analyticsErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, venues.ErrVenueNotFound):
		return http.StatusNotFound, "Venue not found"
	case errors.Is(err, ErrNotVenueOwner):
		return http.StatusForbidden, "Venue belongs to another owner"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func (c *Controller) GetVenueDashboard(ctx *gin.Context) {
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

	dashboard, err := c.service.GetVenueDashboard(ctx.Request.Context(), venueID, actorID, actorRole)
	if err != nil {
		status, msg := analyticsErrorStatus(err)
		response.RespondJSON(ctx, "error", status, msg, nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Venue dashboard retrieved successfully", dashboard, nil)
}

func (c *Controller) GetVenueOccupancy(ctx *gin.Context) {
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

	occupancy, err := c.service.GetVenueOccupancy(ctx.Request.Context(), venueID, actorID, actorRole)
	if err != nil {
		status, msg := analyticsErrorStatus(err)
		response.RespondJSON(ctx, "error", status, msg, nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Venue occupancy retrieved successfully", occupancy, nil)
}

func (c *Controller) GetVenueRevenue(ctx *gin.Context) {
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

	now := time.Now().UTC()
	from := now.AddDate(0, 0, -30)
	to := now

	if raw := ctx.Query("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid 'from' timestamp, expected RFC3339", nil, err.Error())
			return
		}
		from = parsed
	}
	if raw := ctx.Query("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid 'to' timestamp, expected RFC3339", nil, err.Error())
			return
		}
		to = parsed
	}
	if !from.Before(to) {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "'from' must be before 'to'", nil, nil)
		return
	}

	revenue, err := c.service.GetVenueRevenue(ctx.Request.Context(), venueID, actorID, actorRole, from, to)
	if err != nil {
		status, msg := analyticsErrorStatus(err)
		response.RespondJSON(ctx, "error", status, msg, nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Venue revenue retrieved successfully", revenue, nil)
}

func (c *Controller) GetDailyStats(ctx *gin.Context) {
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

	days, _ := strconv.Atoi(ctx.DefaultQuery("days", "30"))

	stats, err := c.service.GetDailyStats(ctx.Request.Context(), venueID, actorID, actorRole, days)
	if err != nil {
		status, msg := analyticsErrorStatus(err)
		response.RespondJSON(ctx, "error", status, msg, nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Daily reservation stats retrieved successfully", stats, nil)
}

func (c *Controller) GetPlatformStats(ctx *gin.Context) {
	stats, err := c.service.GetPlatformStats(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get platform stats", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Platform stats retrieved successfully", stats, nil)
}
