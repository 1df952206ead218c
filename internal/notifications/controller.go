package notifications

import (
	"errors"
	"net/http"

	"parkly/internal/shared/utils/response"
	"parkly/internal/venues"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service *Service
}

func NewController(service *Service) *Controller {
	return &Controller{service: service}
}

func actorFromContext(ctx *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := ctx.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	actorID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		return uuid.Nil, false
	}
	return actorID, true
}

// SubscribeSpotAlert registers the caller for a one-shot email when the
// venue frees a parking spot.
func (c *Controller) SubscribeSpotAlert(ctx *gin.Context) {
	actorID, ok := actorFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	venueID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid venue ID", nil, err.Error())
		return
	}

	if err := c.service.SubscribeSpotAlert(ctx.Request.Context(), venueID, actorID); err != nil {
		if errors.Is(err, venues.ErrVenueNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Venue not found", nil, err.Error())
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to subscribe for spot alerts", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Subscribed for spot alerts", gin.H{
		"venue_id": venueID.String(),
	}, nil)
}

// UnsubscribeSpotAlert removes the caller's pending spot alert.
func (c *Controller) UnsubscribeSpotAlert(ctx *gin.Context) {
	actorID, ok := actorFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	venueID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid venue ID", nil, err.Error())
		return
	}

	if err := c.service.UnsubscribeSpotAlert(ctx.Request.Context(), venueID, actorID); err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to unsubscribe from spot alerts", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Unsubscribed from spot alerts", nil, nil)
}
