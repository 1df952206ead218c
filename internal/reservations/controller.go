package reservations

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

func reservationErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ErrReservationNotFound):
		return http.StatusNotFound, "Reservation not found"
	case errors.Is(err, ErrVenueNotFound):
		return http.StatusNotFound, "Venue not found"
	case errors.Is(err, ErrVenueNotReservable):
		return http.StatusConflict, "Venue is not accepting reservations"
	case errors.Is(err, ErrInvalidInterval):
		return http.StatusBadRequest, "Invalid reservation interval"
	case errors.Is(err, ErrVehicleRequired):
		return http.StatusBadRequest, "Vehicle details are required"
	case errors.Is(err, ErrCapacityExceeded):
		return http.StatusConflict, "No spots available for the requested window"
	case errors.Is(err, ErrInvalidTransition):
		return http.StatusConflict, "Reservation cannot move to the requested state"
	case errors.Is(err, ErrTransactionConflict):
		return http.StatusServiceUnavailable, "Reservation conflicted with concurrent traffic, please retry"
	case errors.Is(err, ErrNotReservationOwner):
		return http.StatusForbidden, "You do not have access to this reservation"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func (c *Controller) CreateReservation(ctx *gin.Context) {
	actorID, _, ok := actorFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var req CreateReservationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	reservation, err := c.service.CreateReservation(ctx.Request.Context(), actorID, req)
	if err != nil {
		status, msg := reservationErrorStatus(err)
		response.RespondJSON(ctx, "error", status, msg, nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Reservation created successfully", reservation, nil)
}

func (c *Controller) CheckAvailability(ctx *gin.Context) {
	var query AvailabilityQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	venueID, err := uuid.Parse(query.VenueID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid venue ID", nil, err.Error())
		return
	}

	availability, err := c.service.CheckAvailability(ctx.Request.Context(), venueID, query.StartTime, query.EndTime)
	if err != nil {
		status, msg := reservationErrorStatus(err)
		response.RespondJSON(ctx, "error", status, msg, nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Availability checked successfully", availability, nil)
}

func (c *Controller) GetReservation(ctx *gin.Context) {
	actorID, actorRole, ok := actorFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid reservation ID", nil, err.Error())
		return
	}

	reservation, err := c.service.GetReservationByID(ctx.Request.Context(), id, actorID, actorRole)
	if err != nil {
		status, msg := reservationErrorStatus(err)
		response.RespondJSON(ctx, "error", status, msg, nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Reservation retrieved successfully", reservation, nil)
}

func (c *Controller) GetMyReservations(ctx *gin.Context) {
	actorID, _, ok := actorFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var query ListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	result, err := c.service.GetUserReservations(ctx.Request.Context(), actorID, query)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get reservations", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Reservations retrieved successfully", result, nil)
}

func (c *Controller) GetVenueReservations(ctx *gin.Context) {
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

	var query ListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	result, err := c.service.GetVenueReservations(ctx.Request.Context(), venueID, actorID, actorRole, query)
	if err != nil {
		status, msg := reservationErrorStatus(err)
		response.RespondJSON(ctx, "error", status, msg, nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Reservations retrieved successfully", result, nil)
}

func (c *Controller) transition(ctx *gin.Context, successMsg string,
	op func(actorID uuid.UUID, actorRole string, id uuid.UUID) (*ReservationResponse, error)) {

	actorID, actorRole, ok := actorFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid reservation ID", nil, err.Error())
		return
	}

	reservation, err := op(actorID, actorRole, id)
	if err != nil {
		status, msg := reservationErrorStatus(err)
		response.RespondJSON(ctx, "error", status, msg, nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, successMsg, reservation, nil)
}

func (c *Controller) ConfirmPayment(ctx *gin.Context) {
	c.transition(ctx, "Payment confirmed successfully",
		func(actorID uuid.UUID, actorRole string, id uuid.UUID) (*ReservationResponse, error) {
			return c.service.ConfirmPayment(ctx.Request.Context(), id, actorID, actorRole)
		})
}

func (c *Controller) Activate(ctx *gin.Context) {
	c.transition(ctx, "Reservation activated successfully",
		func(actorID uuid.UUID, actorRole string, id uuid.UUID) (*ReservationResponse, error) {
			return c.service.Activate(ctx.Request.Context(), id, actorID, actorRole)
		})
}

func (c *Controller) Complete(ctx *gin.Context) {
	c.transition(ctx, "Reservation completed successfully",
		func(actorID uuid.UUID, actorRole string, id uuid.UUID) (*ReservationResponse, error) {
			return c.service.Complete(ctx.Request.Context(), id, actorID, actorRole)
		})
}

func (c *Controller) Cancel(ctx *gin.Context) {
	c.transition(ctx, "Reservation cancelled successfully",
		func(actorID uuid.UUID, actorRole string, id uuid.UUID) (*ReservationResponse, error) {
			return c.service.Cancel(ctx.Request.Context(), id, actorID, actorRole)
		})
}
