package reservations

import (
	"parkly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupReservationRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Public availability checks
	rg.GET("/availability", controller.CheckAvailability)

	reservations := rg.Group("/reservations")
	reservations.Use(middleware.JWTAuth())
	{
		reservations.POST("", controller.CreateReservation)
		reservations.GET("/:id", controller.GetReservation)
		reservations.POST("/:id/confirm-payment", controller.ConfirmPayment)
		reservations.POST("/:id/activate", controller.Activate)
		reservations.POST("/:id/complete", controller.Complete)
		reservations.POST("/:id/cancel", controller.Cancel)
	}

	users := rg.Group("/users")
	users.Use(middleware.JWTAuth())
	{
		users.GET("/reservations", controller.GetMyReservations)
	}

	venues := rg.Group("/venues")
	venues.Use(middleware.JWTAuth())
	{
		venues.GET("/:id/reservations", controller.GetVenueReservations)
	}
}
