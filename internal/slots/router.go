package slots

import (
	"parkly/internal/shared/middleware"
	"parkly/internal/users"

	"github.com/gin-gonic/gin"
)

func SetupSlotRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Public slot browsing
	venues := rg.Group("/venues")
	{
		venues.GET("/:id/slots", controller.GetVenueSlots)
	}

	// Owner slot management
	ownerVenues := rg.Group("/venues")
	ownerVenues.Use(middleware.JWTAuth(), middleware.RequireRoles(
		string(users.RoleVenueOwner), string(users.RoleSuperAdmin)))
	{
		ownerVenues.POST("/:id/slots", controller.CreateSlots)
	}

	slots := rg.Group("/slots")
	slots.Use(middleware.JWTAuth())
	{
		slots.GET("/:id", controller.GetSlot)

		// Core slot holding endpoints (reservation flow)
		slots.POST("/hold", controller.HoldSlot)
		slots.DELETE("/hold/:holdId", controller.ReleaseHold)
		slots.GET("/hold/:holdId/validate", controller.ValidateHold)
	}

	ownerSlots := rg.Group("/slots")
	ownerSlots.Use(middleware.JWTAuth(), middleware.RequireRoles(
		string(users.RoleVenueOwner), string(users.RoleSuperAdmin)))
	{
		ownerSlots.PUT("/:id", controller.UpdateSlot)
		ownerSlots.DELETE("/:id", controller.DeleteSlot)
	}

	userHolds := rg.Group("/users")
	userHolds.Use(middleware.JWTAuth())
	{
		userHolds.GET("/holds", controller.GetMyHolds)
	}
}
