package analytics

import (
	"parkly/internal/shared/middleware"
	"parkly/internal/users"

	"github.com/gin-gonic/gin"
)

func SetupAnalyticsRoutes(rg *gin.RouterGroup, controller *Controller) {
	analytics := rg.Group("/analytics")
	analytics.Use(middleware.JWTAuth())

	venueGroup := analytics.Group("/venues/:id")
	venueGroup.Use(middleware.RequireRoles(string(users.RoleVenueOwner), string(users.RoleSuperAdmin)))
	{
		venueGroup.GET("/dashboard", controller.GetVenueDashboard)
		venueGroup.GET("/occupancy", controller.GetVenueOccupancy)
		venueGroup.GET("/revenue", controller.GetVenueRevenue)
		venueGroup.GET("/daily", controller.GetDailyStats)
	}

	platform := analytics.Group("/platform")
	platform.Use(middleware.RequireAdmin())
	{
		platform.GET("", controller.GetPlatformStats)
	}
}
