package venues

import (
	"parkly/internal/shared/middleware"
	"parkly/internal/users"

	"github.com/gin-gonic/gin"
)

func SetupVenueRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Public browsing routes
	public := rg.Group("/venues")
	{
		public.GET("", controller.GetVenues)
		public.GET("/:id", controller.GetVenue)
	}

	// Owner management routes
	owner := rg.Group("/venues")
	owner.Use(middleware.JWTAuth(), middleware.RequireRoles(
		string(users.RoleVenueOwner), string(users.RoleSuperAdmin)))
	{
		owner.POST("", controller.RegisterVenue)
		owner.GET("/mine", controller.GetMyVenues)
		owner.PUT("/:id", controller.UpdateVenue)
		owner.PATCH("/:id/status", controller.UpdateVenueStatus)
		owner.DELETE("/:id", controller.DeleteVenue)
	}
}
