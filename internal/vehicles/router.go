package vehicles

import (
	"parkly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupVehicleRoutes(rg *gin.RouterGroup, controller *Controller) {
	vehicles := rg.Group("/vehicles")
	vehicles.Use(middleware.JWTAuth())
	{
		vehicles.POST("", controller.AddVehicle)
		vehicles.GET("", controller.GetMyVehicles)
		vehicles.GET("/:id", controller.GetVehicle)
		vehicles.PUT("/:id", controller.UpdateVehicle)
		vehicles.DELETE("/:id", controller.DeleteVehicle)
	}
}
