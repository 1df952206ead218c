package notifications

import (
	"parkly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupNotificationRoutes(rg *gin.RouterGroup, controller *Controller) {
	alerts := rg.Group("/venues/:id/notify-me")
	alerts.Use(middleware.JWTAuth())
	{
		alerts.POST("", controller.SubscribeSpotAlert)
		alerts.DELETE("", controller.UnsubscribeSpotAlert)
	}
}
