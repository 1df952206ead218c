package routes

import (
	"net/http"
	"time"

	"parkly/internal/analytics"
	"parkly/internal/auth"
	"parkly/internal/notifications"
	"parkly/internal/reservations"
	"parkly/internal/shared/config"
	"parkly/internal/shared/database"
	"parkly/internal/slots"
	"parkly/internal/vehicles"
	"parkly/internal/venues"
	"parkly/pkg/cache"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Router wires repositories, services and controllers together and owns
// the shared service instances other modules depend on.
type Router struct {
	config *config.Config
	db     *database.DB

	cacheService        cache.Service
	venueService        venues.Service
	reservationService  reservations.Service
	notificationService *notifications.Service
}

func NewRouter(cfg *config.Config, db *database.DB) *Router {
	return &Router{
		config: cfg,
		db:     db,
	}
}

// NotificationService exposes the notification pipeline so the server
// entrypoint can manage its lifecycle.
func (r *Router) NotificationService() *notifications.Service {
	return r.notificationService
}

// SetupRoutes configures all application routes.
func (r *Router) SetupRoutes(engine *gin.Engine) error {
	if r.db.Redis != nil {
		r.cacheService = cache.NewService(r.db.GetRedis())
	}

	r.setupHealthRoutes(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := engine.Group(r.config.GetAPIBasePath())
	{
		authRepo := r.setupAuthRoutes(api)
		r.setupVenueRoutes(api)
		r.setupReservationRoutes(api)

		if err := r.setupNotificationRoutes(api, authRepo); err != nil {
			return err
		}

		r.setupSlotRoutes(api)
		r.setupVehicleRoutes(api)
		r.setupAnalyticsRoutes(api)
	}

	return nil
}

func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "parkly-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "parkly-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) auth.Repository {
	authRepo := auth.NewRepository(r.db.GetPostgreSQL())
	authService := auth.NewService(authRepo, r.config)
	authController := auth.NewController(authService)
	authRouter := auth.NewRouter(authController)

	authRouter.SetupRoutes(rg)
	return authRepo
}

func (r *Router) setupVenueRoutes(rg *gin.RouterGroup) {
	venueRepo := venues.NewRepository(r.db.GetPostgreSQL())
	venueService := venues.NewService(venueRepo)
	if r.cacheService != nil {
		venueService.SetCacheService(r.cacheService)
	}

	r.venueService = venueService

	venueController := venues.NewController(venueService)
	venues.SetupVenueRoutes(rg, venueController)
}

func (r *Router) setupReservationRoutes(rg *gin.RouterGroup) {
	reservationRepo := reservations.NewRepository(r.db.GetPostgreSQL())
	reservationService := reservations.NewService(reservationRepo, r.venueService, r.config)
	if r.cacheService != nil {
		reservationService.SetCacheService(r.cacheService)
	}

	r.reservationService = reservationService

	reservationController := reservations.NewController(reservationService)
	reservations.SetupReservationRoutes(rg, reservationController)
}

func (r *Router) setupNotificationRoutes(rg *gin.RouterGroup, authRepo auth.Repository) error {
	userDirectory := auth.NewUserServiceAdapter(authRepo)

	notificationService, err := notifications.NewService(r.config, r.db.GetRedis(), userDirectory, r.venueService)
	if err != nil {
		return err
	}
	r.notificationService = notificationService

	// Capacity and lifecycle events flow from reservations to the
	// notification pipeline.
	r.reservationService.SetNotifier(notificationService)

	notificationController := notifications.NewController(notificationService)
	notifications.SetupNotificationRoutes(rg, notificationController)
	return nil
}

func (r *Router) setupSlotRoutes(rg *gin.RouterGroup) {
	slotRepo := slots.NewRepository(r.db.GetPostgreSQL())
	atomicOps := slots.NewAtomicRedisOperations(r.db.GetRedis())
	slotService := slots.NewService(slotRepo, r.venueService, atomicOps, r.config)
	if r.cacheService != nil {
		slotService.SetCacheService(r.cacheService)
	}

	slotController := slots.NewController(slotService)
	slots.SetupSlotRoutes(rg, slotController)
}

func (r *Router) setupVehicleRoutes(rg *gin.RouterGroup) {
	vehicleRepo := vehicles.NewRepository(r.db.GetPostgreSQL())
	vehicleService := vehicles.NewService(vehicleRepo)

	vehicleController := vehicles.NewController(vehicleService)
	vehicles.SetupVehicleRoutes(rg, vehicleController)
}

func (r *Router) setupAnalyticsRoutes(rg *gin.RouterGroup) {
	analyticsRepo := analytics.NewRepository(r.db.GetPostgreSQL())
	analyticsService := analytics.NewService(analyticsRepo, r.venueService)
	if r.cacheService != nil {
		analyticsService.SetCacheService(r.cacheService)
	}

	analyticsController := analytics.NewController(analyticsService)
	analytics.SetupAnalyticsRoutes(rg, analyticsController)
}
