// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"carzy/internal/bookings"
	"carzy/internal/cars"
	"carzy/internal/ledger"
	"carzy/internal/notifications"
	"carzy/internal/otp"
	"carzy/internal/payments"
	"carzy/internal/shared/config"
	"carzy/internal/shared/database"
	"carzy/pkg/locks"
	"carzy/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	gateway  payments.Gateway
	producer notifications.Producer
	locker   locks.Locker
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, gateway payments.Gateway, producer notifications.Producer, locker locks.Locker) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		gateway:  gateway,
		producer: producer,
		locker:   locker,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	// Prometheus scrape endpoint
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupOTPRoutes(api)
		r.setupCarRoutes(api)
		r.setupBookingRoutes(api)
		r.setupLedgerRoutes(api)
		r.setupPaymentRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "carzy-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "carzy-backend",
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

// setupOTPRoutes configures the login OTP channel
func (r *Router) setupOTPRoutes(rg *gin.RouterGroup) {
	otpRepo := otp.NewRepository(r.db.PostgreSQL)
	otpService := otp.NewService(otpRepo, r.producer, r.config.OTP.ExpiresIn)
	otpController := otp.NewController(otpService)

	otp.SetupOTPRoutes(rg, otpController)
}

// setupCarRoutes configures car browsing routes
func (r *Router) setupCarRoutes(rg *gin.RouterGroup) {
	carRepo := cars.NewRepository(r.db.PostgreSQL)
	carService := cars.NewService(carRepo)
	carController := cars.NewController(carService)

	cars.SetupCarRoutes(rg, carController)
}

// setupBookingRoutes configures the booking lifecycle routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookingRepo := bookings.NewRepository(r.db.PostgreSQL)
	carRepo := cars.NewRepository(r.db.PostgreSQL)
	bookingService := bookings.NewService(bookingRepo, carRepo, r.gateway, r.producer, r.locker, r.config, logger.GetDefault())
	bookingController := bookings.NewController(bookingService)

	bookings.SetupBookingRoutes(rg, bookingController)
}

// setupLedgerRoutes configures refund/payout/penalty claim routes
func (r *Router) setupLedgerRoutes(rg *gin.RouterGroup) {
	ledgerRepo := ledger.NewRepository(r.db.PostgreSQL)
	ledgerService := ledger.NewService(ledgerRepo)
	ledgerController := ledger.NewController(ledgerService)

	ledger.SetupLedgerRoutes(rg, ledgerController)
}

// setupPaymentRoutes configures gateway-facing payment routes
func (r *Router) setupPaymentRoutes(rg *gin.RouterGroup) {
	paymentController := payments.NewController(r.gateway)

	payments.SetupPaymentRoutes(rg, paymentController)
}
