package bookings

import (
	"carzy/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures all booking lifecycle routes
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller) {
	bookings := rg.Group("/bookings")
	bookings.Use(middleware.JWTAuth())
	{
		// Lifecycle
		bookings.POST("", controller.CreateBooking)                 // POST /api/v1/bookings
		bookings.PUT("/pickup", controller.ConfirmPickup)           // PUT /api/v1/bookings/pickup
		bookings.PUT("/drop", controller.ConfirmDrop)               // PUT /api/v1/bookings/drop
		bookings.PUT("/cancel", controller.CancelByUser)            // PUT /api/v1/bookings/cancel
		bookings.PUT("/cancel-by-owner", controller.CancelByOwner)  // PUT /api/v1/bookings/cancel-by-owner

		// Listings
		bookings.GET("/my-bookings/:user_id", controller.GetUserBookings)
		bookings.GET("/my-car-bookings/:owner_id", controller.GetOwnerBookings)
		bookings.GET("/:booking_id", controller.GetBooking)
	}
}
