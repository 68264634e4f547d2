package cars

import (
	"carzy/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupCarRoutes configures car browsing routes. Browsing is public;
// auth, when present, only personalizes.
func SetupCarRoutes(rg *gin.RouterGroup, controller *Controller) {
	carsGroup := rg.Group("/cars")
	carsGroup.Use(middleware.OptionalAuth())
	{
		carsGroup.GET("/:car_id", controller.GetCar)
		carsGroup.GET("/:car_id/availability", controller.GetAvailability)
		carsGroup.GET("/:car_id/check-window", controller.CheckWindow)
	}
}
