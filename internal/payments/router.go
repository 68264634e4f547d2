package payments

import (
	"carzy/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupPaymentRoutes configures gateway-facing payment routes
func SetupPaymentRoutes(rg *gin.RouterGroup, controller *Controller) {
	paymentsGroup := rg.Group("/payments")
	paymentsGroup.Use(middleware.JWTAuth())
	{
		paymentsGroup.POST("/order", controller.CreateOrder)   // POST /api/v1/payments/order
		paymentsGroup.POST("/verify", controller.VerifyPayment) // POST /api/v1/payments/verify
	}
}
