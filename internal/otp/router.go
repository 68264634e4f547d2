package otp

import (
	"github.com/gin-gonic/gin"
)

// SetupOTPRoutes configures login OTP routes. These are unauthenticated:
// OTP delivery is how a session begins.
func SetupOTPRoutes(rg *gin.RouterGroup, controller *Controller) {
	otpGroup := rg.Group("/otp")
	{
		otpGroup.POST("/send", controller.SendOTP)     // POST /api/v1/otp/send
		otpGroup.POST("/verify", controller.VerifyOTP) // POST /api/v1/otp/verify
	}
}
