package ledger

import (
	"carzy/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupLedgerRoutes configures all ledger-related routes
func SetupLedgerRoutes(rg *gin.RouterGroup, controller *Controller) {
	ledger := rg.Group("/ledger")
	ledger.Use(middleware.JWTAuth())
	{
		// Claim workflows
		ledger.PUT("/claim-refund", controller.ClaimRefund)  // PUT /api/v1/ledger/claim-refund
		ledger.PUT("/claim-payout", controller.ClaimPayout)  // PUT /api/v1/ledger/claim-payout
		ledger.PUT("/pay-penalty", controller.PayPenalty)    // PUT /api/v1/ledger/pay-penalty

		// Per-user listings
		ledger.GET("/refunds/:user_id", controller.GetUserRefunds)
		ledger.GET("/penalties/:user_id", controller.GetUserPenalties)
		ledger.GET("/payments/:user_id", controller.GetUserPayments)
		ledger.GET("/coupons/:user_id", controller.GetUserCoupons)
		ledger.GET("/payouts/:user_id", controller.GetOwnerPayouts)
	}
}
