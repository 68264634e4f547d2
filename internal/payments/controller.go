package payments

import (
	"net/http"

	"carzy/internal/shared/apperr"
	"carzy/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	gateway Gateway
}

func NewController(gateway Gateway) *Controller {
	return &Controller{gateway: gateway}
}

// VerificationRequest carries the gateway callback fields the client
// received after checkout.
type VerificationRequest struct {
	OrderID   string `json:"order_id" binding:"required"`
	PaymentID string `json:"payment_id" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

// CreateOrder handles POST /api/v1/payments/order
func (c *Controller) CreateOrder(ctx *gin.Context) {
	var req OrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	order, err := c.gateway.CreateOrder(ctx.Request.Context(), req)
	if err != nil {
		response.RespondJSON(ctx, "error", apperr.HTTPStatus(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Order created successfully", order, nil)
}

// VerifyPayment handles POST /api/v1/payments/verify
func (c *Controller) VerifyPayment(ctx *gin.Context) {
	var req VerificationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if !c.gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid payment signature", nil, nil)
		return
	}

	payment, err := c.gateway.FetchPayment(ctx.Request.Context(), req.PaymentID)
	if err != nil {
		response.RespondJSON(ctx, "error", apperr.HTTPStatus(err), err.Error(), nil, nil)
		return
	}

	if !payment.Captured() {
		response.RespondJSON(ctx, "error", http.StatusBadRequest,
			"Payment not successful. Status: "+payment.Status, nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Payment verified successfully", payment, nil)
}
