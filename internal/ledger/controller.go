package ledger

import (
	"net/http"

	"carzy/internal/shared/apperr"
	"carzy/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// RefundClaimRequest represents a refund claim payload
type RefundClaimRequest struct {
	RefundID string `json:"refund_id" binding:"required,uuid"`
	UPIID    string `json:"upi_id" binding:"required"`
}

// PayoutClaimRequest represents a payout claim payload
type PayoutClaimRequest struct {
	PayoutID string `json:"payout_id" binding:"required,uuid"`
	UPIID    string `json:"upi_id" binding:"required"`
}

// PenaltyPaymentRequest represents a penalty payment confirmation payload
type PenaltyPaymentRequest struct {
	PenaltyID        string `json:"penalty_id" binding:"required,uuid"`
	GatewayPaymentID string `json:"gateway_payment_id" binding:"required"`
}

// ClaimRefund handles PUT /api/v1/ledger/claim-refund
func (c *Controller) ClaimRefund(ctx *gin.Context) {
	var req RefundClaimRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	refundID, _ := uuid.Parse(req.RefundID)
	refund, err := c.service.ClaimRefund(ctx.Request.Context(), refundID, req.UPIID)
	if err != nil {
		response.RespondJSON(ctx, "error", apperr.HTTPStatus(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Refund in process", refund, nil)
}

// ClaimPayout handles PUT /api/v1/ledger/claim-payout
func (c *Controller) ClaimPayout(ctx *gin.Context) {
	var req PayoutClaimRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	payoutID, _ := uuid.Parse(req.PayoutID)
	payout, err := c.service.ClaimPayout(ctx.Request.Context(), payoutID, req.UPIID)
	if err != nil {
		response.RespondJSON(ctx, "error", apperr.HTTPStatus(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Payout in process", payout, nil)
}

// PayPenalty handles PUT /api/v1/ledger/pay-penalty
func (c *Controller) PayPenalty(ctx *gin.Context) {
	var req PenaltyPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	penaltyID, _ := uuid.Parse(req.PenaltyID)
	penalty, err := c.service.MarkPenaltyPaid(ctx.Request.Context(), penaltyID, req.GatewayPaymentID)
	if err != nil {
		response.RespondJSON(ctx, "error", apperr.HTTPStatus(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Penalty payment updated successfully", penalty, nil)
}

// GetUserRefunds handles GET /api/v1/ledger/refunds/:user_id
func (c *Controller) GetUserRefunds(ctx *gin.Context) {
	c.listForUser(ctx, func(userID uuid.UUID) (interface{}, error) {
		return c.service.GetUserRefunds(ctx.Request.Context(), userID)
	})
}

// GetUserPenalties handles GET /api/v1/ledger/penalties/:user_id
func (c *Controller) GetUserPenalties(ctx *gin.Context) {
	c.listForUser(ctx, func(userID uuid.UUID) (interface{}, error) {
		return c.service.GetUserPenalties(ctx.Request.Context(), userID)
	})
}

// GetUserPayments handles GET /api/v1/ledger/payments/:user_id
func (c *Controller) GetUserPayments(ctx *gin.Context) {
	c.listForUser(ctx, func(userID uuid.UUID) (interface{}, error) {
		return c.service.GetUserPayments(ctx.Request.Context(), userID)
	})
}

// GetUserCoupons handles GET /api/v1/ledger/coupons/:user_id
func (c *Controller) GetUserCoupons(ctx *gin.Context) {
	c.listForUser(ctx, func(userID uuid.UUID) (interface{}, error) {
		return c.service.GetUserCoupons(ctx.Request.Context(), userID)
	})
}

// GetOwnerPayouts handles GET /api/v1/ledger/payouts/:user_id
func (c *Controller) GetOwnerPayouts(ctx *gin.Context) {
	c.listForUser(ctx, func(userID uuid.UUID) (interface{}, error) {
		return c.service.GetOwnerPayouts(ctx.Request.Context(), userID)
	})
}

func (c *Controller) listForUser(ctx *gin.Context, fetch func(uuid.UUID) (interface{}, error)) {
	userID, err := uuid.Parse(ctx.Param("user_id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid user ID", nil, nil)
		return
	}

	data, err := fetch(userID)
	if err != nil {
		response.RespondJSON(ctx, "error", apperr.HTTPStatus(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Records retrieved successfully", data, nil)
}
