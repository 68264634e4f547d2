package otp

import (
	"net/http"

	"carzy/internal/shared/apperr"
	"carzy/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Controller struct {
	service  Service
	validate *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{
		service:  service,
		validate: validator.New(),
	}
}

// SendRequest asks for a code to be delivered to a mobile number
type SendRequest struct {
	MobileNumber string `json:"mobile_number" validate:"required,len=10,numeric"`
}

// VerifyRequest submits the received code
type VerifyRequest struct {
	OTPID string `json:"otp_id" validate:"required,uuid"`
	OTP   string `json:"otp" validate:"required,len=4,numeric"`
}

// SendOTP handles POST /api/v1/otp/send
func (c *Controller) SendOTP(ctx *gin.Context) {
	var req SendRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validate.Struct(req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid mobile number", nil, err.Error())
		return
	}

	result, err := c.service.Issue(ctx.Request.Context(), req.MobileNumber)
	if err != nil {
		response.RespondJSON(ctx, "error", apperr.HTTPStatus(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "OTP sent successfully", result, nil)
}

// VerifyOTP handles POST /api/v1/otp/verify
func (c *Controller) VerifyOTP(ctx *gin.Context) {
	var req VerifyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validate.Struct(req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid OTP payload", nil, err.Error())
		return
	}

	otpID, _ := uuid.Parse(req.OTPID)
	if err := c.service.Verify(ctx.Request.Context(), otpID, req.OTP); err != nil {
		response.RespondJSON(ctx, "error", apperr.HTTPStatus(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "OTP verified successfully", nil, nil)
}
