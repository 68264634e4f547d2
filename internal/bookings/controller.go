package bookings

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

// CreateBooking handles POST /api/v1/bookings
func (c *Controller) CreateBooking(ctx *gin.Context) {
	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	result, err := c.service.CreateBooking(ctx.Request.Context(), &req)
	if err != nil {
		response.RespondJSON(ctx, "error", apperr.HTTPStatus(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Booking created successfully", result, nil)
}

// ConfirmPickup handles PUT /api/v1/bookings/pickup
func (c *Controller) ConfirmPickup(ctx *gin.Context) {
	var req PickupConfirmationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	booking, err := c.service.ConfirmPickup(ctx.Request.Context(), &req)
	if err != nil {
		response.RespondJSON(ctx, "error", apperr.HTTPStatus(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Pickup confirmed successfully", booking, nil)
}

// ConfirmDrop handles PUT /api/v1/bookings/drop
func (c *Controller) ConfirmDrop(ctx *gin.Context) {
	var req DropConfirmationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	result, err := c.service.ConfirmDrop(ctx.Request.Context(), &req)
	if err != nil {
		response.RespondJSON(ctx, "error", apperr.HTTPStatus(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Drop confirmed successfully", result, nil)
}

// CancelByUser handles PUT /api/v1/bookings/cancel
func (c *Controller) CancelByUser(ctx *gin.Context) {
	var req CancellationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	result, err := c.service.CancelByUser(ctx.Request.Context(), &req)
	if err != nil {
		response.RespondJSON(ctx, "error", apperr.HTTPStatus(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking cancelled successfully", result, nil)
}

// CancelByOwner handles PUT /api/v1/bookings/cancel-by-owner
func (c *Controller) CancelByOwner(ctx *gin.Context) {
	var req OwnerCancellationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	result, err := c.service.CancelByOwner(ctx.Request.Context(), &req)
	if err != nil {
		response.RespondJSON(ctx, "error", apperr.HTTPStatus(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking cancelled successfully", result, nil)
}

// GetBooking handles GET /api/v1/bookings/:booking_id
func (c *Controller) GetBooking(ctx *gin.Context) {
	bookingID, err := uuid.Parse(ctx.Param("booking_id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, nil)
		return
	}

	booking, err := c.service.GetBooking(ctx.Request.Context(), bookingID)
	if err != nil {
		response.RespondJSON(ctx, "error", apperr.HTTPStatus(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking retrieved successfully", booking, nil)
}

// GetUserBookings handles GET /api/v1/bookings/my-bookings/:user_id
func (c *Controller) GetUserBookings(ctx *gin.Context) {
	userID, err := uuid.Parse(ctx.Param("user_id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid user ID", nil, nil)
		return
	}

	bookings, err := c.service.ListUserBookings(ctx.Request.Context(), userID)
	if err != nil {
		response.RespondJSON(ctx, "error", apperr.HTTPStatus(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved successfully", bookings, nil)
}

// GetOwnerBookings handles GET /api/v1/bookings/my-car-bookings/:owner_id
func (c *Controller) GetOwnerBookings(ctx *gin.Context) {
	ownerID, err := uuid.Parse(ctx.Param("owner_id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid owner ID", nil, nil)
		return
	}

	bookings, err := c.service.ListOwnerBookings(ctx.Request.Context(), ownerID)
	if err != nil {
		response.RespondJSON(ctx, "error", apperr.HTTPStatus(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved successfully", bookings, nil)
}
