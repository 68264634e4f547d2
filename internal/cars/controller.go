package cars

import (
	"net/http"
	"time"

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

// GetCar handles GET /api/v1/cars/:car_id
func (c *Controller) GetCar(ctx *gin.Context) {
	carID, err := uuid.Parse(ctx.Param("car_id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid car ID", nil, nil)
		return
	}

	car, err := c.service.GetCar(ctx.Request.Context(), carID)
	if err != nil {
		response.RespondJSON(ctx, "error", apperr.HTTPStatus(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Car retrieved successfully", car, nil)
}

// GetAvailability handles GET /api/v1/cars/:car_id/availability
func (c *Controller) GetAvailability(ctx *gin.Context) {
	carID, err := uuid.Parse(ctx.Param("car_id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid car ID", nil, nil)
		return
	}

	windows, err := c.service.GetReservedWindows(ctx.Request.Context(), carID)
	if err != nil {
		response.RespondJSON(ctx, "error", apperr.HTTPStatus(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Reserved windows retrieved successfully", windows, nil)
}

// CheckWindow handles GET /api/v1/cars/:car_id/check-window?start=...&end=...
// Clients call this before collecting payment to surface clashes early;
// booking creation itself does not reject overlapping windows.
func (c *Controller) CheckWindow(ctx *gin.Context) {
	carID, err := uuid.Parse(ctx.Param("car_id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid car ID", nil, nil)
		return
	}

	start, err := time.Parse(time.RFC3339, ctx.Query("start"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid start datetime", nil, nil)
		return
	}
	end, err := time.Parse(time.RFC3339, ctx.Query("end"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid end datetime", nil, nil)
		return
	}
	if !end.After(start) {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "End must be after start", nil, nil)
		return
	}

	free, err := c.service.IsWindowFree(ctx.Request.Context(), carID, start, end)
	if err != nil {
		response.RespondJSON(ctx, "error", apperr.HTTPStatus(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Window availability checked", gin.H{"free": free}, nil)
}
