package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"api_vehicle_sales/internal/vehicles"
)

// vehiclesHandler serves the cached vehicle listings.
type vehiclesHandler struct {
	vehicleService *vehicles.Service
	logger         *zap.Logger
}

// NewVehiclesHandler creates a new vehicles handler.
func NewVehiclesHandler(vehicleService *vehicles.Service, logger *zap.Logger) *vehiclesHandler {
	return &vehiclesHandler{
		vehicleService: vehicleService,
		logger:         logger,
	}
}

// handleListAvailable handles the GET /vehicles/available endpoint.
func (h *vehiclesHandler) handleListAvailable(ctx *gin.Context) {
	result, err := h.vehicleService.Available(ctx.Request.Context())
	if err != nil {
		h.logger.Error("failed to list available vehicles", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list vehicles"})
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// handleListSold handles the GET /vehicles/sold endpoint.
func (h *vehiclesHandler) handleListSold(ctx *gin.Context) {
	result, err := h.vehicleService.Sold(ctx.Request.Context())
	if err != nil {
		h.logger.Error("failed to list sold vehicles", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list vehicles"})
		return
	}
	ctx.JSON(http.StatusOK, result)
}
