package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"api_vehicle_sales/internal/sales"
	"api_vehicle_sales/internal/vehicles"
)

// salesHandler holds the sales service and implements HTTP handlers for
// sale creation, sale lookup and the payment webhook.
type salesHandler struct {
	salesService *sales.Service
	logger       *zap.Logger
}

// NewSalesHandler creates a new sales handler.
func NewSalesHandler(salesService *sales.Service, logger *zap.Logger) *salesHandler {
	return &salesHandler{
		salesService: salesService,
		logger:       logger,
	}
}

// handleCreateSale handles the POST /sales endpoint.
func (h *salesHandler) handleCreateSale(ctx *gin.Context) {
	var req struct {
		VehicleID int64  `json:"vehicle_id"`
		BuyerCPF  string `json:"buyer_cpf"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("failed to bind JSON request", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	sale, err := h.salesService.CreateSale(ctx.Request.Context(), req.VehicleID, req.BuyerCPF)
	if err != nil {
		h.logger.Warn("failed to create sale",
			zap.Int64("vehicle_id", req.VehicleID), zap.Error(err))
		switch {
		case errors.Is(err, sales.ErrInvalidCPF):
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, vehicles.ErrVehicleNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found on the authority"})
		case errors.Is(err, sales.ErrVehicleUnavailable):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "vehicle is not available for sale"})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create sale"})
		}
		return
	}

	ctx.JSON(http.StatusCreated, sale)
}

// handleListSales handles the GET /sales endpoint.
func (h *salesHandler) handleListSales(ctx *gin.Context) {
	result, err := h.salesService.Sales(ctx.Request.Context())
	if err != nil {
		h.logger.Error("failed to list sales", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list sales"})
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// handleGetSale handles the GET /sales/:payment_code endpoint.
func (h *salesHandler) handleGetSale(ctx *gin.Context) {
	paymentCode := ctx.Param("payment_code")

	sale, err := h.salesService.SaleByPaymentCode(ctx.Request.Context(), paymentCode)
	if err != nil {
		if errors.Is(err, sales.ErrSaleNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "sale not found"})
			return
		}
		h.logger.Error("failed to read sale", zap.String("payment_code", paymentCode), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read sale"})
		return
	}
	ctx.JSON(http.StatusOK, sale)
}

// handlePaymentWebhook handles the POST /webhook/payment endpoint. The
// payment processor calls it to report the outcome of a sale's payment.
func (h *salesHandler) handlePaymentWebhook(ctx *gin.Context) {
	var req struct {
		PaymentCode string `json:"payment_code"`
		Status      string `json:"status"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("failed to bind webhook payload", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	result, err := h.salesService.ProcessPaymentWebhook(
		ctx.Request.Context(), req.PaymentCode, sales.PaymentStatus(req.Status))
	if err != nil {
		var processed *sales.AlreadyProcessedError
		switch {
		case errors.Is(err, sales.ErrInvalidStatus):
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "status must be CONFIRMED or CANCELLED"})
		case errors.Is(err, sales.ErrSaleNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "payment code not found"})
		case errors.As(err, &processed):
			ctx.JSON(http.StatusBadRequest, gin.H{
				"error":          "payment already processed",
				"payment_code":   processed.PaymentCode,
				"payment_status": processed.Status,
			})
		default:
			h.logger.Error("failed to process payment webhook",
				zap.String("payment_code", req.PaymentCode), zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process webhook"})
		}
		return
	}

	ctx.JSON(http.StatusOK, result)
}
