package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"api_vehicle_sales/internal/sales"
	"api_vehicle_sales/internal/storage"
	"api_vehicle_sales/internal/vehicles"
)

// Store is the combined persistence surface the service runs on. Both
// provided implementations (storage.LocalStorage, storage.MySQLStorage)
// satisfy it.
type Store interface {
	vehicles.Storage
	sales.Storage
}

// Config carries the dependencies InitRoutes assembles the service
// from. Zero values fall back to an in-memory store and a production
// logger.
type Config struct {
	AuthorityURL string // base URL of the vehicle inventory authority
	Store        Store
	Logger       *zap.Logger
}

// InitRoutes registers all sales, vehicle and webhook endpoints on the
// given Gin engine. It builds the remote client, services and handlers
// from the Config and binds each HTTP method and path to the
// appropriate handler function.
func InitRoutes(e *gin.Engine, cfg Config) {
	logger := cfg.Logger
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	store := cfg.Store
	if store == nil {
		store = storage.NewLocalStorage()
	}

	client := vehicles.NewClient(cfg.AuthorityURL, logger)
	vehicleService := vehicles.NewService(client, store, logger)
	salesService := sales.NewService(store, vehicleService, logger)

	salesHandler := NewSalesHandler(salesService, logger)
	vehiclesHandler := NewVehiclesHandler(vehicleService, logger)

	e.POST("/sales", salesHandler.handleCreateSale)
	e.GET("/sales", salesHandler.handleListSales)
	e.GET("/sales/:payment_code", salesHandler.handleGetSale)

	e.GET("/vehicles/available", vehiclesHandler.handleListAvailable)
	e.GET("/vehicles/sold", vehiclesHandler.handleListSold)

	e.POST("/webhook/payment", salesHandler.handlePaymentWebhook)

	e.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
}
