package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"api_vehicle_sales/api"
	"api_vehicle_sales/internal/storage"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Errorf("error building logger: %v", err))
	}
	defer logger.Sync()

	addr := getEnv("ADDR", ":8081")
	authorityURL := getEnv("VEHICLE_SERVICE_URL", "http://localhost:8080")

	var store api.Store
	if dsn := os.Getenv("MYSQL_DSN"); dsn != "" {
		db, err := sql.Open("mysql", dsn)
		if err != nil {
			logger.Fatal("failed to open mysql", zap.Error(err))
		}
		db.SetMaxOpenConns(50)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			logger.Fatal("failed to ping mysql", zap.Error(err))
		}

		mysqlStore := storage.NewMySQLStorage(db)
		if err := mysqlStore.EnsureSchema(ctx); err != nil {
			logger.Fatal("failed to ensure schema", zap.Error(err))
		}
		store = mysqlStore
		logger.Info("using mysql store")
	} else {
		logger.Info("no MYSQL_DSN set, using in-memory store")
	}

	r := gin.Default()
	api.InitRoutes(r, api.Config{
		AuthorityURL: authorityURL,
		Store:        store,
		Logger:       logger,
	})

	if err := r.Run(addr); err != nil {
		panic(fmt.Errorf("error trying to start server: %v", err))
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
