// cmd/api/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/your-org/restaurant-backend/internal/config"
	"github.com/your-org/restaurant-backend/internal/infrastructure/database/postgres"
	"github.com/your-org/restaurant-backend/internal/infrastructure/database/redis"
	httpserver "github.com/your-org/restaurant-backend/internal/interfaces/http"
	"github.com/your-org/restaurant-backend/internal/interfaces/http/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logger := middleware.NewLogger(cfg)

	db, err := postgres.NewConnection(cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	migration := postgres.NewMigration(db.GetDB())
	if err := migration.RunAutoMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}
	if err := migration.CreateIndexes(); err != nil {
		logger.WithError(err).Fatal("Failed to create database indexes")
	}
	if cfg.IsDevelopment() {
		if err := migration.SeedInitialData(); err != nil {
			logger.WithError(err).Fatal("Failed to seed initial data")
		}
	}

	redisClient, err := redis.NewConnection(cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redisClient.Close()

	server := httpserver.NewServer(cfg, db, redisClient, logger)

	go func() {
		if err := server.Start(); err != nil {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.Info("Server exited")
}
