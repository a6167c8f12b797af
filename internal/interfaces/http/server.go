// internal/interfaces/http/server.go
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/restaurant-backend/internal/config"
	"github.com/your-org/restaurant-backend/internal/infrastructure/database/postgres"
	"github.com/your-org/restaurant-backend/internal/infrastructure/database/redis"
	"github.com/your-org/restaurant-backend/internal/interfaces/http/middleware"
	"github.com/your-org/restaurant-backend/internal/interfaces/http/routes"
)

// Server represents the HTTP server
type Server struct {
	config *config.Config
	db     *postgres.Database
	redis  *redis.Client
	logger *logrus.Logger
	router *gin.Engine
	server *http.Server
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, db *postgres.Database, redisClient *redis.Client, logger *logrus.Logger) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	s := &Server{
		config: cfg,
		db:     db,
		redis:  redisClient,
		logger: logger,
		router: router,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s
}

// setupMiddleware configures the middleware chain
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.SecurityHeaders())
	s.router.Use(middleware.CORS(s.config))
	s.router.Use(middleware.RequestSizeLimit(1 << 20)) // 1 MiB
	s.router.Use(middleware.Timeout(s.config.Server.WriteTimeout))
	s.router.Use(middleware.RateLimit(s.redis.GetClient(), s.config.Security.RateLimitPerMinute, time.Minute))

	if len(s.config.Security.TrustedProxies) > 0 {
		if err := s.router.SetTrustedProxies(s.config.Security.TrustedProxies); err != nil {
			s.logger.WithError(err).Warn("failed to set trusted proxies")
		}
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/ready", s.readinessCheck)

	routes.Setup(s.router, s.config, s.db.GetDB(), s.redis.GetClient(), s.logger)
}

// healthCheck reports liveness
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": s.config.App.Name,
		"version": s.config.App.Version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// readinessCheck reports readiness of downstream dependencies
func (s *Server) readinessCheck(c *gin.Context) {
	checks := gin.H{}
	healthy := true

	if err := s.db.Health(); err != nil {
		checks["database"] = "unhealthy"
		healthy = false
	} else {
		checks["database"] = "healthy"
	}

	if err := s.redis.Health(); err != nil {
		checks["redis"] = "unhealthy"
		healthy = false
	} else {
		checks["redis"] = "healthy"
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status": checks,
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.WithFields(logrus.Fields{
		"port":        s.config.Server.Port,
		"environment": s.config.App.Environment,
	}).Info("Starting HTTP server")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
