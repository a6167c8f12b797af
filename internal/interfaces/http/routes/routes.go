// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/restaurant-backend/internal/config"
	"github.com/your-org/restaurant-backend/internal/domain/feature"
	"github.com/your-org/restaurant-backend/internal/domain/inventory"
	"github.com/your-org/restaurant-backend/internal/domain/menu"
	"github.com/your-org/restaurant-backend/internal/domain/ordering"
	"github.com/your-org/restaurant-backend/internal/domain/tenant"
	"github.com/your-org/restaurant-backend/internal/domain/user"
	"github.com/your-org/restaurant-backend/internal/interfaces/http/handlers"
	"github.com/your-org/restaurant-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// Setup wires services, handlers and routes
func Setup(router *gin.Engine, cfg *config.Config, db *gorm.DB, redisClient *goredis.Client, logger *logrus.Logger) {
	// Services
	userService := user.NewService(db, cfg)
	tenantService := tenant.NewService(db, cfg)
	menuService := menu.NewService(db, cfg)
	featureService := feature.NewService(db, cfg, redisClient, logger)
	inventoryService := inventory.NewService(db, cfg)
	orderService := ordering.NewService(db, cfg, inventoryService, featureService, logger)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	tenantHandler := handlers.NewTenantHandler(tenantService, featureService)
	menuHandler := handlers.NewMenuHandler(menuService)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService)
	orderHandler := handlers.NewOrderHandler(orderService)

	v1 := router.Group("/api/v1")

	// Public authentication routes
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)
	}

	// Authenticated profile routes
	profile := v1.Group("/auth")
	profile.Use(middleware.AuthMiddleware(cfg))
	{
		profile.GET("/profile", authHandler.GetProfile)
		profile.PUT("/profile", authHandler.UpdateProfile)
	}

	// Administrative tenancy routes
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg))
	admin.Use(middleware.AdminMiddleware())
	{
		admin.POST("/franchises", tenantHandler.CreateFranchise)
		admin.GET("/franchises", tenantHandler.ListFranchises)
		admin.GET("/franchises/:slug", tenantHandler.GetFranchise)
		admin.GET("/franchises/:slug/outlets", tenantHandler.ListOutlets)
		admin.POST("/outlets", tenantHandler.CreateOutlet)

		admin.POST("/features", tenantHandler.CreateFeature)
		admin.GET("/features", tenantHandler.ListFeatures)
		admin.POST("/outlets/:slug/features", tenantHandler.GrantFeature)
		admin.DELETE("/outlets/:slug/features/:code", tenantHandler.RevokeFeature)
	}

	// Outlet-scoped routes: the tenant middleware resolves the :outlet
	// path segment before any handler runs.
	outlet := v1.Group("/:outlet")
	outlet.Use(middleware.AuthMiddleware(cfg))
	outlet.Use(middleware.ResolveOutlet(tenantService))
	{
		// Menu catalog
		outlet.GET("/menu/categories", menuHandler.ListCategories)
		outlet.POST("/menu/categories", menuHandler.CreateCategory)
		outlet.GET("/menu/items", menuHandler.ListItems)
		outlet.POST("/menu/items", menuHandler.CreateItem)
		outlet.GET("/menu/items/:slug", menuHandler.GetItem)
		outlet.PUT("/menu/items/:slug", menuHandler.UpdateItem)
		outlet.DELETE("/menu/items/:slug", menuHandler.DeleteItem)

		// Ingredient registry
		outlet.POST("/ingredients", inventoryHandler.CreateIngredient)
		outlet.GET("/ingredients", inventoryHandler.GetIngredients)
		outlet.PUT("/ingredients/:slug", inventoryHandler.UpdateIngredient)
		outlet.PATCH("/ingredients/:slug/active", inventoryHandler.SetIngredientActive)
		outlet.DELETE("/ingredients/:slug", inventoryHandler.DeleteIngredient)

		// Recipe map
		outlet.GET("/menu-items/:slug/ingredients", inventoryHandler.ListRecipeForMenuItem)
		outlet.POST("/recipes", inventoryHandler.AddRecipeEntry)
		outlet.PUT("/recipes/:slug", inventoryHandler.UpdateRecipeEntry)
		outlet.DELETE("/recipes/:slug", inventoryHandler.DeleteRecipeEntry)

		// Stock ledger
		outlet.POST("/transactions", inventoryHandler.PostTransaction)
		outlet.GET("/transactions", inventoryHandler.ListTransactions)
		outlet.GET("/transactions/:slug", inventoryHandler.GetTransaction)
		outlet.PUT("/transactions/:slug", inventoryHandler.UpdateTransaction)
		outlet.DELETE("/transactions/:slug", inventoryHandler.DeleteTransaction)

		// Orders
		outlet.POST("/orders", orderHandler.CreateOrder)
		outlet.GET("/orders", orderHandler.ListOrders)
		outlet.GET("/orders/:slug", orderHandler.GetOrder)
		outlet.PATCH("/orders/:slug/status", orderHandler.UpdateOrderStatus)
	}
}
