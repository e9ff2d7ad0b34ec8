package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"carpool/internal/handler"
	"carpool/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	UserHandler  *handler.UserHandler
	RouteHandler *handler.RouteHandler
	RedisClient  *redis.Client
	NewRelicApp  *newrelic.Application

	// ImagesDir is served under /images when car images are kept on disk.
	ImagesDir string
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if deps.ImagesDir != "" {
		router.Static("/images", deps.ImagesDir)
	}

	// Accounts.
	router.POST("/login", deps.UserHandler.Login)
	router.POST("/register", deps.UserHandler.Register)

	users := router.Group("/users")
	{
		users.GET("/:phonenumber", deps.UserHandler.GetByPhoneNumber)
		users.PUT("", deps.UserHandler.UpdateProfile)
	}

	// Route catalog and search.
	routes := router.Group("/routes")
	{
		routes.POST("", deps.RouteHandler.CreateRoute)
		routes.POST("/filter", deps.RouteHandler.FilterRoutes)
		routes.GET("/:driverId", deps.RouteHandler.ListByDriver)
		routes.PUT("/:id", deps.RouteHandler.UpdateRoute)
		routes.DELETE("/:id", deps.RouteHandler.DeleteRoute)
	}

	return router
}
