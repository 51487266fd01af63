package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gorest-users/internal/adapter/gin/handler"
	"gorest-users/internal/adapter/gin/middleware"
)

// SetupRouter configures and returns a Gin router with all routes and middleware.
// rateLimiter may be nil.
func SetupRouter(
	userHandler *handler.UserHandler,
	rateLimiter *middleware.RateLimiter,
	log *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "gorest-users",
		})
	})

	v1 := router.Group("/v1")
	{
		users := v1.Group("/users")
		{
			users.GET("", userHandler.GetState)

			// Intents reach the remote API, so only they are limited
			intents := users.Group("", rateLimiter.Handler())
			intents.POST("", userHandler.CreateUser)
			intents.POST("/refresh", userHandler.Refresh)
			intents.DELETE("/:id", userHandler.DeleteUser)
		}
	}

	return router
}
