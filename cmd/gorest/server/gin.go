package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	ginhandler "gorest-users/internal/adapter/gin/handler"
	"gorest-users/internal/adapter/gin/middleware"
	ginrouter "gorest-users/internal/adapter/gin/router"
)

// SetupGinServer creates and configures the Gin REST API server
func SetupGinServer(
	handler *ginhandler.UserHandler,
	rateLimiter *middleware.RateLimiter,
	addr string,
	l *zap.Logger,
) *http.Server {
	router := ginrouter.SetupRouter(handler, rateLimiter, l)

	l.Info("Gin REST API configured", zap.String("address", addr))

	// ?wait=true holds a request for a full remote round trip, so the
	// write timeout leaves room for the client timeout.
	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
