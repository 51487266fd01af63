package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"go.uber.org/zap"

	ginhandler "gorest-users/internal/adapter/gin/handler"
	"gorest-users/internal/adapter/gin/middleware"
	"gorest-users/internal/config"
)

// Server struct holds all server dependencies
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	Gin    *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, l *zap.Logger, handler *ginhandler.UserHandler, rateLimiter *middleware.RateLimiter) *Server {
	return &Server{
		Config: cfg,
		Logger: l,
		Gin:    SetupGinServer(handler, rateLimiter, httpAddress(cfg), l),
	}
}

// httpAddress returns the HTTP server address
func httpAddress(cfg *config.Config) string {
	return ":" + cfg.App.HTTPPort
}

// Start listens and serves until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	lc := net.ListenConfig{}
	lis, err := lc.Listen(ctx, "tcp", s.Gin.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	return s.Serve(lis)
}

// Serve serves on an existing listener until Shutdown is called.
func (s *Server) Serve(lis net.Listener) error {
	s.Logger.Info("REST API running", zap.String("address", lis.Addr().String()))

	if err := s.Gin.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for active ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.Gin.Shutdown(ctx)
}
