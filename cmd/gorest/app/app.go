package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"

	"go.uber.org/zap"

	"gorest-users/cmd/gorest/di"
	"gorest-users/cmd/gorest/server"
	"gorest-users/internal/config"
	"gorest-users/pkg/logger"
)

// Mode selects where logs go.
type Mode int

const (
	// ModeServer logs to LOG_OUTPUT_PATH
	ModeServer Mode = iota
	// ModeTerminal logs to LOG_CLI_OUTPUT_PATH, since stdout belongs to the UI
	ModeTerminal
)

// App represents the application
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Container *di.Container
}

// New loads configuration, builds the logger and wires every dependency.
func New(ctx context.Context, mode Mode) (*App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := initLogger(cfg, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	container, err := di.NewContainer(ctx, cfg, l)
	if err != nil {
		_ = l.Sync()
		return nil, fmt.Errorf("failed to create container: %w", err)
	}

	return &App{
		Config:    cfg,
		Logger:    l,
		Container: container,
	}, nil
}

// Serve runs the REST API until ctx is cancelled, then shuts down.
func (a *App) Serve(ctx context.Context) error {
	srv := server.New(a.Config, a.Logger, a.Container.GinHandler, a.Container.RateLimiter)

	a.Logger.Info("starting application",
		zap.String("service", a.Config.Logger.ServiceName),
		zap.String("version", a.Config.Logger.ServiceVersion),
		zap.String("environment", getEnvironment()),
	)

	errChan := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				errChan <- fmt.Errorf("server panic: %v", r)
			}
		}()

		if err := srv.Start(ctx); err != nil {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.Logger.Info("shutting down application...")
		return a.shutdown(srv)
	case err := <-errChan:
		return errors.Join(err, a.Close())
	}
}

// shutdown gracefully shuts down the application
func (a *App) shutdown(srv *server.Server) error {
	timeout := time.Duration(a.Config.App.ShutdownTimeoutSeconds) * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	a.Logger.Info("starting graceful shutdown", zap.Duration("timeout", timeout))

	var errs []error

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.Logger.Error("failed to shutdown HTTP server", zap.Error(err))
		errs = append(errs, fmt.Errorf("HTTP shutdown: %w", err))
	}

	// Let intents accepted before shutdown finish their remote calls
	a.Container.Users.Wait()

	if err := a.Close(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Close releases the container resources and flushes the logger.
func (a *App) Close() error {
	var errs []error

	if a.Container != nil {
		if err := a.Container.Close(); err != nil {
			a.Logger.Error("failed to close container", zap.Error(err))
			errs = append(errs, fmt.Errorf("container close: %w", err))
		}
	}

	a.Logger.Info("application shutdown complete")

	// stdout and stderr cannot be synced on most platforms
	if err := a.Logger.Sync(); err != nil && !errors.Is(err, syscall.EINVAL) && !errors.Is(err, syscall.ENOTTY) {
		errs = append(errs, fmt.Errorf("logger sync: %w", err))
	}

	return errors.Join(errs...)
}

// loadConfig loads application configuration
func loadConfig() (*config.Config, error) {
	return config.LoadConfig(getConfigPath())
}

// initLogger initializes the application logger
func initLogger(cfg *config.Config, mode Mode) (*zap.Logger, error) {
	output := cfg.Logger.OutputPath
	if mode == ModeTerminal {
		output = cfg.Logger.CLIOutputPath
	}

	return logger.NewWithConfig(logger.Config{
		Level:            cfg.Logger.Level,
		Format:           cfg.Logger.Format,
		OutputPath:       output,
		SlowQuerySeconds: cfg.Logger.SlowQuerySeconds,
		EnableSampling:   cfg.Logger.EnableSampling,
		ServiceName:      cfg.Logger.ServiceName,
		ServiceVersion:   cfg.Logger.ServiceVersion,
		Environment:      getEnvironment(),
	})
}

// getConfigPath returns the configuration path
func getConfigPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return "."
}

// getEnvironment returns the application environment
func getEnvironment() string {
	if env := os.Getenv("APP_ENV"); env != "" {
		return env
	}
	return "development"
}
