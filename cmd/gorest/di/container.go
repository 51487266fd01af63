package di

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"gorest-users/cmd/gorest/infrastructure"
	"gorest-users/internal/adapter/cache"
	"gorest-users/internal/adapter/db/gormdb"
	ginhandler "gorest-users/internal/adapter/gin/handler"
	"gorest-users/internal/adapter/gin/middleware"
	"gorest-users/internal/adapter/repository/cached"
	"gorest-users/internal/adapter/repository/remote"
	"gorest-users/internal/config"
	"gorest-users/internal/presentation/viewmodel"
	"gorest-users/internal/usecase/user"
	redisclient "gorest-users/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB
	RedisClient *redisclient.Client
	Store       cache.CreatedAtStore
	UserUC      *user.Usecase
	Users       *viewmodel.Users
	RateLimiter *middleware.RateLimiter
	GinHandler  *ginhandler.UserHandler
}

// NewContainer creates and initializes all application dependencies
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (_ *Container, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	c := &Container{Config: cfg, Logger: l}
	defer func() {
		if err != nil {
			_ = c.Close()
		}
	}()

	if cfg.NeedsRedis() {
		c.RedisClient, err = infrastructure.NewRedisClient(ctx, cfg, l)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
	}

	c.Store, err = c.newCreatedAtStore()
	if err != nil {
		return nil, err
	}

	client, err := infrastructure.NewGoRestClient(cfg, l)
	if err != nil {
		return nil, err
	}

	repo := remote.NewUserRepository(client, c.Store, l.Named("repository"))
	c.UserUC = user.New(repo, l.Named("usecase"))
	c.Users = viewmodel.NewUsers(c.UserUC, l.Named("viewmodel"))

	if cfg.RateLimit.Enabled {
		c.RateLimiter = middleware.NewRateLimiter(
			c.RedisClient.Client,
			middleware.RateLimiterConfig{
				RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
				WindowSeconds:     cfg.RateLimit.WindowSeconds,
				Enabled:           cfg.RateLimit.Enabled,
			},
			l,
		)
	}

	c.GinHandler = ginhandler.NewUserHandler(c.Users, l.Named("http"))

	return c, nil
}

// newCreatedAtStore builds the creation-time cache for the configured kind.
// Durable kinds sit behind the in-memory map.
func (c *Container) newCreatedAtStore() (cache.CreatedAtStore, error) {
	memory := cache.NewMemoryCreatedAtStore()
	l := c.Logger.Named("store")

	switch c.Config.Store.Kind {
	case config.StoreDatabase:
		db, err := infrastructure.NewDatabase(c.Config, l)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		c.DB = db
		return cached.NewCreatedAtStore(memory, gormdb.NewCreatedAtRepo(db, l), l), nil

	case config.StoreRedis:
		ttl := time.Duration(c.Config.Redis.CacheTTL) * time.Second
		back := cache.NewRedisCreatedAtStore(c.RedisClient.Client, ttl, l)
		return cached.NewCreatedAtStore(memory, back, l), nil

	default:
		return memory, nil
	}
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	return errors.Join(errs...)
}
