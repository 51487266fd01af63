package redis

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const connectTimeout = 5 * time.Second

// Config holds Redis connection configuration.
type Config struct {
	Host        string
	Port        string
	Password    string
	DB          int
	MaxRetries  int
	PoolSize    int
	MinIdleConn int
}

// Addr returns host:port.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// Client wraps redis.Client with lifecycle logging.
type Client struct {
	*redis.Client
	log *zap.Logger
}

// NewClient connects to Redis and verifies the connection with a ping
// bounded by ctx and a fixed connect timeout.
func NewClient(ctx context.Context, cfg Config, log *zap.Logger) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   cfg.MaxRetries,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConn,
		DialTimeout:  connectTimeout,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr(), err)
	}

	log.Info("redis connected",
		zap.String("addr", cfg.Addr()),
		zap.Int("db", cfg.DB),
		zap.Int("pool_size", cfg.PoolSize),
	)

	return &Client{
		Client: rdb,
		log:    log,
	}, nil
}

// Ping checks if the Redis connection is alive.
func (c *Client) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

// Close gracefully closes the Redis connection.
func (c *Client) Close() error {
	c.log.Info("closing redis connection")
	return c.Client.Close()
}
