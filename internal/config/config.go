package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

// Creation-time store kinds
const (
	StoreMemory   = "memory"
	StoreDatabase = "database"
	StoreRedis    = "redis"
)

// Database drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all configuration for the application
type Config struct {
	GoRest    GoRestConfig
	App       AppConfig
	Store     StoreConfig
	DB        DatabaseConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Logger    LoggerConfig
}

// GoRestConfig holds configuration for the remote API client
type GoRestConfig struct {
	BaseURL        string `mapstructure:"GOREST_BASE_URL"`
	Token          string `mapstructure:"GOREST_TOKEN"`
	PerPage        int    `mapstructure:"GOREST_PER_PAGE"`
	TimeoutSeconds int    `mapstructure:"GOREST_TIMEOUT_SECONDS"`
}

// AppConfig holds configuration for the local REST facade
type AppConfig struct {
	HTTPPort               string `mapstructure:"HTTP_PORT"`
	ShutdownTimeoutSeconds int    `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS"`
}

// StoreConfig selects where creation times are kept
type StoreConfig struct {
	Kind string `mapstructure:"CREATED_AT_STORE"`
}

// DatabaseConfig holds configuration for the database
type DatabaseConfig struct {
	Driver          string `mapstructure:"DB_DRIVER"`
	SQLitePath      string `mapstructure:"DB_SQLITE_PATH"`
	Host            string `mapstructure:"DB_HOST"`
	Port            string `mapstructure:"DB_PORT"`
	User            string `mapstructure:"DB_USER"`
	Password        string `mapstructure:"DB_PASSWORD"`
	Name            string `mapstructure:"DB_NAME"`
	SSLMode         string `mapstructure:"DB_SSLMODE"`
	MaxOpenConns    int    `mapstructure:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns    int    `mapstructure:"DB_MAX_IDLE_CONNS"`
	ConnMaxLifetime int    `mapstructure:"DB_CONN_MAX_LIFETIME"`
	ConnMaxIdleTime int    `mapstructure:"DB_CONN_MAX_IDLE_TIME"`
}

// RedisConfig holds configuration for Redis
type RedisConfig struct {
	Host        string `mapstructure:"REDIS_HOST"`
	Port        string `mapstructure:"REDIS_PORT"`
	Password    string `mapstructure:"REDIS_PASSWORD"`
	DB          int    `mapstructure:"REDIS_DB"`
	MaxRetries  int    `mapstructure:"REDIS_MAX_RETRIES"`
	PoolSize    int    `mapstructure:"REDIS_POOL_SIZE"`
	MinIdleConn int    `mapstructure:"REDIS_MIN_IDLE_CONN"`
	CacheTTL    int    `mapstructure:"REDIS_CACHE_TTL"` // seconds, 0 means no expiry
}

// RateLimitConfig holds configuration for the REST rate limiter
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"RATE_LIMIT_ENABLED"`
	RequestsPerSecond float64 `mapstructure:"RATE_LIMIT_REQUESTS_PER_SECOND"`
	WindowSeconds     int     `mapstructure:"RATE_LIMIT_WINDOW_SECONDS"`
}

// LoggerConfig holds configuration for the logger
type LoggerConfig struct {
	Level            string  `mapstructure:"LOG_LEVEL"`
	Format           string  `mapstructure:"LOG_FORMAT"`
	OutputPath       string  `mapstructure:"LOG_OUTPUT_PATH"`
	CLIOutputPath    string  `mapstructure:"LOG_CLI_OUTPUT_PATH"` // used while a terminal UI owns stdout
	SlowQuerySeconds float64 `mapstructure:"LOG_SLOW_QUERY_SECONDS"`
	EnableSampling   bool    `mapstructure:"LOG_ENABLE_SAMPLING"`
	ServiceName      string  `mapstructure:"SERVICE_NAME"`
	ServiceVersion   string  `mapstructure:"SERVICE_VERSION"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (*Config, error) {
	setDefaults()

	viper.AddConfigPath(path)
	viper.SetConfigName("app") // Look for app.env
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if we have env vars
	}

	var config Config

	config.GoRest.BaseURL = viper.GetString("GOREST_BASE_URL")
	config.GoRest.Token = viper.GetString("GOREST_TOKEN")
	config.GoRest.PerPage = viper.GetInt("GOREST_PER_PAGE")
	config.GoRest.TimeoutSeconds = viper.GetInt("GOREST_TIMEOUT_SECONDS")

	config.App.HTTPPort = viper.GetString("HTTP_PORT")
	config.App.ShutdownTimeoutSeconds = viper.GetInt("SHUTDOWN_TIMEOUT_SECONDS")

	config.Store.Kind = strings.ToLower(viper.GetString("CREATED_AT_STORE"))

	config.DB.Driver = strings.ToLower(viper.GetString("DB_DRIVER"))
	config.DB.SQLitePath = viper.GetString("DB_SQLITE_PATH")
	config.DB.Host = viper.GetString("DB_HOST")
	config.DB.Port = viper.GetString("DB_PORT")
	config.DB.User = viper.GetString("DB_USER")
	config.DB.Password = viper.GetString("DB_PASSWORD")
	config.DB.Name = viper.GetString("DB_NAME")
	config.DB.SSLMode = viper.GetString("DB_SSLMODE")
	config.DB.MaxOpenConns = viper.GetInt("DB_MAX_OPEN_CONNS")
	config.DB.MaxIdleConns = viper.GetInt("DB_MAX_IDLE_CONNS")
	config.DB.ConnMaxLifetime = viper.GetInt("DB_CONN_MAX_LIFETIME")
	config.DB.ConnMaxIdleTime = viper.GetInt("DB_CONN_MAX_IDLE_TIME")

	config.Redis.Host = viper.GetString("REDIS_HOST")
	config.Redis.Port = viper.GetString("REDIS_PORT")
	config.Redis.Password = viper.GetString("REDIS_PASSWORD")
	config.Redis.DB = viper.GetInt("REDIS_DB")
	config.Redis.MaxRetries = viper.GetInt("REDIS_MAX_RETRIES")
	config.Redis.PoolSize = viper.GetInt("REDIS_POOL_SIZE")
	config.Redis.MinIdleConn = viper.GetInt("REDIS_MIN_IDLE_CONN")
	config.Redis.CacheTTL = viper.GetInt("REDIS_CACHE_TTL")

	config.RateLimit.Enabled = viper.GetBool("RATE_LIMIT_ENABLED")
	config.RateLimit.RequestsPerSecond = viper.GetFloat64("RATE_LIMIT_REQUESTS_PER_SECOND")
	config.RateLimit.WindowSeconds = viper.GetInt("RATE_LIMIT_WINDOW_SECONDS")

	config.Logger.Level = viper.GetString("LOG_LEVEL")
	config.Logger.Format = viper.GetString("LOG_FORMAT")
	config.Logger.OutputPath = viper.GetString("LOG_OUTPUT_PATH")
	config.Logger.CLIOutputPath = viper.GetString("LOG_CLI_OUTPUT_PATH")
	config.Logger.SlowQuerySeconds = viper.GetFloat64("LOG_SLOW_QUERY_SECONDS")
	config.Logger.EnableSampling = viper.GetBool("LOG_ENABLE_SAMPLING")
	config.Logger.ServiceName = viper.GetString("SERVICE_NAME")
	config.Logger.ServiceVersion = viper.GetString("SERVICE_VERSION")

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("GOREST_BASE_URL", "https://gorest.co.in/public/v2/")
	viper.SetDefault("GOREST_PER_PAGE", 20)
	viper.SetDefault("GOREST_TIMEOUT_SECONDS", 30)

	viper.SetDefault("HTTP_PORT", "8080")
	viper.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)

	viper.SetDefault("CREATED_AT_STORE", StoreMemory)

	viper.SetDefault("DB_DRIVER", DriverSQLite)
	viper.SetDefault("DB_SQLITE_PATH", "gorest-users.db")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_NAME", "gorest_users")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 10)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", 300)
	viper.SetDefault("DB_CONN_MAX_IDLE_TIME", 60)

	viper.SetDefault("REDIS_HOST", "")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_MAX_RETRIES", 3)
	viper.SetDefault("REDIS_POOL_SIZE", 10)
	viper.SetDefault("REDIS_MIN_IDLE_CONN", 2)
	viper.SetDefault("REDIS_CACHE_TTL", 0)

	viper.SetDefault("RATE_LIMIT_ENABLED", false)
	viper.SetDefault("RATE_LIMIT_REQUESTS_PER_SECOND", 5.0)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)

	env := viper.GetString("APP_ENV")
	if env == "production" {
		viper.SetDefault("LOG_LEVEL", "info")
		viper.SetDefault("LOG_FORMAT", "json")
		viper.SetDefault("LOG_ENABLE_SAMPLING", true)
	} else {
		viper.SetDefault("LOG_LEVEL", "debug")
		viper.SetDefault("LOG_FORMAT", "console")
		viper.SetDefault("LOG_ENABLE_SAMPLING", false)
	}
	viper.SetDefault("LOG_OUTPUT_PATH", "stdout")
	viper.SetDefault("LOG_CLI_OUTPUT_PATH", "gorest-users.log")
	viper.SetDefault("LOG_SLOW_QUERY_SECONDS", 0.2)
	viper.SetDefault("SERVICE_NAME", "gorest-users")
	viper.SetDefault("SERVICE_VERSION", "1.0.0")
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.GoRest.Token) == "" {
		errs = append(errs, errors.New("GOREST_TOKEN is required"))
	}
	if u, err := url.Parse(c.GoRest.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("GOREST_BASE_URL is not an absolute URL: %q", c.GoRest.BaseURL))
	}
	if c.GoRest.PerPage <= 0 {
		errs = append(errs, errors.New("GOREST_PER_PAGE must be positive"))
	}
	if c.GoRest.TimeoutSeconds <= 0 {
		errs = append(errs, errors.New("GOREST_TIMEOUT_SECONDS must be positive"))
	}

	switch c.Store.Kind {
	case StoreMemory, StoreRedis:
	case StoreDatabase:
		switch c.DB.Driver {
		case DriverSQLite:
			if c.DB.SQLitePath == "" {
				errs = append(errs, errors.New("DB_SQLITE_PATH is required for the sqlite driver"))
			}
		case DriverPostgres:
		default:
			errs = append(errs, fmt.Errorf("unknown DB_DRIVER %q", c.DB.Driver))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown CREATED_AT_STORE %q", c.Store.Kind))
	}

	if c.Store.Kind == StoreRedis && c.Redis.Host == "" {
		errs = append(errs, errors.New("REDIS_HOST is required when CREATED_AT_STORE=redis"))
	}
	if c.RateLimit.Enabled {
		if c.Redis.Host == "" {
			errs = append(errs, errors.New("REDIS_HOST is required when RATE_LIMIT_ENABLED=true"))
		}
		if c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.WindowSeconds <= 0 {
			errs = append(errs, errors.New("rate limit requests per second and window must be positive"))
		}
	}
	if c.Redis.CacheTTL < 0 {
		errs = append(errs, errors.New("REDIS_CACHE_TTL must not be negative"))
	}

	return errors.Join(errs...)
}

// NeedsRedis reports whether any enabled feature uses Redis.
func (c *Config) NeedsRedis() bool {
	return c.Store.Kind == StoreRedis || c.RateLimit.Enabled
}

// DSN returns the PostgreSQL Data Source Name
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
}
