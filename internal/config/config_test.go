package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadIn(t *testing.T, dir string) *Config {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	return cfg
}

func validConfig() *Config {
	return &Config{
		GoRest: GoRestConfig{
			BaseURL:        "https://gorest.co.in/public/v2/",
			Token:          "secret",
			PerPage:        20,
			TimeoutSeconds: 30,
		},
		Store: StoreConfig{Kind: StoreMemory},
		DB:    DatabaseConfig{Driver: DriverSQLite, SQLitePath: "x.db"},
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := loadIn(t, t.TempDir())

	assert.Equal(t, "https://gorest.co.in/public/v2/", cfg.GoRest.BaseURL)
	assert.Equal(t, 20, cfg.GoRest.PerPage)
	assert.Equal(t, 30, cfg.GoRest.TimeoutSeconds)
	assert.Equal(t, "8080", cfg.App.HTTPPort)
	assert.Equal(t, 10, cfg.App.ShutdownTimeoutSeconds)
	assert.Equal(t, StoreMemory, cfg.Store.Kind)
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, "gorest-users", cfg.Logger.ServiceName)
	assert.Equal(t, "gorest-users.log", cfg.Logger.CLIOutputPath)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("GOREST_TOKEN", "from-env")
	t.Setenv("GOREST_PER_PAGE", "50")
	t.Setenv("CREATED_AT_STORE", "Redis")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("RATE_LIMIT_ENABLED", "true")

	cfg := loadIn(t, t.TempDir())

	assert.Equal(t, "from-env", cfg.GoRest.Token)
	assert.Equal(t, 50, cfg.GoRest.PerPage)
	assert.Equal(t, StoreRedis, cfg.Store.Kind)
	assert.Equal(t, "cache", cfg.Redis.Host)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.True(t, cfg.NeedsRedis())
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	content := "GOREST_TOKEN=from-file\nHTTP_PORT=9090\nCREATED_AT_STORE=database\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.env"), []byte(content), 0o600))

	cfg := loadIn(t, dir)

	assert.Equal(t, "from-file", cfg.GoRest.Token)
	assert.Equal(t, "9090", cfg.App.HTTPPort)
	assert.Equal(t, StoreDatabase, cfg.Store.Kind)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing token", mutate: func(c *Config) { c.GoRest.Token = " " }, wantErr: "GOREST_TOKEN is required"},
		{name: "relative base url", mutate: func(c *Config) { c.GoRest.BaseURL = "users" }, wantErr: "GOREST_BASE_URL"},
		{name: "zero page size", mutate: func(c *Config) { c.GoRest.PerPage = 0 }, wantErr: "GOREST_PER_PAGE"},
		{name: "zero timeout", mutate: func(c *Config) { c.GoRest.TimeoutSeconds = 0 }, wantErr: "GOREST_TIMEOUT_SECONDS"},
		{name: "unknown store", mutate: func(c *Config) { c.Store.Kind = "disk" }, wantErr: "unknown CREATED_AT_STORE"},
		{
			name:    "unknown driver",
			mutate:  func(c *Config) { c.Store.Kind = StoreDatabase; c.DB.Driver = "mysql" },
			wantErr: "unknown DB_DRIVER",
		},
		{
			name:   "postgres driver",
			mutate: func(c *Config) { c.Store.Kind = StoreDatabase; c.DB.Driver = DriverPostgres },
		},
		{
			name:    "redis store without host",
			mutate:  func(c *Config) { c.Store.Kind = StoreRedis },
			wantErr: "REDIS_HOST is required when CREATED_AT_STORE=redis",
		},
		{
			name: "rate limit without host",
			mutate: func(c *Config) {
				c.RateLimit = RateLimitConfig{Enabled: true, RequestsPerSecond: 1, WindowSeconds: 1}
			},
			wantErr: "REDIS_HOST is required when RATE_LIMIT_ENABLED=true",
		},
		{
			name: "rate limit with zero window",
			mutate: func(c *Config) {
				c.Redis.Host = "localhost"
				c.RateLimit = RateLimitConfig{Enabled: true, RequestsPerSecond: 1}
			},
			wantErr: "must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", User: "u", Password: "p", Name: "n", Port: "5432", SSLMode: "disable"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable", c.DSN())
}
