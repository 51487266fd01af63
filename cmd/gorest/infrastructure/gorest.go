package infrastructure

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"gorest-users/internal/adapter/gorest"
	"gorest-users/internal/config"
)

// NewGoRestClient creates the remote API client
func NewGoRestClient(cfg *config.Config, l *zap.Logger) (*gorest.Client, error) {
	client, err := gorest.New(
		cfg.GoRest.BaseURL,
		cfg.GoRest.Token,
		time.Duration(cfg.GoRest.TimeoutSeconds)*time.Second,
		l.Named("gorest"),
		gorest.WithPerPage(cfg.GoRest.PerPage),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create GoREST client: %w", err)
	}
	return client, nil
}
