// Package registry builds the upstream clients from configuration.
package registry

import (
	"go.uber.org/zap"

	"book-discovery-service/internal/config"
	"book-discovery-service/internal/infra/provider"
	"book-discovery-service/internal/infra/provider/openlibrary"
	"book-discovery-service/internal/infra/provider/wikipedia"
)

// Providers holds the constructed upstream clients.
type Providers struct {
	Catalog      *openlibrary.Client
	Encyclopedia *wikipedia.Client
}

// New creates all configured provider clients.
// This is a factory function that centralizes provider initialization
// while maintaining dependency injection principles.
func New(cfg *config.Config, logger *zap.Logger) *Providers {
	return &Providers{
		Catalog:      openlibrary.New(ClientConfig(cfg.OpenLibrary), logger),
		Encyclopedia: wikipedia.New(ClientConfig(cfg.Wikipedia), logger),
	}
}

// ClientConfig converts a configured endpoint into client settings.
func ClientConfig(ep config.ProviderEndpoint) provider.ClientConfig {
	return provider.ClientConfig{
		BaseURL:   ep.BaseURL,
		Timeout:   ep.Timeout,
		UserAgent: ep.UserAgent,
		RateLimit: provider.RateLimitConfig{
			RequestsPerSecond: ep.RateLimit.RequestsPerSecond,
			Burst:             ep.RateLimit.Burst,
		},
		CB: provider.CBConfig{
			MaxRequests:  ep.CB.MaxRequests,
			Interval:     ep.CB.Interval,
			Timeout:      ep.CB.Timeout,
			FailureRatio: ep.CB.FailureRatio,
		},
	}
}
