// Package provider provides HTTP client utilities for external providers.
package provider

import (
	"context"
	"errors"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"book-discovery-service/internal/domain"
)

// DefaultTimeout bounds every upstream request when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// ClientConfig holds configuration for a provider client.
type ClientConfig struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	RateLimit RateLimitConfig
	CB        CBConfig
}

// RateLimitConfig holds outbound rate limiting settings.
// A non-positive RequestsPerSecond disables limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// CBConfig holds circuit breaker configuration.
type CBConfig struct {
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	FailureRatio float64
}

// NewRestyClient creates a new Resty HTTP client.
// Retries are disabled: a failed attempt surfaces to the caller immediately.
func NewRestyClient(cfg ClientConfig) *resty.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")

	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}

	return client
}

// NewCircuitBreaker creates a new circuit breaker for a provider.
// Only transport failures and 5xx responses count against the breaker.
// 4xx answers mean the provider is healthy, and a request abandoned by its
// caller says nothing about the provider.
func NewCircuitBreaker[T any](name string, cfg CBConfig, logger *zap.Logger) *gobreaker.CircuitBreaker[T] {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)

			return counts.Requests >= 3 && failureRatio >= cfg.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var fe *domain.FetchError
			if errors.As(err, &fe) {
				if fe.Err == context.Canceled || fe.Err == context.DeadlineExceeded {
					return true
				}
				return fe.Kind == domain.FetchErrorHTTPStatus && fe.StatusCode < 500
			}

			return false
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("provider", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return gobreaker.NewCircuitBreaker[T](settings)
}
