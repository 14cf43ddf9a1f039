package provider

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"book-discovery-service/internal/domain"
)

// Requester performs rate-limited, circuit-broken JSON GET requests against
// a single provider and classifies every failure as a *domain.FetchError.
type Requester struct {
	name    string
	baseURL string
	client  *resty.Client
	cb      *gobreaker.CircuitBreaker[[]byte]
	limiter *Limiter
	logger  *zap.Logger
}

// NewRequester creates a Requester for the named provider.
func NewRequester(name string, cfg ClientConfig, logger *zap.Logger) *Requester {
	return &Requester{
		name:    name,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		client:  NewRestyClient(cfg),
		cb:      NewCircuitBreaker[[]byte](name, cfg.CB, logger),
		limiter: NewLimiter(name, cfg.RateLimit),
		logger:  logger,
	}
}

// Name returns the provider identifier.
func (r *Requester) Name() string {
	return r.name
}

// RestyClient exposes the underlying client, e.g. to mock its transport.
func (r *Requester) RestyClient() *resty.Client {
	return r.client
}

// State returns the circuit breaker state.
func (r *Requester) State() gobreaker.State {
	return r.cb.State()
}

// GetJSON fetches path with the given query parameters and decodes the body
// into out. Non-2xx answers, transport failures and undecodable bodies are
// returned as *domain.FetchError. Nothing is retried.
func (r *Requester) GetJSON(ctx context.Context, path string, params map[string]string, out any) error {
	url := r.baseURL + path

	if err := r.limiter.Wait(ctx); err != nil {
		return r.fetchError(domain.FetchErrorNetwork, url, 0, err)
	}

	body, err := r.cb.Execute(func() ([]byte, error) {
		resp, err := r.client.R().
			SetContext(ctx).
			SetQueryParams(params).
			Get(path)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, r.fetchError(domain.FetchErrorNetwork, url, 0, ctxErr)
			}
			return nil, r.fetchError(domain.FetchErrorNetwork, url, 0, err)
		}
		if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
			return nil, r.fetchError(domain.FetchErrorHTTPStatus, url, resp.StatusCode(), nil)
		}

		return resp.Body(), nil
	})
	if err != nil {
		var fe *domain.FetchError
		if !errors.As(err, &fe) {
			// gobreaker.ErrOpenState / ErrTooManyRequests: the request never left.
			fe = r.fetchError(domain.FetchErrorNetwork, url, 0, err)
		}

		r.logger.Warn("provider request failed",
			zap.String("provider", r.name),
			zap.String("url", url),
			zap.String("kind", string(fe.Kind)),
			zap.Int("status", fe.StatusCode),
			zap.String("state", r.cb.State().String()),
			zap.Error(fe.Err),
		)

		return fe
	}

	if err := json.Unmarshal(body, out); err != nil {
		r.logger.Warn("provider response malformed",
			zap.String("provider", r.name),
			zap.String("url", url),
			zap.Error(err),
		)

		return r.fetchError(domain.FetchErrorMalformed, url, 0, err)
	}

	return nil
}

// Malformed builds a FetchErrorMalformed for a decoded body that lacks an expected field.
func (r *Requester) Malformed(path string, cause error) *domain.FetchError {
	return r.fetchError(domain.FetchErrorMalformed, r.baseURL+path, 0, cause)
}

func (r *Requester) fetchError(kind domain.FetchErrorKind, url string, status int, cause error) *domain.FetchError {
	return &domain.FetchError{
		Kind:       kind,
		StatusCode: status,
		Source:     r.name,
		URL:        url,
		Err:        cause,
	}
}
