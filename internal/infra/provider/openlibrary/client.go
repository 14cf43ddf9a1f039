// Package openlibrary implements the Open Library catalog client.
package openlibrary

import (
	"context"
	"errors"
	"strconv"

	"go.uber.org/zap"

	"book-discovery-service/internal/domain"
	"book-discovery-service/internal/infra/provider"
)

const (
	// Name identifies the provider in logs and errors.
	Name = "openlibrary"

	SearchEndpoint        = "/search.json"
	RecentChangesEndpoint = "/recentchanges.json"
)

// errMissingDocs is the cause of a Malformed error for search bodies without a docs list.
var errMissingDocs = errors.New("missing docs list")

// errMissingChanges is the cause of a Malformed error for a null recent-changes body.
var errMissingChanges = errors.New("missing change list")

// Client implements domain.Catalog for Open Library.
type Client struct {
	req    *provider.Requester
	logger *zap.Logger
}

// New creates a new Open Library client.
func New(cfg provider.ClientConfig, logger *zap.Logger) *Client {
	return &Client{
		req:    provider.NewRequester(Name, cfg, logger),
		logger: logger,
	}
}

// Name returns the provider identifier.
func (c *Client) Name() string {
	return Name
}

// Search runs a quick or advanced search.
func (c *Client) Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchPayload, error) {
	var resp SearchResponse
	if err := c.req.GetJSON(ctx, SearchEndpoint, req.QueryParams(), &resp); err != nil {
		return nil, err
	}

	if resp.Docs == nil {
		return nil, c.req.Malformed(SearchEndpoint, errMissingDocs)
	}

	c.logger.Debug("openlibrary search completed",
		zap.String("mode", string(req.Mode)),
		zap.Int("page", req.Page),
		zap.Int("num_found", resp.NumFound),
		zap.Int("count", len(resp.Docs)),
	)

	return resp.ToDomain(), nil
}

// GetWork fetches /works/{id}.json. The key must start with "/works/".
func (c *Client) GetWork(ctx context.Context, key string) (*domain.WorkDetails, error) {
	key, err := domain.WorkKey(key)
	if err != nil {
		return nil, err
	}

	var resp WorkResponse
	if err := c.req.GetJSON(ctx, key+".json", nil, &resp); err != nil {
		return nil, err
	}

	work := resp.ToDomain()
	if work.Key == "" {
		work.Key = key
	}

	return work, nil
}

// GetAuthor fetches /authors/{id}.json. The key must start with "/authors/".
func (c *Client) GetAuthor(ctx context.Context, key string) (*domain.AuthorDetails, error) {
	key, err := domain.AuthorKey(key)
	if err != nil {
		return nil, err
	}

	var resp AuthorResponse
	if err := c.req.GetJSON(ctx, key+".json", nil, &resp); err != nil {
		return nil, err
	}

	author := resp.ToDomain()
	if author.Key == "" {
		author.Key = key
	}

	return author, nil
}

// RecentChanges fetches the recent-changes feed. limit is clamped into [1,50].
func (c *Client) RecentChanges(ctx context.Context, limit int) ([]domain.RecentChange, error) {
	limit = domain.ClampInt(limit, domain.MinRecentChanges, domain.MaxRecentChanges)

	var resp []RecentChange
	params := map[string]string{"limit": strconv.Itoa(limit)}
	if err := c.req.GetJSON(ctx, RecentChangesEndpoint, params, &resp); err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, c.req.Malformed(RecentChangesEndpoint, errMissingChanges)
	}

	changes := make([]domain.RecentChange, 0, len(resp))
	for i := range resp {
		changes = append(changes, resp[i].ToDomain())
	}

	return changes, nil
}

// HealthCheck verifies Open Library is accessible.
func (c *Client) HealthCheck(ctx context.Context) error {
	var resp []RecentChange

	return c.req.GetJSON(ctx, RecentChangesEndpoint, map[string]string{"limit": "1"}, &resp)
}
