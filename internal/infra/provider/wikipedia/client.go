// Package wikipedia implements the encyclopedia summary client.
package wikipedia

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"book-discovery-service/internal/domain"
	"book-discovery-service/internal/infra/provider"
)

const (
	// Name identifies the provider in logs and errors.
	Name = "wikipedia"

	// Endpoint is the MediaWiki action API path.
	Endpoint = "/w/api.php"

	thumbnailSize = "300"
)

// Client implements domain.Encyclopedia for Wikipedia.
type Client struct {
	req    *provider.Requester
	logger *zap.Logger
}

// New creates a new Wikipedia client.
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

// Summary returns the introductory extract of the page titled query.
// It returns nil without error for blank queries, missing pages and pages
// lacking a title, extract or URL.
func (c *Client) Summary(ctx context.Context, query string) (*domain.EncyclopediaSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	params := map[string]string{
		"action":      "query",
		"format":      "json",
		"origin":      "*",
		"prop":        "extracts|pageimages|info",
		"inprop":      "url",
		"exintro":     "1",
		"explaintext": "1",
		"piprop":      "thumbnail",
		"pithumbsize": thumbnailSize,
		"titles":      query,
	}

	var resp Response
	if err := c.req.GetJSON(ctx, Endpoint, params, &resp); err != nil {
		return nil, err
	}

	summary := resp.FirstSummary()
	c.logger.Debug("wikipedia summary lookup completed",
		zap.String("query", query),
		zap.Bool("found", summary != nil),
	)

	return summary, nil
}
