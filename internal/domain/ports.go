package domain

import (
	"context"
)

// Catalog defines the bibliographic data source.
// Implementations: internal/infra/provider/openlibrary/
type Catalog interface {
	// Search runs a validated search request. Failures are *FetchError.
	Search(ctx context.Context, req SearchRequest) (*SearchPayload, error)

	// GetWork retrieves a work by its key ("/works/OL45883W").
	GetWork(ctx context.Context, key string) (*WorkDetails, error)

	// GetAuthor retrieves an author by its key ("/authors/OL23919A").
	GetAuthor(ctx context.Context, key string) (*AuthorDetails, error)

	// RecentChanges returns the latest catalog edits, newest first.
	RecentChanges(ctx context.Context, limit int) ([]RecentChange, error)

	// HealthCheck verifies the catalog is reachable.
	HealthCheck(ctx context.Context) error
}

// Encyclopedia looks up introductory summaries for titles and people.
// Implementations: internal/infra/provider/wikipedia/
type Encyclopedia interface {
	// Summary returns nil without error when no page matches.
	Summary(ctx context.Context, query string) (*EncyclopediaSummary, error)
}
