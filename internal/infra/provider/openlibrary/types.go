package openlibrary

import (
	"strings"
	"time"

	"book-discovery-service/internal/domain"
)

// SearchResponse represents the JSON response of /search.json.
type SearchResponse struct {
	NumFound int         `json:"numFound"`
	Start    int         `json:"start"`
	Docs     []SearchDoc `json:"docs"`
}

// SearchDoc represents a single search hit.
type SearchDoc struct {
	Key              string   `json:"key"` // e.g. "/works/OL45883W"
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name,omitempty"`
	CoverI           int      `json:"cover_i,omitempty"`
	FirstPublishYear int      `json:"first_publish_year,omitempty"`
	EditionCount     int      `json:"edition_count,omitempty"`
	Subject          []string `json:"subject,omitempty"`
	Language         []string `json:"language,omitempty"`
}

// ToDomain converts the response to a domain.SearchPayload.
func (r *SearchResponse) ToDomain() *domain.SearchPayload {
	docs := make([]domain.SearchDoc, 0, len(r.Docs))
	for _, d := range r.Docs {
		docs = append(docs, domain.SearchDoc{
			Key:              d.Key,
			Title:            d.Title,
			AuthorNames:      d.AuthorName,
			CoverID:          d.CoverI,
			FirstPublishYear: d.FirstPublishYear,
			EditionCount:     d.EditionCount,
		})
	}

	return &domain.SearchPayload{
		NumFound: r.NumFound,
		Start:    r.Start,
		Docs:     docs,
	}
}

// keyRef is the {"key": "..."} reference object used throughout the API.
type keyRef struct {
	Key string `json:"key"`
}

// WorkResponse represents the JSON response of /works/{id}.json.
type WorkResponse struct {
	Key              string           `json:"key"`
	Title            string           `json:"title"`
	Description      domain.TextField `json:"description"`
	Subjects         []string         `json:"subjects,omitempty"`
	Covers           []int            `json:"covers,omitempty"`
	FirstPublishDate string           `json:"first_publish_date,omitempty"`
	Created          domain.TextField `json:"created"`
	LastModified     domain.TextField `json:"last_modified"`
	Authors          []struct {
		Author keyRef  `json:"author"`
		Type   *keyRef `json:"type,omitempty"`
	} `json:"authors,omitempty"`
}

// ToDomain converts the response to domain.WorkDetails.
func (w *WorkResponse) ToDomain() *domain.WorkDetails {
	details := &domain.WorkDetails{
		Key:              w.Key,
		Title:            strings.TrimSpace(w.Title),
		Description:      w.Description.String(),
		Subjects:         w.Subjects,
		FirstPublishDate: strings.TrimSpace(w.FirstPublishDate),
		Created:          w.Created.String(),
		LastModified:     w.LastModified.String(),
	}

	// The API uses -1 for removed covers.
	for _, id := range w.Covers {
		if id > 0 {
			details.Covers = append(details.Covers, id)
		}
	}

	for _, a := range w.Authors {
		if a.Author.Key != "" {
			details.AuthorKeys = append(details.AuthorKeys, a.Author.Key)
		}
	}

	return details
}

// AuthorResponse represents the JSON response of /authors/{id}.json.
type AuthorResponse struct {
	Key       string           `json:"key"`
	Name      domain.TextField `json:"name"`
	Bio       domain.TextField `json:"bio"`
	BirthDate string           `json:"birth_date,omitempty"`
	DeathDate string           `json:"death_date,omitempty"`
}

// ToDomain converts the response to domain.AuthorDetails.
func (a *AuthorResponse) ToDomain() *domain.AuthorDetails {
	return &domain.AuthorDetails{
		Key:       a.Key,
		Name:      a.Name.String(),
		Bio:       a.Bio.String(),
		BirthDate: strings.TrimSpace(a.BirthDate),
		DeathDate: strings.TrimSpace(a.DeathDate),
	}
}

// RecentChange represents an item of /recentchanges.json.
type RecentChange struct {
	ID        string  `json:"id"`
	Kind      string  `json:"kind"`
	Timestamp string  `json:"timestamp"` // e.g. "2024-03-15T10:00:00.123456"
	Comment   string  `json:"comment,omitempty"`
	Author    *keyRef `json:"author,omitempty"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// ToDomain converts the item to domain.RecentChange.
// Unparseable timestamps are left as the zero time.
func (c *RecentChange) ToDomain() domain.RecentChange {
	change := domain.RecentChange{
		ID:      c.ID,
		Kind:    c.Kind,
		Comment: strings.TrimSpace(c.Comment),
	}
	if c.Author != nil {
		change.AuthorKey = c.Author.Key
	}

	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, c.Timestamp); err == nil {
			change.Timestamp = ts.UTC()
			break
		}
	}

	return change
}
