package wikipedia

import (
	"sort"

	"book-discovery-service/internal/domain"
)

// Response represents the MediaWiki query response.
type Response struct {
	Query *struct {
		Pages map[string]Page `json:"pages"`
	} `json:"query"`
}

// Page represents a single page entry. Missing pages carry a "missing" key.
type Page struct {
	PageID    int        `json:"pageid"`
	Title     string     `json:"title"`
	Extract   string     `json:"extract"`
	FullURL   string     `json:"fullurl"`
	Missing   *string    `json:"missing,omitempty"`
	Thumbnail *Thumbnail `json:"thumbnail,omitempty"`
}

// Thumbnail holds the page image.
type Thumbnail struct {
	Source string `json:"source"`
}

// FirstSummary converts the first page of the response, ordered by page key.
func (r *Response) FirstSummary() *domain.EncyclopediaSummary {
	if r.Query == nil || len(r.Query.Pages) == 0 {
		return nil
	}

	keys := make([]string, 0, len(r.Query.Pages))
	for k := range r.Query.Pages {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	page := r.Query.Pages[keys[0]]

	return page.ToDomain()
}

// ToDomain converts the page, nil if it is missing or incomplete.
func (p *Page) ToDomain() *domain.EncyclopediaSummary {
	if p.Missing != nil {
		return nil
	}
	if p.Title == "" || p.Extract == "" || p.FullURL == "" {
		return nil
	}

	summary := &domain.EncyclopediaSummary{
		Title:   p.Title,
		Extract: p.Extract,
		PageURL: p.FullURL,
	}
	if p.Thumbnail != nil {
		summary.Thumbnail = p.Thumbnail.Source
	}

	return summary
}
