package domain

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	// MinQueryLength is the minimum trimmed length of a free-text query.
	MinQueryLength = 2

	// MinPageSize and MaxPageSize bound the number of docs requested per page.
	MinPageSize = 1
	MaxPageSize = 100

	// DefaultPageSize is used by sessions that are not configured otherwise.
	DefaultPageSize = 20
)

// SearchMode distinguishes the two upstream search variants.
type SearchMode string

const (
	SearchModeQuick    SearchMode = "quick"    // q=...
	SearchModeAdvanced SearchMode = "advanced" // title=...&author=...&subject=...
)

// SearchFilters holds the structured filters of an advanced search.
// Zero values mean "not set".
type SearchFilters struct {
	Title            string `json:"title,omitempty"`
	Author           string `json:"author,omitempty"`
	Subject          string `json:"subject,omitempty"`
	FirstPublishYear int    `json:"first_publish_year,omitempty"`
	Language         string `json:"language,omitempty"` // e.g. "eng"
}

// IsEmpty reports whether no filter field carries a value.
func (f *SearchFilters) IsEmpty() bool {
	if f == nil {
		return true
	}

	return strings.TrimSpace(f.Title) == "" &&
		strings.TrimSpace(f.Author) == "" &&
		strings.TrimSpace(f.Subject) == "" &&
		f.FirstPublishYear <= 0 &&
		strings.TrimSpace(f.Language) == ""
}

// trimmed returns a copy with every text field trimmed and non-positive years dropped.
func (f SearchFilters) trimmed() SearchFilters {
	out := SearchFilters{
		Title:    strings.TrimSpace(f.Title),
		Author:   strings.TrimSpace(f.Author),
		Subject:  strings.TrimSpace(f.Subject),
		Language: strings.TrimSpace(f.Language),
	}
	if f.FirstPublishYear > 0 {
		out.FirstPublishYear = f.FirstPublishYear
	}

	return out
}

// SearchRequest is a validated, bounded search descriptor.
// It is built fresh for every attempt by BuildSearchRequest and never mutated.
type SearchRequest struct {
	Mode     SearchMode
	FreeText string
	Page     int
	PageSize int
	Filters  SearchFilters
}

// BuildSearchRequest turns raw user input into a SearchRequest.
//
// Without filters the trimmed query must be at least MinQueryLength runes.
// With a non-empty filter set the request runs in advanced mode and the free
// text, if any, is sent as the title filter. The page must be >= 1; the page
// size is clamped into [MinPageSize, MaxPageSize].
func BuildSearchRequest(rawQuery string, page, pageSize int, filters *SearchFilters) (SearchRequest, error) {
	q := strings.TrimSpace(rawQuery)

	req := SearchRequest{
		FreeText: q,
		Page:     page,
		PageSize: ClampInt(pageSize, MinPageSize, MaxPageSize),
	}

	switch {
	case !filters.IsEmpty():
		req.Mode = SearchModeAdvanced
		req.Filters = filters.trimmed()
		if q != "" {
			req.Filters.Title = q
		}
	case filters != nil && q == "":
		return SearchRequest{}, ErrNoFilters
	case utf8.RuneCountInString(q) < MinQueryLength:
		return SearchRequest{}, ErrQueryTooShort
	default:
		req.Mode = SearchModeQuick
	}

	if page < 1 {
		return SearchRequest{}, ErrInvalidPage
	}

	return req, nil
}

// QueryParams renders the request as upstream query parameters.
func (r SearchRequest) QueryParams() map[string]string {
	params := map[string]string{
		"page":  strconv.Itoa(r.Page),
		"limit": strconv.Itoa(r.PageSize),
	}

	if r.Mode == SearchModeQuick {
		params["q"] = r.FreeText
		return params
	}

	if r.Filters.Title != "" {
		params["title"] = r.Filters.Title
	}
	if r.Filters.Author != "" {
		params["author"] = r.Filters.Author
	}
	if r.Filters.Subject != "" {
		params["subject"] = r.Filters.Subject
	}
	if r.Filters.FirstPublishYear > 0 {
		params["first_publish_year"] = strconv.Itoa(r.Filters.FirstPublishYear)
	}
	if r.Filters.Language != "" {
		params["language"] = r.Filters.Language
	}

	return params
}

// ClampInt bounds v into [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}

// SearchDoc is a single upstream search hit, as decoded by the catalog client.
type SearchDoc struct {
	Key              string
	Title            string
	AuthorNames      []string
	CoverID          int
	FirstPublishYear int
	EditionCount     int
}

// SearchPayload is the decoded upstream search response.
// A nil Docs slice means the upstream omitted the list field.
type SearchPayload struct {
	NumFound int
	Start    int
	Docs     []SearchDoc
}

// SearchResultPage holds one page of book summaries.
type SearchResultPage struct {
	TotalFound  int           `json:"total_found"`
	StartOffset int           `json:"start_offset"` // as reported by upstream
	Page        int           `json:"page"`
	PageSize    int           `json:"page_size"`
	Items       []BookSummary `json:"items"`
}

// NewSearchResultPage maps a payload into a result page for req.
// Docs without a key or title are skipped and the page never holds more than
// req.PageSize items.
func NewSearchResultPage(payload *SearchPayload, req SearchRequest) *SearchResultPage {
	items := make([]BookSummary, 0, len(payload.Docs))
	for _, doc := range payload.Docs {
		if len(items) == req.PageSize {
			break
		}
		summary, ok := NewBookSummary(doc)
		if !ok {
			continue
		}
		items = append(items, summary)
	}

	total := payload.NumFound
	if total < 0 {
		total = 0
	}
	start := payload.Start
	if start < 0 {
		start = 0
	}

	return &SearchResultPage{
		TotalFound:  total,
		StartOffset: start,
		Page:        req.Page,
		PageSize:    req.PageSize,
		Items:       items,
	}
}

// TotalPages returns the number of pages needed for TotalFound.
func (p *SearchResultPage) TotalPages() int {
	if p.PageSize <= 0 {
		return 0
	}

	pages := p.TotalFound / p.PageSize
	if p.TotalFound%p.PageSize > 0 {
		pages++
	}

	return pages
}

// HasPrev reports whether a previous page exists.
func (p *SearchResultPage) HasPrev() bool {
	return p.Page > 1
}

// HasNext reports whether a following page exists.
func (p *SearchResultPage) HasNext() bool {
	return p.Page < p.TotalPages()
}
