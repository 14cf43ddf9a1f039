package dto

import (
	"time"

	"book-discovery-service/internal/app/service"
	"book-discovery-service/internal/domain"
)

// BookResponse represents a single book card in the response.
type BookResponse struct {
	ID               string `json:"id"`
	Key              string `json:"key"`
	Title            string `json:"title"`
	Author           string `json:"author,omitempty"`
	CoverURL         string `json:"cover_url,omitempty"`
	DetailLink       string `json:"detail_link"`
	FirstPublishYear int    `json:"first_publish_year,omitempty"`
	EditionCount     int    `json:"edition_count,omitempty"`
}

// FromBookSummary converts domain.BookSummary to BookResponse.
func FromBookSummary(b domain.BookSummary) BookResponse {
	return BookResponse{
		ID:               b.ID,
		Key:              b.Key,
		Title:            b.Title,
		Author:           b.PrimaryAuthor,
		CoverURL:         b.CoverURL(),
		DetailLink:       b.DetailLink,
		FirstPublishYear: b.FirstPublishYear,
		EditionCount:     b.EditionCount,
	}
}

// SearchResponse represents the state of the visitor's search session.
type SearchResponse struct {
	Status     string                `json:"status"`
	Query      string                `json:"query"`
	Filters    *domain.SearchFilters `json:"filters,omitempty"`
	Error      string                `json:"error,omitempty"`
	Code       string                `json:"code,omitempty"`
	Books      []BookResponse        `json:"books"`
	Pagination PaginationMeta        `json:"pagination"`
}

// PaginationMeta holds pagination metadata.
type PaginationMeta struct {
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	TotalPages int  `json:"total_pages"`
	HasPrev    bool `json:"has_prev"`
	HasNext    bool `json:"has_next"`
}

// FromSearchView converts a session snapshot to SearchResponse.
func FromSearchView(v service.SearchView) SearchResponse {
	resp := SearchResponse{
		Status:  string(v.Status),
		Query:   v.Query,
		Filters: v.Filters,
		Error:   v.Error,
		Code:    ErrorCodeForKind(v.ErrorKind),
		Books:   []BookResponse{},
		Pagination: PaginationMeta{
			Page:     v.Page,
			PageSize: v.PageSize,
		},
	}

	if v.Result == nil {
		return resp
	}

	resp.Books = make([]BookResponse, len(v.Result.Items))
	for i, b := range v.Result.Items {
		resp.Books[i] = FromBookSummary(b)
	}
	resp.Pagination = PaginationMeta{
		Total:      v.Result.TotalFound,
		Page:       v.Result.Page,
		PageSize:   v.Result.PageSize,
		TotalPages: v.Result.TotalPages(),
		HasPrev:    v.Result.HasPrev(),
		HasNext:    v.Result.HasNext(),
	}

	return resp
}

// SuggestionsResponse represents title suggestions.
type SuggestionsResponse struct {
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
}

// RecentChangesResponse represents the activity feed.
type RecentChangesResponse struct {
	Changes []service.ActivityEntry `json:"changes"`
	Count   int                     `json:"count"`
}

// HealthResponse represents health check response.
type HealthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks,omitempty"`
	Timestamp string            `json:"timestamp"`
}

// NewHealthResponse stamps a health response with the current time.
func NewHealthResponse(status string, checks map[string]string) HealthResponse {
	return HealthResponse{
		Status:    status,
		Checks:    checks,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// Error codes returned by the API.
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeInvalidParams       = "INVALID_PARAMS"
	CodeNotFound            = "NOT_FOUND"
	CodeUpstreamError       = "UPSTREAM_ERROR"
	CodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	CodeUpstreamMalformed   = "UPSTREAM_MALFORMED"
	CodeInternal            = "INTERNAL_ERROR"
)

// ErrorCodeForKind maps a session error kind to an API error code.
func ErrorCodeForKind(kind string) string {
	switch kind {
	case "":
		return ""
	case service.ErrorKindValidation:
		return CodeValidation
	case string(domain.FetchErrorHTTPStatus):
		return CodeUpstreamError
	case string(domain.FetchErrorNetwork):
		return CodeUpstreamUnavailable
	case string(domain.FetchErrorMalformed):
		return CodeUpstreamMalformed
	default:
		return CodeInternal
	}
}
