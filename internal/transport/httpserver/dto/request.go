// Package dto provides Data Transfer Objects for HTTP requests and responses.
package dto

import (
	"strings"

	"book-discovery-service/internal/domain"
)

// SearchRequest represents the query parameters of a book search.
// Range rules on page and query length are enforced by the domain builder so
// that the session records them as errors; only abusive input is rejected here.
type SearchRequest struct {
	Query            string `query:"q" validate:"max=200"`
	Mode             string `query:"mode" validate:"omitempty,oneof=quick advanced"`
	Page             int    `query:"page"`
	Title            string `query:"title" validate:"max=200"`
	Author           string `query:"author" validate:"max=200"`
	Subject          string `query:"subject" validate:"max=200"`
	FirstPublishYear int    `query:"first_publish_year" validate:"omitempty,min=0,max=9999"`
	Language         string `query:"language" validate:"omitempty,max=8,alpha"`
}

// PageOrDefault returns the requested page, 1 when none was given.
func (r *SearchRequest) PageOrDefault() int {
	if r.Page == 0 {
		return 1
	}
	return r.Page
}

// Advanced reports whether the request targets the advanced search form.
func (r *SearchRequest) Advanced() bool {
	return r.Mode == string(domain.SearchModeAdvanced) ||
		strings.TrimSpace(r.Title) != "" ||
		strings.TrimSpace(r.Author) != "" ||
		strings.TrimSpace(r.Subject) != "" ||
		r.FirstPublishYear > 0 ||
		strings.TrimSpace(r.Language) != ""
}

// ToFilters converts the filter fields, nil for a quick search.
func (r *SearchRequest) ToFilters() *domain.SearchFilters {
	if !r.Advanced() {
		return nil
	}

	return &domain.SearchFilters{
		Title:            r.Title,
		Author:           r.Author,
		Subject:          r.Subject,
		FirstPublishYear: r.FirstPublishYear,
		Language:         r.Language,
	}
}

// SuggestRequest represents the query parameters for title suggestions.
type SuggestRequest struct {
	Query string `query:"q" validate:"max=200"`
}

// RecentChangesRequest represents the query parameters of the activity feed.
// Out-of-range limits are clamped, never rejected.
type RecentChangesRequest struct {
	Limit int `query:"limit"`
}
