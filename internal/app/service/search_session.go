// Package service provides application use cases.
package service

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"book-discovery-service/internal/domain"
	"book-discovery-service/pkg/supersede"
)

// SearchStatus is the lifecycle state of a search session.
type SearchStatus string

const (
	StatusIdle    SearchStatus = "idle"
	StatusLoading SearchStatus = "loading"
	StatusSuccess SearchStatus = "success"
	StatusError   SearchStatus = "error"
)

// ErrorKindValidation marks errors raised before any request was issued.
const ErrorKindValidation = "validation"

var errMissingDocs = errors.New("response has no docs list")

// SearchView is a consistent snapshot of a session.
type SearchView struct {
	Query     string                   `json:"query"`
	Page      int                      `json:"page"`
	PageSize  int                      `json:"page_size"`
	Filters   *domain.SearchFilters    `json:"filters,omitempty"`
	Status    SearchStatus             `json:"status"`
	Error     string                   `json:"error,omitempty"`
	ErrorKind string                   `json:"error_kind,omitempty"`
	Result    *domain.SearchResultPage `json:"result,omitempty"`
}

// Loading reports whether a search is in flight.
func (v SearchView) Loading() bool {
	return v.Status == StatusLoading
}

// SearchSession owns the search state of one UI session. Searches may be
// started concurrently; only the most recently issued one changes state.
type SearchSession struct {
	catalog  domain.Catalog
	logger   *zap.Logger
	pageSize int
	guard    supersede.Guard

	mu      sync.Mutex
	query   string
	page    int
	filters *domain.SearchFilters
	status  SearchStatus
	err     error
	result  *domain.SearchResultPage
}

// NewSearchSession creates an idle session. A pageSize outside
// [domain.MinPageSize, domain.MaxPageSize] is clamped.
func NewSearchSession(catalog domain.Catalog, pageSize int, logger *zap.Logger) *SearchSession {
	if pageSize == 0 {
		pageSize = domain.DefaultPageSize
	}

	return &SearchSession{
		catalog:  catalog,
		logger:   logger,
		pageSize: domain.ClampInt(pageSize, domain.MinPageSize, domain.MaxPageSize),
		page:     1,
		status:   StatusIdle,
	}
}

// Search runs a search for query on page with optional advanced filters and
// returns the session state once it has been applied or discarded.
//
// Invalid input moves the session straight to StatusError without touching
// the catalog. While the request is in flight the previous result stays
// visible. A failure clears the result.
func (s *SearchSession) Search(ctx context.Context, query string, page int, filters *domain.SearchFilters) SearchView {
	ticket := s.guard.Issue()
	req, buildErr := domain.BuildSearchRequest(query, page, s.pageSize, filters)

	s.mu.Lock()
	if !ticket.Current() {
		defer s.mu.Unlock()
		return s.viewLocked()
	}

	s.query = query
	s.page = page
	s.filters = copyFilters(filters)

	if buildErr != nil {
		s.failLocked(buildErr)
		defer s.mu.Unlock()
		return s.viewLocked()
	}

	s.status = StatusLoading
	s.err = nil
	s.mu.Unlock()

	s.logger.Debug("search issued",
		zap.Uint64("seq", ticket.Seq()),
		zap.String("mode", string(req.Mode)),
		zap.String("query", req.FreeText),
		zap.Int("page", req.Page),
		zap.Int("page_size", req.PageSize),
	)

	payload, err := s.catalog.Search(ctx, req)
	if err == nil && (payload == nil || payload.Docs == nil) {
		err = &domain.FetchError{Kind: domain.FetchErrorMalformed, Source: "catalog", Err: errMissingDocs}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !ticket.Current() {
		s.logger.Debug("stale search result discarded",
			zap.Uint64("seq", ticket.Seq()),
			zap.Uint64("latest", s.guard.Latest()),
		)
		return s.viewLocked()
	}

	if err != nil {
		s.logger.Warn("search failed",
			zap.String("query", req.FreeText),
			zap.Int("page", req.Page),
			zap.Error(err),
		)
		s.failLocked(err)
		return s.viewLocked()
	}

	s.result = domain.NewSearchResultPage(payload, req)
	s.status = StatusSuccess
	s.err = nil

	s.logger.Debug("search completed",
		zap.Uint64("seq", ticket.Seq()),
		zap.Int("total", s.result.TotalFound),
		zap.Int("count", len(s.result.Items)),
	)

	return s.viewLocked()
}

// GoToPage re-runs the current query and filters on another page.
func (s *SearchSession) GoToPage(ctx context.Context, page int) SearchView {
	s.mu.Lock()
	query, filters := s.query, copyFilters(s.filters)
	s.mu.Unlock()

	return s.Search(ctx, query, page, filters)
}

// Refresh re-runs the current query, page and filters.
func (s *SearchSession) Refresh(ctx context.Context) SearchView {
	s.mu.Lock()
	query, page, filters := s.query, s.page, copyFilters(s.filters)
	s.mu.Unlock()

	return s.Search(ctx, query, page, filters)
}

// SetQuery records the query text without searching.
func (s *SearchSession) SetQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.query = query
}

// SetPage records the page without searching.
func (s *SearchSession) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.page = page
}

// View returns the current state.
func (s *SearchSession) View() SearchView {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.viewLocked()
}

// Close discards every search still in flight.
func (s *SearchSession) Close() {
	s.guard.Invalidate()
}

func (s *SearchSession) failLocked(err error) {
	s.status = StatusError
	s.err = err
	s.result = nil
}

func (s *SearchSession) viewLocked() SearchView {
	view := SearchView{
		Query:    s.query,
		Page:     s.page,
		PageSize: s.pageSize,
		Filters:  copyFilters(s.filters),
		Status:   s.status,
		Result:   s.result,
	}

	if s.err != nil {
		view.Error = domain.ErrorMessage(s.err)
		view.ErrorKind = errorKind(s.err)
	}

	return view
}

func errorKind(err error) string {
	var fe *domain.FetchError
	if errors.As(err, &fe) {
		return string(fe.Kind)
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ErrorKindValidation
	}

	return ""
}

func copyFilters(f *domain.SearchFilters) *domain.SearchFilters {
	if f == nil {
		return nil
	}

	c := *f
	return &c
}
