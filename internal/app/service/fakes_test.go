package service

import (
	"context"
	"fmt"
	"sync"

	"book-discovery-service/internal/domain"
)

// fakeCatalog is an in-memory domain.Catalog. Searches for a query with a
// registered gate block until the gate is closed.
type fakeCatalog struct {
	mu       sync.Mutex
	calls    []domain.SearchRequest
	payloads map[string]*domain.SearchPayload
	errs     map[string]error
	gates    map[string]chan struct{}
	started  chan domain.SearchRequest

	works       map[string]*domain.WorkDetails
	authors     map[string]*domain.AuthorDetails
	workErr     error
	authorErr   error
	changes     []domain.RecentChange
	changesErr  error
	changeLimit int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		payloads: make(map[string]*domain.SearchPayload),
		errs:     make(map[string]error),
		gates:    make(map[string]chan struct{}),
		works:    make(map[string]*domain.WorkDetails),
		authors:  make(map[string]*domain.AuthorDetails),
	}
}

func searchKey(req domain.SearchRequest) string {
	if req.Mode == domain.SearchModeAdvanced {
		return fmt.Sprintf("advanced:%+v", req.Filters)
	}
	return req.FreeText
}

func (f *fakeCatalog) Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchPayload, error) {
	key := searchKey(req)

	f.mu.Lock()
	f.calls = append(f.calls, req)
	gate := f.gates[key]
	payload, err := f.payloads[key], f.errs[key]
	started := f.started
	f.mu.Unlock()

	if started != nil {
		started <- req
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, &domain.FetchError{Kind: domain.FetchErrorNetwork, Source: "fake", Err: ctx.Err()}
		}
	}

	if err != nil {
		return nil, err
	}
	if payload == nil {
		return &domain.SearchPayload{Docs: []domain.SearchDoc{}}, nil
	}
	return payload, nil
}

func (f *fakeCatalog) GetWork(_ context.Context, key string) (*domain.WorkDetails, error) {
	if f.workErr != nil {
		return nil, f.workErr
	}
	work, ok := f.works[key]
	if !ok {
		return nil, &domain.FetchError{Kind: domain.FetchErrorHTTPStatus, StatusCode: 404, Source: "fake", URL: key}
	}
	return work, nil
}

func (f *fakeCatalog) GetAuthor(_ context.Context, key string) (*domain.AuthorDetails, error) {
	if f.authorErr != nil {
		return nil, f.authorErr
	}
	author, ok := f.authors[key]
	if !ok {
		return nil, &domain.FetchError{Kind: domain.FetchErrorHTTPStatus, StatusCode: 404, Source: "fake", URL: key}
	}
	return author, nil
}

func (f *fakeCatalog) RecentChanges(_ context.Context, limit int) ([]domain.RecentChange, error) {
	f.mu.Lock()
	f.changeLimit = limit
	f.mu.Unlock()

	if f.changesErr != nil {
		return nil, f.changesErr
	}
	return f.changes, nil
}

func (f *fakeCatalog) HealthCheck(context.Context) error {
	return f.changesErr
}

func (f *fakeCatalog) setPayload(key string, payload *domain.SearchPayload) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads[key] = payload
}

func (f *fakeCatalog) setErr(key string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[key] = err
}

func (f *fakeCatalog) gate(key string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[key] = ch
	return ch
}

func (f *fakeCatalog) searchCalls() []domain.SearchRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.SearchRequest(nil), f.calls...)
}

// fakeEncyclopedia answers summaries from a map; missing entries are "not found".
type fakeEncyclopedia struct {
	mu        sync.Mutex
	summaries map[string]*domain.EncyclopediaSummary
	err       error
	queries   []string
}

func (f *fakeEncyclopedia) Summary(_ context.Context, query string) (*domain.EncyclopediaSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.summaries[query], nil
}

func docs(titles ...string) []domain.SearchDoc {
	out := make([]domain.SearchDoc, 0, len(titles))
	for i, title := range titles {
		out = append(out, domain.SearchDoc{
			Key:   fmt.Sprintf("/works/OL%dW", i+1),
			Title: title,
		})
	}
	return out
}
