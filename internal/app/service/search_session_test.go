package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"book-discovery-service/internal/domain"
)

func newTestSession(catalog domain.Catalog) *SearchSession {
	return NewSearchSession(catalog, 20, zap.NewNop())
}

func TestSearchSession_InitialState(t *testing.T) {
	s := newTestSession(newFakeCatalog())

	view := s.View()
	assert.Equal(t, StatusIdle, view.Status)
	assert.Equal(t, 1, view.Page)
	assert.Equal(t, 20, view.PageSize)
	assert.Nil(t, view.Result)
	assert.Empty(t, view.Error)
}

func TestSearchSession_PageSizeBounds(t *testing.T) {
	assert.Equal(t, domain.DefaultPageSize, NewSearchSession(newFakeCatalog(), 0, zap.NewNop()).View().PageSize)
	assert.Equal(t, domain.MaxPageSize, NewSearchSession(newFakeCatalog(), 500, zap.NewNop()).View().PageSize)
	assert.Equal(t, domain.MinPageSize, NewSearchSession(newFakeCatalog(), -3, zap.NewNop()).View().PageSize)
}

func TestSearchSession_Success(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.setPayload("harry potter", &domain.SearchPayload{
		NumFound: 2,
		Docs: []domain.SearchDoc{
			{Key: "/works/OL1W", Title: "Mock Book One", AuthorNames: []string{"J. K. Rowling"}, CoverID: 10},
			{Key: "/works/OL2W", Title: "Mock Book Two"},
		},
	})
	s := newTestSession(catalog)

	view := s.Search(context.Background(), "harry potter", 1, nil)

	assert.Equal(t, StatusSuccess, view.Status)
	assert.Empty(t, view.Error)
	require.NotNil(t, view.Result)
	assert.Len(t, view.Result.Items, 2)
	assert.Equal(t, 2, view.Result.TotalFound)
	assert.Equal(t, "J. K. Rowling", view.Result.Items[0].PrimaryAuthor)
	assert.Equal(t, "/book/OL1W", view.Result.Items[0].DetailLink)

	calls := catalog.searchCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, domain.SearchModeQuick, calls[0].Mode)
	assert.Equal(t, 20, calls[0].PageSize)
}

func TestSearchSession_TwoCharacterQueryIsIssued(t *testing.T) {
	catalog := newFakeCatalog()
	s := newTestSession(catalog)

	view := s.Search(context.Background(), "ab", 1, nil)

	assert.Equal(t, StatusSuccess, view.Status)
	calls := catalog.searchCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "ab", calls[0].FreeText)
}

func TestSearchSession_ShortQueryFailsWithoutRequest(t *testing.T) {
	catalog := newFakeCatalog()
	s := newTestSession(catalog)

	view := s.Search(context.Background(), "a", 1, nil)

	assert.Equal(t, StatusError, view.Status)
	assert.Equal(t, "query too short", view.Error)
	assert.Equal(t, ErrorKindValidation, view.ErrorKind)
	assert.Empty(t, catalog.searchCalls())
}

func TestSearchSession_InvalidPageFailsWithoutRequest(t *testing.T) {
	catalog := newFakeCatalog()
	s := newTestSession(catalog)

	view := s.Search(context.Background(), "dune", 0, nil)

	assert.Equal(t, StatusError, view.Status)
	assert.Equal(t, "invalid page", view.Error)
	assert.Empty(t, catalog.searchCalls())
}

func TestSearchSession_SubjectOnlyFilter(t *testing.T) {
	catalog := newFakeCatalog()
	s := newTestSession(catalog)

	view := s.Search(context.Background(), "", 1, &domain.SearchFilters{Subject: "Fantasy"})

	assert.Equal(t, StatusSuccess, view.Status)
	calls := catalog.searchCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, domain.SearchModeAdvanced, calls[0].Mode)
	assert.Equal(t, "Fantasy", calls[0].Filters.Subject)
	require.NotNil(t, view.Filters)
	assert.Equal(t, "Fantasy", view.Filters.Subject)
}

func TestSearchSession_EmptyFiltersWithoutText(t *testing.T) {
	catalog := newFakeCatalog()
	s := newTestSession(catalog)

	view := s.Search(context.Background(), "  ", 1, &domain.SearchFilters{})

	assert.Equal(t, StatusError, view.Status)
	assert.Equal(t, "no filters supplied", view.Error)
	assert.Empty(t, catalog.searchCalls())
}

func TestSearchSession_FetchErrorClearsResults(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.setPayload("dune", &domain.SearchPayload{NumFound: 1, Docs: docs("Dune")})
	catalog.setErr("dune messiah", &domain.FetchError{Kind: domain.FetchErrorHTTPStatus, StatusCode: 503, Source: "fake"})
	s := newTestSession(catalog)

	first := s.Search(context.Background(), "dune", 1, nil)
	require.Equal(t, StatusSuccess, first.Status)

	view := s.Search(context.Background(), "dune messiah", 1, nil)

	assert.Equal(t, StatusError, view.Status)
	assert.Equal(t, string(domain.FetchErrorHTTPStatus), view.ErrorKind)
	assert.Contains(t, view.Error, "503")
	assert.Nil(t, view.Result)
}

func TestSearchSession_MissingDocsIsMalformed(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.setPayload("dune", &domain.SearchPayload{NumFound: 3})
	s := newTestSession(catalog)

	view := s.Search(context.Background(), "dune", 1, nil)

	assert.Equal(t, StatusError, view.Status)
	assert.Equal(t, string(domain.FetchErrorMalformed), view.ErrorKind)
}

func TestSearchSession_RecoversAfterError(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.setErr("broken", &domain.FetchError{Kind: domain.FetchErrorNetwork, Source: "fake"})
	catalog.setPayload("dune", &domain.SearchPayload{NumFound: 1, Docs: docs("Dune")})
	s := newTestSession(catalog)

	require.Equal(t, StatusError, s.Search(context.Background(), "broken", 1, nil).Status)

	view := s.Search(context.Background(), "dune", 1, nil)
	assert.Equal(t, StatusSuccess, view.Status)
	assert.Empty(t, view.Error)
	assert.Empty(t, view.ErrorKind)
}

func TestSearchSession_Idempotent(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.setPayload("tolkien", &domain.SearchPayload{NumFound: 3, Docs: docs("The Hobbit", "The Silmarillion", "Unfinished Tales")})
	s := newTestSession(catalog)

	first := s.Search(context.Background(), "tolkien", 1, nil)
	second := s.Search(context.Background(), "tolkien", 1, nil)

	assert.Equal(t, first, second)
}

func TestSearchSession_KeepsResultsWhileLoading(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.setPayload("dune", &domain.SearchPayload{NumFound: 1, Docs: docs("Dune")})
	gate := catalog.gate("emma")
	s := newTestSession(catalog)

	s.Search(context.Background(), "dune", 1, nil)

	done := make(chan SearchView, 1)
	go func() { done <- s.Search(context.Background(), "emma", 1, nil) }()

	require.Eventually(t, func() bool { return s.View().Loading() }, time.Second, 5*time.Millisecond)

	loading := s.View()
	require.NotNil(t, loading.Result)
	assert.Equal(t, "Dune", loading.Result.Items[0].Title)
	assert.Equal(t, "emma", loading.Query)

	close(gate)
	assert.Equal(t, StatusSuccess, (<-done).Status)
}

func TestSearchSession_StaleResultNeverOverwritesNewer(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.setPayload("first", &domain.SearchPayload{NumFound: 1, Docs: docs("First Result")})
	catalog.setPayload("second", &domain.SearchPayload{NumFound: 1, Docs: docs("Second Result")})
	gateA := catalog.gate("first")
	gateB := catalog.gate("second")
	catalog.started = make(chan domain.SearchRequest, 2)
	s := newTestSession(catalog)

	doneA := make(chan SearchView, 1)
	doneB := make(chan SearchView, 1)

	go func() { doneA <- s.Search(context.Background(), "first", 1, nil) }()
	<-catalog.started
	go func() { doneB <- s.Search(context.Background(), "second", 1, nil) }()
	<-catalog.started

	// B completes before A.
	close(gateB)
	viewB := <-doneB
	require.Equal(t, StatusSuccess, viewB.Status)

	close(gateA)
	<-doneA

	view := s.View()
	assert.Equal(t, StatusSuccess, view.Status)
	assert.Equal(t, "second", view.Query)
	require.NotNil(t, view.Result)
	assert.Equal(t, "Second Result", view.Result.Items[0].Title)
}

func TestSearchSession_StaleErrorIsDiscarded(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.setErr("first", &domain.FetchError{Kind: domain.FetchErrorNetwork, Source: "fake"})
	catalog.setPayload("second", &domain.SearchPayload{NumFound: 1, Docs: docs("Second Result")})
	gateA := catalog.gate("first")
	catalog.started = make(chan domain.SearchRequest, 2)
	s := newTestSession(catalog)

	doneA := make(chan SearchView, 1)
	go func() { doneA <- s.Search(context.Background(), "first", 1, nil) }()
	<-catalog.started

	viewB := s.Search(context.Background(), "second", 1, nil)
	<-catalog.started
	require.Equal(t, StatusSuccess, viewB.Status)

	close(gateA)
	<-doneA

	view := s.View()
	assert.Equal(t, StatusSuccess, view.Status)
	assert.Empty(t, view.Error)
}

func TestSearchSession_GoToPageAndRefresh(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.setPayload("dune", &domain.SearchPayload{NumFound: 45, Docs: docs("Dune")})
	s := newTestSession(catalog)

	s.Search(context.Background(), "dune", 1, nil)

	view := s.GoToPage(context.Background(), 3)
	assert.Equal(t, 3, view.Page)
	require.NotNil(t, view.Result)
	assert.Equal(t, 3, view.Result.TotalPages())
	assert.False(t, view.Result.HasNext())
	assert.True(t, view.Result.HasPrev())

	s.Refresh(context.Background())

	calls := catalog.searchCalls()
	require.Len(t, calls, 3)
	assert.Equal(t, 3, calls[1].Page)
	assert.Equal(t, 3, calls[2].Page)
	assert.Equal(t, "dune", calls[2].FreeText)
}

func TestSearchSession_SetQueryAndPage(t *testing.T) {
	catalog := newFakeCatalog()
	s := newTestSession(catalog)

	s.SetQuery("emma")
	s.SetPage(2)

	view := s.View()
	assert.Equal(t, "emma", view.Query)
	assert.Equal(t, 2, view.Page)
	assert.Equal(t, StatusIdle, view.Status)
	assert.Empty(t, catalog.searchCalls())

	s.Refresh(context.Background())
	calls := catalog.searchCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, 2, calls[0].Page)
}

func TestSearchSession_CloseDiscardsInFlight(t *testing.T) {
	catalog := newFakeCatalog()
	gate := catalog.gate("dune")
	catalog.started = make(chan domain.SearchRequest, 1)
	s := newTestSession(catalog)

	done := make(chan SearchView, 1)
	go func() { done <- s.Search(context.Background(), "dune", 1, nil) }()
	<-catalog.started

	s.Close()
	close(gate)
	<-done

	view := s.View()
	assert.Equal(t, StatusLoading, view.Status)
	assert.Nil(t, view.Result)
}
