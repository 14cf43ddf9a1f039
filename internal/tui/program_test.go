package tui

import (
	"context"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"book-discovery-service/internal/app/service"
	"book-discovery-service/internal/domain"
)

type titleCatalog struct {
	titles []string
}

func (c titleCatalog) Search(context.Context, domain.SearchRequest) (*domain.SearchPayload, error) {
	docs := make([]domain.SearchDoc, 0, len(c.titles))
	for _, title := range c.titles {
		docs = append(docs, domain.SearchDoc{Title: title})
	}
	return &domain.SearchPayload{NumFound: len(docs), Docs: docs}, nil
}

func (titleCatalog) GetWork(context.Context, string) (*domain.WorkDetails, error) {
	return nil, &domain.FetchError{Kind: domain.FetchErrorHTTPStatus, StatusCode: 404, Source: "openlibrary"}
}

func (titleCatalog) GetAuthor(context.Context, string) (*domain.AuthorDetails, error) {
	return nil, &domain.FetchError{Kind: domain.FetchErrorHTTPStatus, StatusCode: 404, Source: "openlibrary"}
}

func (titleCatalog) RecentChanges(context.Context, int) ([]domain.RecentChange, error) {
	return nil, nil
}

func (titleCatalog) HealthCheck(context.Context) error { return nil }

// observedSuggester reports every update after the program has accepted it.
type observedSuggester struct {
	*service.Suggester
	delivered chan []string
}

func (o *observedSuggester) SetOnUpdate(fn func([]string)) {
	if fn == nil {
		o.Suggester.SetOnUpdate(nil)
		return
	}
	o.Suggester.SetOnUpdate(func(titles []string) {
		fn(titles)
		o.delivered <- titles
	})
}

func waitDelivered(t *testing.T, ch <-chan []string) []string {
	t.Helper()

	select {
	case titles := <-ch:
		return titles
	case <-time.After(2 * time.Second):
		require.FailNow(t, "suggestion update never reached the program")
		return nil
	}
}

func TestProgram_BackspaceBelowMinimumKeepsRunning(t *testing.T) {
	suggester := service.NewSuggester(titleCatalog{titles: []string{"Dune"}}, service.SuggesterConfig{Delay: time.Millisecond}, zap.NewNop())
	defer suggester.Close()
	suggest := &observedSuggester{Suggester: suggester, delivered: make(chan []string, 8)}

	ctx := context.Background()
	m := NewModel(ctx, &fakeSession{}, suggest)
	p := newProgram(ctx, m, suggest,
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
		tea.WithoutRenderer(),
		tea.WithoutSignalHandler(),
	)

	var final tea.Model
	var runErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		final, runErr = p.Run()
	}()

	p.Send(runes("dune"))
	assert.Equal(t, []string{"Dune"}, waitDelivered(t, suggest.delivered))

	for range 3 {
		p.Send(key(tea.KeyBackspace))
	}
	// Lookups for "dun" and "du" may still land before the clear.
	for titles := waitDelivered(t, suggest.delivered); titles != nil; titles = waitDelivered(t, suggest.delivered) {
		assert.Equal(t, []string{"Dune"}, titles)
	}

	p.Quit()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("program stopped processing messages after the input shrank")
	}

	require.NoError(t, runErr)
	browser, ok := final.(*Model)
	require.True(t, ok)
	assert.Equal(t, "d", browser.input.Value())
	assert.Empty(t, browser.suggestions)
}
