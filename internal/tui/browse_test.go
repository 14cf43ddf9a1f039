package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"book-discovery-service/internal/app/service"
	"book-discovery-service/internal/domain"
)

type fakeSession struct {
	queries []string
	pages   []int
	view    service.SearchView
}

func (f *fakeSession) Search(_ context.Context, query string, page int, _ *domain.SearchFilters) service.SearchView {
	f.queries = append(f.queries, query)
	f.pages = append(f.pages, page)
	return f.view
}

func (f *fakeSession) GoToPage(_ context.Context, page int) service.SearchView {
	f.pages = append(f.pages, page)
	return f.view
}

func (f *fakeSession) View() service.SearchView {
	return service.SearchView{Page: 1, Status: service.StatusIdle}
}

type fakeSuggester struct {
	inputs   []string
	onUpdate func([]string)
}

func (f *fakeSuggester) Input(query string) <-chan struct{} {
	f.inputs = append(f.inputs, query)
	ch := make(chan struct{})
	close(ch)
	return ch
}

func (f *fakeSuggester) SetOnUpdate(fn func([]string)) {
	f.onUpdate = fn
}

func successView(total, page int) service.SearchView {
	return service.SearchView{
		Query:    "mock",
		Page:     page,
		PageSize: 2,
		Status:   service.StatusSuccess,
		Result: &domain.SearchResultPage{
			TotalFound: total,
			Page:       page,
			PageSize:   2,
			Items: []domain.BookSummary{
				{ID: "OL1W", Title: "Mock Book One", PrimaryAuthor: "Mock Author", FirstPublishYear: 1999},
				{ID: "OL2W", Title: "Mock Book Two", PrimaryAuthor: "Another Author"},
			},
		},
	}
}

// collect runs cmd and every command batched inside it.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}

	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func searchDone(t *testing.T, cmd tea.Cmd) searchDoneMsg {
	t.Helper()

	for _, msg := range collect(cmd) {
		if done, ok := msg.(searchDoneMsg); ok {
			return done
		}
	}
	require.FailNow(t, "no search result message")
	return searchDoneMsg{}
}

func typeText(m *Model, text string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_InitialView(t *testing.T) {
	m := NewModel(context.Background(), &fakeSession{}, &fakeSuggester{})

	out := m.View()
	assert.Contains(t, out, "Open Library")
	assert.Contains(t, out, "Enter search")
	assert.Nil(t, m.Selected())
}

func TestModel_TypingFeedsSuggester(t *testing.T) {
	suggest := &fakeSuggester{}
	m := NewModel(context.Background(), &fakeSession{}, suggest)

	typeText(m, "ho")
	typeText(m, "b")

	assert.Equal(t, []string{"ho", "hob"}, suggest.inputs)
}

func TestModel_SuggestionsAndTabComplete(t *testing.T) {
	m := NewModel(context.Background(), &fakeSession{}, &fakeSuggester{})
	typeText(m, "hob")

	m.Update(suggestionsMsg{"The Hobbit", "Hobbit Tales"})
	out := m.View()
	assert.Contains(t, out, "The Hobbit")
	assert.Contains(t, out, "Hobbit Tales")

	m.Update(key(tea.KeyTab))
	assert.Equal(t, "The Hobbit", m.input.Value())
	assert.NotContains(t, m.View(), "Hobbit Tales")
}

func TestModel_EnterRunsSearch(t *testing.T) {
	session := &fakeSession{view: successView(2, 1)}
	m := NewModel(context.Background(), session, &fakeSuggester{})
	typeText(m, "mock")

	_, cmd := m.Update(key(tea.KeyEnter))
	require.NotNil(t, cmd)
	assert.True(t, m.view.Loading())

	m.Update(searchDone(t, cmd))

	assert.Equal(t, []string{"mock"}, session.queries)
	assert.Equal(t, []int{1}, session.pages)
	assert.False(t, m.view.Loading())

	out := m.View()
	assert.Contains(t, out, "2 books found, page 1 of 1")
	assert.Contains(t, out, "Mock Book One by Mock Author (1999)")
	assert.Contains(t, out, "Mock Book Two by Another Author")
}

func TestModel_EnterOnBlankInputDoesNothing(t *testing.T) {
	session := &fakeSession{}
	m := NewModel(context.Background(), session, &fakeSuggester{})
	typeText(m, "   ")

	_, cmd := m.Update(key(tea.KeyEnter))

	assert.Nil(t, cmd)
	assert.Empty(t, session.queries)
}

func TestModel_SelectResult(t *testing.T) {
	session := &fakeSession{view: successView(2, 1)}
	m := NewModel(context.Background(), session, &fakeSuggester{})
	m.Update(searchDoneMsg{view: session.view})

	m.Update(key(tea.KeyDown))
	assert.Equal(t, focusResults, m.focus)
	assert.Contains(t, m.View(), "> Mock Book One")

	m.Update(runes("j"))
	_, cmd := m.Update(key(tea.KeyEnter))

	require.NotNil(t, m.Selected())
	assert.Equal(t, "OL2W", m.Selected().ID)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_UpFromFirstResultReturnsToInput(t *testing.T) {
	session := &fakeSession{view: successView(2, 1)}
	m := NewModel(context.Background(), session, &fakeSuggester{})
	m.Update(searchDoneMsg{view: session.view})

	m.Update(key(tea.KeyDown))
	m.Update(runes("k"))

	assert.Equal(t, focusInput, m.focus)
}

func TestModel_Paging(t *testing.T) {
	session := &fakeSession{view: successView(5, 2)}
	m := NewModel(context.Background(), session, &fakeSuggester{})
	m.Update(searchDoneMsg{view: session.view})
	m.Update(key(tea.KeyDown))

	_, cmd := m.Update(runes("n"))
	searchDone(t, cmd)
	_, cmd = m.Update(runes("p"))
	searchDone(t, cmd)

	assert.Equal(t, []int{3, 1}, session.pages)
}

func TestModel_NoPagingPastLastPage(t *testing.T) {
	session := &fakeSession{view: successView(2, 1)}
	m := NewModel(context.Background(), session, &fakeSuggester{})
	m.Update(searchDoneMsg{view: session.view})
	m.Update(key(tea.KeyDown))

	_, next := m.Update(runes("n"))
	_, prev := m.Update(runes("p"))

	assert.Nil(t, next)
	assert.Nil(t, prev)
	assert.Empty(t, session.pages)
}

func TestModel_ErrorView(t *testing.T) {
	m := NewModel(context.Background(), &fakeSession{}, &fakeSuggester{})

	m.Update(searchDoneMsg{view: service.SearchView{Status: service.StatusError, Error: "query too short"}})

	assert.Contains(t, m.View(), "query too short")
}

func TestModel_EmptyResultsReturnFocusToInput(t *testing.T) {
	session := &fakeSession{view: successView(2, 1)}
	m := NewModel(context.Background(), session, &fakeSuggester{})
	m.Update(searchDoneMsg{view: session.view})
	m.Update(key(tea.KeyDown))

	m.Update(searchDoneMsg{view: service.SearchView{Status: service.StatusSuccess, Result: &domain.SearchResultPage{Page: 1, PageSize: 2}}})

	assert.Equal(t, focusInput, m.focus)
	assert.Contains(t, m.View(), "No books found.")
}

func TestModel_Quit(t *testing.T) {
	m := NewModel(context.Background(), &fakeSession{}, &fakeSuggester{})

	_, cmd := m.Update(key(tea.KeyEsc))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = m.Update(key(tea.KeyCtrlC))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Nil(t, m.Selected())
}

func TestRun_WiresSuggestionsAndReturnsSelection(t *testing.T) {
	orig := runProgram
	t.Cleanup(func() { runProgram = orig })

	suggest := &fakeSuggester{}
	runProgram = func(p *tea.Program) (tea.Model, error) {
		assert.NotNil(t, suggest.onUpdate)

		m := NewModel(context.Background(), &fakeSession{}, suggest)
		m.selected = &domain.BookSummary{ID: "OL1W"}
		return m, nil
	}

	book, err := Run(context.Background(), &fakeSession{}, suggest)
	require.NoError(t, err)

	require.NotNil(t, book)
	assert.Equal(t, "OL1W", book.ID)
	assert.Nil(t, suggest.onUpdate)
}
