// Package tui provides the interactive terminal browser.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"book-discovery-service/internal/app/service"
	"book-discovery-service/internal/domain"
)

const (
	inputWidth          = 48
	maxShownSuggestions = 5
)

var runProgram = func(p *tea.Program) (tea.Model, error) {
	return p.Run()
}

// SearchRunner is the search state behind the browser.
type SearchRunner interface {
	Search(ctx context.Context, query string, page int, filters *domain.SearchFilters) service.SearchView
	GoToPage(ctx context.Context, page int) service.SearchView
	View() service.SearchView
}

// SuggestionSource produces title suggestions for partial input.
type SuggestionSource interface {
	Input(query string) <-chan struct{}
	SetOnUpdate(fn func([]string))
}

type focus int

const (
	focusInput focus = iota
	focusResults
)

type suggestionsMsg []string

type searchDoneMsg struct {
	view service.SearchView
}

// Model is the bubbletea model of the browser.
type Model struct {
	ctx     context.Context
	session SearchRunner
	suggest SuggestionSource

	input       textinput.Model
	spinner     spinner.Model
	focus       focus
	suggestions []string
	view        service.SearchView
	cursor      int
	selected    *domain.BookSummary
}

// NewModel creates a browser bound to session and suggest.
func NewModel(ctx context.Context, session SearchRunner, suggest SuggestionSource) *Model {
	input := textinput.New()
	input.Placeholder = "Search by title or author"
	input.CharLimit = 200
	input.Width = inputWidth
	input.Prompt = "> "
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = spinnerStyle

	return &Model{
		ctx:     ctx,
		session: session,
		suggest: suggest,
		input:   input,
		spinner: spin,
		view:    session.View(),
	}
}

// Selected returns the book chosen with enter, nil if the user quit.
func (m *Model) Selected() *domain.BookSummary {
	return m.selected
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width > 8 {
			m.input.Width = min(inputWidth, msg.Width-8)
		}
		return m, nil

	case suggestionsMsg:
		m.suggestions = msg
		return m, nil

	case searchDoneMsg:
		m.view = msg.view
		m.cursor = 0
		if m.focus == focusResults && len(m.items()) == 0 {
			m.focusInputField()
		}
		if m.view.Loading() {
			return m, m.spinner.Tick
		}
		return m, nil

	case spinner.TickMsg:
		if !m.view.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.focus == focusResults {
			return m.updateResults(msg)
		}
		return m.updateInput(msg)
	}

	return m, nil
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyEnter:
		query := strings.TrimSpace(m.input.Value())
		if query == "" {
			return m, nil
		}
		m.suggestions = nil
		return m, m.search(query)
	case tea.KeyTab:
		if len(m.suggestions) > 0 {
			m.input.SetValue(m.suggestions[0])
			m.input.CursorEnd()
			m.suggestions = nil
		}
		return m, nil
	case tea.KeyDown:
		if len(m.items()) > 0 {
			m.focus = focusResults
			m.input.Blur()
		}
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.suggest.Input(after)
	}
	return m, cmd
}

func (m *Model) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.items()

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "/":
		m.focusInputField()
		return m, textinput.Blink
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		} else {
			m.focusInputField()
			return m, textinput.Blink
		}
	case "down", "j":
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case "enter":
		if m.cursor < len(items) {
			book := items[m.cursor]
			m.selected = &book
			return m, tea.Quit
		}
	case "right", "n":
		if r := m.view.Result; r != nil && r.HasNext() {
			return m, m.goToPage(r.Page + 1)
		}
	case "left", "p":
		if r := m.view.Result; r != nil && r.HasPrev() {
			return m, m.goToPage(r.Page - 1)
		}
	}

	return m, nil
}

func (m *Model) focusInputField() {
	m.focus = focusInput
	m.input.Focus()
}

func (m *Model) items() []domain.BookSummary {
	if m.view.Result == nil {
		return nil
	}
	return m.view.Result.Items
}

func (m *Model) search(query string) tea.Cmd {
	m.view.Status = service.StatusLoading
	ctx, session := m.ctx, m.session

	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return searchDoneMsg{view: session.Search(ctx, query, 1, nil)}
	})
}

func (m *Model) goToPage(page int) tea.Cmd {
	m.view.Status = service.StatusLoading
	ctx, session := m.ctx, m.session

	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return searchDoneMsg{view: session.GoToPage(ctx, page)}
	})
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Open Library"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	if m.view.Loading() {
		b.WriteString(" " + m.spinner.View())
	}
	b.WriteString("\n")

	if m.focus == focusInput && len(m.suggestions) > 0 {
		for i, s := range m.suggestions {
			if i == maxShownSuggestions {
				break
			}
			if i == 0 {
				b.WriteString(activeSuggestionStyle.Render("  "+s) + hintStyle.Render("  tab"))
			} else {
				b.WriteString(suggestionStyle.Render("  " + s))
			}
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	b.WriteString(m.resultsView())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help()))

	return b.String()
}

func (m *Model) resultsView() string {
	switch {
	case m.view.Status == service.StatusError:
		return errorStyle.Render(m.view.Error) + "\n"
	case m.view.Result == nil:
		return ""
	case len(m.view.Result.Items) == 0:
		return statusStyle.Render("No books found.") + "\n"
	}

	r := m.view.Result
	var b strings.Builder
	b.WriteString(statusStyle.Render(fmt.Sprintf("%d books found, page %d of %d", r.TotalFound, r.Page, r.TotalPages())))
	b.WriteString("\n")

	for i, book := range r.Items {
		line := formatBook(book)
		if m.focus == focusResults && i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString(itemStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (m *Model) help() string {
	if m.focus == focusResults {
		return "Up/Down move | Enter open | n/p page | / search | q quit"
	}
	return "Enter search | Tab complete | Down results | Esc quit"
}

func formatBook(b domain.BookSummary) string {
	line := b.Title
	if b.PrimaryAuthor != "" {
		line += " by " + b.PrimaryAuthor
	}
	if b.FirstPublishYear > 0 {
		line += fmt.Sprintf(" (%d)", b.FirstPublishYear)
	}
	return line
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))

	suggestionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("247"))

	activeSuggestionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("254"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Faint(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("110"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("161"))

	itemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("237"))

	helpStyle = lipgloss.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color("244"))
)

// Run starts the browser and blocks until the user quits or picks a book.
func Run(ctx context.Context, session SearchRunner, suggest SuggestionSource) (*domain.BookSummary, error) {
	p := newProgram(ctx, NewModel(ctx, session, suggest), suggest)
	defer suggest.SetOnUpdate(nil)

	final, err := runProgram(p)
	if err != nil {
		return nil, err
	}

	if typed, ok := final.(*Model); ok {
		return typed.Selected(), nil
	}

	return nil, fmt.Errorf("unexpected program result")
}

// newProgram builds the program for m and routes suggestion updates into it.
// The suggester calls back from its own goroutines, so Send never runs on
// the event loop.
func newProgram(ctx context.Context, m *Model, suggest SuggestionSource, opts ...tea.ProgramOption) *tea.Program {
	p := tea.NewProgram(m, append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)...)

	suggest.SetOnUpdate(func(titles []string) {
		p.Send(suggestionsMsg(titles))
	})

	return p
}
