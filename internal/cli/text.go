package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"book-discovery-service/internal/app/service"
	"book-discovery-service/internal/domain"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("161"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)
}

func writeSearchText(w io.Writer, view service.SearchView) error {
	if view.Status == service.StatusError {
		_, err := fmt.Fprintln(w, errorStyle.Render(view.Error))
		return err
	}

	page := view.Result
	if page == nil || len(page.Items) == 0 {
		_, err := fmt.Fprintf(w, "No books found for %q.\n", describeQuery(view))
		return err
	}

	t := newTable("ID", "TITLE", "AUTHOR", "YEAR")
	for _, b := range page.Items {
		t.Row(b.ID, b.Title, orDash(b.PrimaryAuthor), yearOrDash(b.FirstPublishYear))
	}

	footer := fmt.Sprintf("%d books found, page %d of %d", page.TotalFound, page.Page, page.TotalPages())
	_, err := fmt.Fprintf(w, "%s\n%s\n", t.Render(), mutedStyle.Render(footer))
	return err
}

func describeQuery(view service.SearchView) string {
	if view.Query != "" || view.Filters == nil {
		return view.Query
	}

	var parts []string
	f := view.Filters
	if f.Title != "" {
		parts = append(parts, "title:"+f.Title)
	}
	if f.Author != "" {
		parts = append(parts, "author:"+f.Author)
	}
	if f.Subject != "" {
		parts = append(parts, "subject:"+f.Subject)
	}
	if f.FirstPublishYear > 0 {
		parts = append(parts, "year:"+strconv.Itoa(f.FirstPublishYear))
	}
	if f.Language != "" {
		parts = append(parts, "language:"+f.Language)
	}
	return strings.Join(parts, " ")
}

func writeSuggestionsText(w io.Writer, titles []string) error {
	if len(titles) == 0 {
		_, err := fmt.Fprintln(w, mutedStyle.Render("No suggestions."))
		return err
	}

	for _, title := range titles {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	return nil
}

func writeBookText(w io.Writer, book *domain.BookDetails) error {
	var b strings.Builder

	b.WriteString(headingStyle.Render(book.Work.Title))
	b.WriteString("\n")
	fmt.Fprintf(&b, "by %s\n", book.AuthorName())
	if book.Work.FirstPublishDate != "" {
		fmt.Fprintf(&b, "First published: %s\n", book.Work.FirstPublishDate)
	}
	if book.CoverURL != "" {
		fmt.Fprintf(&b, "Cover: %s\n", book.CoverURL)
	}
	if len(book.Work.Subjects) > 0 {
		fmt.Fprintf(&b, "Subjects: %s\n", strings.Join(book.Work.Subjects, ", "))
	}
	if book.Work.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", book.Work.Description)
	}
	if book.BookSummary != nil {
		fmt.Fprintf(&b, "\n%s\n%s\n%s\n", headingStyle.Render("About the book"), book.BookSummary.Extract, mutedStyle.Render(book.BookSummary.PageURL))
	}
	if book.AuthorSummary != nil {
		fmt.Fprintf(&b, "\n%s\n%s\n%s\n", headingStyle.Render("About the author"), book.AuthorSummary.Extract, mutedStyle.Render(book.AuthorSummary.PageURL))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeAuthorText(w io.Writer, author *domain.AuthorDetails) error {
	var b strings.Builder

	b.WriteString(headingStyle.Render(author.Name))
	b.WriteString("\n")
	switch {
	case author.BirthDate != "" && author.DeathDate != "":
		fmt.Fprintf(&b, "%s to %s\n", author.BirthDate, author.DeathDate)
	case author.BirthDate != "":
		fmt.Fprintf(&b, "Born %s\n", author.BirthDate)
	}
	if author.Bio != "" {
		fmt.Fprintf(&b, "\n%s\n", author.Bio)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeChangesText(w io.Writer, entries []service.ActivityEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, mutedStyle.Render("No recent changes."))
		return err
	}

	t := newTable("WHEN", "KIND", "COMMENT", "BY")
	for _, e := range entries {
		t.Row(orDash(e.Age), string(e.Category), orDash(e.Comment), orDash(domain.IDFromKey(e.AuthorKey)))
	}

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func yearOrDash(year int) string {
	if year <= 0 {
		return "-"
	}
	return strconv.Itoa(year)
}
