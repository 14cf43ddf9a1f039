// Package domain contains the core business logic and entities.
// This package has no external dependencies (only stdlib).
package domain

import (
	"strings"
	"time"
)

// BookSummary is a single search result as shown on a book card.
type BookSummary struct {
	ID               string `json:"id"`  // work id, e.g. "OL45883W"
	Key              string `json:"key"` // upstream key, e.g. "/works/OL45883W"
	Title            string `json:"title"`
	PrimaryAuthor    string `json:"primary_author,omitempty"`
	CoverImageID     int    `json:"cover_image_id,omitempty"`
	DetailLink       string `json:"detail_link"`
	FirstPublishYear int    `json:"first_publish_year,omitempty"`
	EditionCount     int    `json:"edition_count,omitempty"`
}

// NewBookSummary maps a search doc. It returns false when the doc has no
// usable key or title.
func NewBookSummary(doc SearchDoc) (BookSummary, bool) {
	title := strings.TrimSpace(doc.Title)
	id := IDFromKey(doc.Key)
	if title == "" || id == "" {
		return BookSummary{}, false
	}

	summary := BookSummary{
		ID:               id,
		Key:              doc.Key,
		Title:            title,
		DetailLink:       DetailLink(id),
		FirstPublishYear: doc.FirstPublishYear,
		EditionCount:     doc.EditionCount,
	}

	for _, name := range doc.AuthorNames {
		if name = strings.TrimSpace(name); name != "" {
			summary.PrimaryAuthor = name
			break
		}
	}

	if doc.CoverID > 0 {
		summary.CoverImageID = doc.CoverID
	}

	return summary, true
}

// CoverURL returns the medium cover URL, "" when the book has no cover.
func (b BookSummary) CoverURL() string {
	return CoverURL(b.CoverImageID, CoverSizeMedium)
}

// WorkDetails is the decoded /works/{id}.json document.
type WorkDetails struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	Description      string   `json:"description,omitempty"`
	Subjects         []string `json:"subjects,omitempty"`
	Covers           []int    `json:"covers,omitempty"`
	FirstPublishDate string   `json:"first_publish_date,omitempty"`
	Created          string   `json:"created,omitempty"`
	LastModified     string   `json:"last_modified,omitempty"`
	AuthorKeys       []string `json:"author_keys,omitempty"`
}

// FirstAuthorKey returns the first author key if it is a valid /authors/ key.
func (w *WorkDetails) FirstAuthorKey() (string, bool) {
	if len(w.AuthorKeys) == 0 {
		return "", false
	}

	key := w.AuthorKeys[0]
	if !strings.HasPrefix(key, AuthorKeyPrefix) {
		return "", false
	}

	return key, true
}

// CoverURL returns the URL of the first cover, "" when there is none.
func (w *WorkDetails) CoverURL(size CoverSize) string {
	if len(w.Covers) == 0 {
		return ""
	}

	return CoverURL(w.Covers[0], size)
}

// AuthorDetails is the decoded /authors/{id}.json document.
type AuthorDetails struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	Bio       string `json:"bio,omitempty"`
	BirthDate string `json:"birth_date,omitempty"`
	DeathDate string `json:"death_date,omitempty"`
}

// EncyclopediaSummary is the introductory extract of an encyclopedia page.
type EncyclopediaSummary struct {
	Title     string `json:"title"`
	Extract   string `json:"extract"`
	PageURL   string `json:"page_url"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// BookDetails aggregates everything shown on a book detail page.
type BookDetails struct {
	Work          *WorkDetails         `json:"work"`
	Author        *AuthorDetails       `json:"author,omitempty"`
	CoverURL      string               `json:"cover_url,omitempty"`
	BookSummary   *EncyclopediaSummary `json:"book_summary,omitempty"`
	AuthorSummary *EncyclopediaSummary `json:"author_summary,omitempty"`
}

// AuthorName returns the author name or a placeholder.
func (d *BookDetails) AuthorName() string {
	if d.Author == nil || d.Author.Name == "" {
		return "Unknown author"
	}

	return d.Author.Name
}

// RecentChange is a single entry of the recent-changes feed.
type RecentChange struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
	Comment   string    `json:"comment,omitempty"`
	AuthorKey string    `json:"author_key,omitempty"`
}
