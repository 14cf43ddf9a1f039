package domain

import (
	"errors"
	"testing"
	"time"
)

func TestCoverURL(t *testing.T) {
	tests := []struct {
		id   int
		size CoverSize
		want string
	}{
		{0, CoverSizeMedium, ""},
		{-1, CoverSizeMedium, ""},
		{123, CoverSizeSmall, "https://covers.openlibrary.org/b/id/123-S.jpg"},
		{123, CoverSizeMedium, "https://covers.openlibrary.org/b/id/123-M.jpg"},
		{123, CoverSizeLarge, "https://covers.openlibrary.org/b/id/123-L.jpg"},
		{123, CoverSize("XL"), "https://covers.openlibrary.org/b/id/123-M.jpg"},
	}

	for _, tt := range tests {
		if got := CoverURL(tt.id, tt.size); got != tt.want {
			t.Errorf("CoverURL(%d, %q) = %q, want %q", tt.id, tt.size, got, tt.want)
		}
	}
}

func TestIDFromKeyAndDetailLink(t *testing.T) {
	tests := map[string]string{
		"/works/OL45883W":  "OL45883W",
		"/works/OL45883W/": "OL45883W",
		"OL1W":             "OL1W",
		"":                 "",
	}

	for key, want := range tests {
		if got := IDFromKey(key); got != want {
			t.Errorf("IDFromKey(%q) = %q, want %q", key, got, want)
		}
	}

	if got := DetailLink(IDFromKey("/works/OL45883W")); got != "/book/OL45883W" {
		t.Errorf("unexpected detail link %q", got)
	}
}

func TestWorkKey(t *testing.T) {
	valid := map[string]string{
		"OL45883W":         "/works/OL45883W",
		"/works/OL45883W":  "/works/OL45883W",
		"  OL45883W  ":     "/works/OL45883W",
	}
	for in, want := range valid {
		got, err := WorkKey(in)
		if err != nil || got != want {
			t.Errorf("WorkKey(%q) = (%q, %v), want %q", in, got, err, want)
		}
	}

	invalid := []string{"", "/authors/OL1A", "/works/", "../etc", "OL1W.json", "a/b"}
	for _, in := range invalid {
		if _, err := WorkKey(in); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("WorkKey(%q): expected ErrInvalidKey, got %v", in, err)
		}
	}
}

func TestAuthorKey(t *testing.T) {
	got, err := AuthorKey("/authors/OL23919A")
	if err != nil || got != "/authors/OL23919A" {
		t.Errorf("unexpected (%q, %v)", got, err)
	}

	if _, err := AuthorKey("/works/OL1W"); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("expected ErrInvalidKey, got %v", err)
	}
}

func TestWorkDetails_FirstAuthorKey(t *testing.T) {
	w := &WorkDetails{AuthorKeys: []string{"/authors/OL23919A", "/authors/OL2A"}}
	if key, ok := w.FirstAuthorKey(); !ok || key != "/authors/OL23919A" {
		t.Errorf("unexpected (%q, %v)", key, ok)
	}

	w = &WorkDetails{AuthorKeys: []string{"/people/x"}}
	if _, ok := w.FirstAuthorKey(); ok {
		t.Error("expected invalid author key to be rejected")
	}

	w = &WorkDetails{}
	if _, ok := w.FirstAuthorKey(); ok {
		t.Error("expected no author key")
	}
}

func TestCategorizeChange(t *testing.T) {
	tests := map[string]ChangeCategory{
		"edit-book":     ChangeCategoryEdit,
		"add-cover":     ChangeCategoryOther,
		"new-account":   ChangeCategoryNew,
		"merge-authors": ChangeCategoryMerge,
		"Delete":        ChangeCategoryDelete,
		"":              ChangeCategoryOther,
	}

	for kind, want := range tests {
		if got := CategorizeChange(kind); got != want {
			t.Errorf("CategorizeChange(%q) = %q, want %q", kind, got, want)
		}
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{5 * time.Minute, "5 min ago"},
		{59 * time.Minute, "59 min ago"},
		{3 * time.Hour, "3h ago"},
		{2 * 24 * time.Hour, "2d ago"},
		{10 * 24 * time.Hour, "2024-03-05"},
		{-time.Hour, "just now"},
	}

	for _, tt := range tests {
		if got := RelativeTime(now.Add(-tt.ago), now); got != tt.want {
			t.Errorf("RelativeTime(-%s) = %q, want %q", tt.ago, got, tt.want)
		}
	}
}
