package domain

import (
	"fmt"
	"strings"
)

// CoversBaseURL is the host serving cover images.
const CoversBaseURL = "https://covers.openlibrary.org"

const (
	WorkKeyPrefix   = "/works/"
	AuthorKeyPrefix = "/authors/"

	detailPathPrefix = "/book/"
)

// CoverSize is one of the sizes served by the covers API.
type CoverSize string

const (
	CoverSizeSmall  CoverSize = "S"
	CoverSizeMedium CoverSize = "M"
	CoverSizeLarge  CoverSize = "L"
)

// CoverURL builds the image URL for a cover id, "" for ids <= 0.
func CoverURL(coverID int, size CoverSize) string {
	if coverID <= 0 {
		return ""
	}
	switch size {
	case CoverSizeSmall, CoverSizeMedium, CoverSizeLarge:
	default:
		size = CoverSizeMedium
	}

	return fmt.Sprintf("%s/b/id/%d-%s.jpg", CoversBaseURL, coverID, size)
}

// IDFromKey returns the last path segment of an upstream key:
// "/works/OL45883W" -> "OL45883W".
func IDFromKey(key string) string {
	key = strings.TrimSpace(strings.TrimSuffix(key, "/"))
	if i := strings.LastIndex(key, "/"); i >= 0 {
		key = key[i+1:]
	}

	return key
}

// DetailLink returns the detail page path for a work id.
func DetailLink(workID string) string {
	return detailPathPrefix + workID
}

// WorkKey builds and validates the upstream key of a work.
// It accepts either a bare id ("OL45883W") or a full key ("/works/OL45883W").
func WorkKey(idOrKey string) (string, error) {
	return buildKey(idOrKey, WorkKeyPrefix)
}

// AuthorKey builds and validates the upstream key of an author.
func AuthorKey(idOrKey string) (string, error) {
	return buildKey(idOrKey, AuthorKeyPrefix)
}

func buildKey(idOrKey, prefix string) (string, error) {
	s := strings.TrimSpace(idOrKey)
	if s == "" {
		return "", ErrInvalidKey
	}
	if strings.HasPrefix(s, "/") {
		if !strings.HasPrefix(s, prefix) || len(s) == len(prefix) {
			return "", ErrInvalidKey
		}
		s = s[len(prefix):]
	}
	if strings.ContainsAny(s, "/?#. ") {
		return "", ErrInvalidKey
	}

	return prefix + s, nil
}
