package domain

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed caller input. It is always recoverable
// and its message is meant to be shown to the user as is.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

var (
	ErrQueryTooShort = &ValidationError{Field: "q", Message: "query too short"}
	ErrInvalidPage   = &ValidationError{Field: "page", Message: "invalid page"}
	ErrNoFilters     = &ValidationError{Field: "filters", Message: "no filters supplied"}
	ErrInvalidKey    = &ValidationError{Field: "key", Message: "invalid key"}
)

// FetchErrorKind classifies upstream failures.
type FetchErrorKind string

const (
	FetchErrorHTTPStatus FetchErrorKind = "http_status" // non-2xx response
	FetchErrorNetwork    FetchErrorKind = "network"     // no response reached the caller
	FetchErrorMalformed  FetchErrorKind = "malformed"   // body is not the expected JSON shape
)

// FetchError is returned by catalog and encyclopedia clients.
type FetchError struct {
	Kind       FetchErrorKind
	StatusCode int // set for FetchErrorHTTPStatus
	Source     string
	URL        string
	Err        error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	switch e.Kind {
	case FetchErrorHTTPStatus:
		return fmt.Sprintf("%s returned status %d on %s", e.Source, e.StatusCode, e.URL)
	case FetchErrorMalformed:
		return fmt.Sprintf("%s returned a malformed response on %s: %v", e.Source, e.URL, e.Err)
	default:
		return fmt.Sprintf("%s request failed on %s: %v", e.Source, e.URL, e.Err)
	}
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// UserMessage returns a human readable description for the UI.
func (e *FetchError) UserMessage() string {
	switch e.Kind {
	case FetchErrorHTTPStatus:
		return fmt.Sprintf("The book service answered with an error (%d). Please try again.", e.StatusCode)
	case FetchErrorMalformed:
		return "The book service sent an unexpected response."
	default:
		return "The book service could not be reached. Check your connection and try again."
	}
}

// ErrorMessage derives the user-facing message for any error produced by the pipeline.
func ErrorMessage(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}

	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.UserMessage()
	}

	return "Something went wrong"
}

// IsFetchKind reports whether err is a FetchError of the given kind.
func IsFetchKind(err error, kind FetchErrorKind) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == kind
}
