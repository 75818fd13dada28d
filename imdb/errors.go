package imdb

import (
	"errors"
	"fmt"
)

// Common errors returned by the IMDb client.
var (
	// ErrInvalidID is returned when an identifier does not look like an
	// IMDb id. It is always detected before any network call.
	ErrInvalidID = errors.New("invalid imdb id")

	// ErrInvalidQuery is returned when a search query contains no
	// alphanumeric characters.
	ErrInvalidQuery = errors.New("invalid query: no alphanumeric characters")

	// ErrEpisodesExcluded is returned when episode data is requested on a
	// client configured to exclude episodes.
	ErrEpisodesExcluded = errors.New("episodes are excluded by client configuration")

	// ErrUnknownOperation is returned when no endpoint is registered under
	// the requested operation name.
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrNotFound indicates the resource does not exist. This covers a
	// transport 404, a service-level error payload, a redirection
	// identifier, and titles excluded by the episode policy; the wrapped
	// message distinguishes the cause.
	ErrNotFound = errors.New("resource not found")

	// ErrMalformedResponse indicates a response body that was neither
	// valid JSON nor an extractable JSONP callback. Usually an upstream
	// format change.
	ErrMalformedResponse = errors.New("malformed response body")
)

// APIError represents an unexpected response from the IMDb API.
type APIError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("imdb API error: status %d: %s", e.StatusCode, e.Body)
}

// IsServerError checks if the error was caused by the service itself
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}
