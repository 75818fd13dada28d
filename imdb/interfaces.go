package imdb

import (
	"context"
	"net/http"
)

// AuthProvider computes the headers the service requires to authorize a
// request for a given path. Implementations own the credential lifecycle;
// the client treats them as opaque and calls them before every data
// request. See the auth package for ready-made providers.
type AuthProvider interface {
	AuthHeaders(ctx context.Context, path string) (map[string]string, error)
}

// Doer is the subset of *http.Client the client depends on, extracted for
// testability.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}
