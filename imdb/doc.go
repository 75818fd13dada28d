// Package imdb provides a client for IMDb's undocumented JSON API.
//
// The API is the one consumed by IMDb's own mobile apps. It is quirky:
// some endpoints return plain JSON, the search-suggestion endpoints return
// JSONP-style callback wrappers, and the service reports "no such resource"
// both as an HTTP 404 and as an in-band error field inside a 200 body.
// This package normalizes all of that so callers only ever see clean
// payloads or a classified error.
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := imdb.New(imdb.WithLogger(logger))
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	title, err := client.GetTitle(ctx, "tt0111161")
//	plot, err := client.Resource(ctx, "title_plot", "tt0111161")
//	results, err := client.SearchForTitle(ctx, "the shawshank redemption")
//
// Aspect endpoints (plot, credits, ratings, ...) are addressed by operation
// name through Resource; adding a new server endpoint is a new entry in the
// endpoint table, not a new method.
//
// # Error Handling
//
// The package defines sentinel errors for the domain outcomes:
//
//   - ErrInvalidID: malformed identifier, rejected before any network call
//   - ErrInvalidQuery: search text with no alphanumeric characters
//   - ErrEpisodesExcluded: episodes requested while excluded by configuration
//   - ErrUnknownOperation: no endpoint registered under that name
//   - ErrNotFound: transport 404, in-band absence, or a redirection identifier
//   - ErrMalformedResponse: a callback-wrapped body that could not be extracted
//
// Any other non-200 status surfaces as *APIError carrying the status code
// and body for diagnostics.
package imdb
