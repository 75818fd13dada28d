package imdb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"
)

const (
	defaultBaseURL       = "https://api.imdbws.com"
	defaultSearchBaseURL = "https://v2.sg.media-imdb.com"
	defaultPublicBaseURL = "http://www.imdb.com"
	defaultLocale        = "en_US"
)

// pipeline performs authenticated fetches against the service and
// normalizes their responses. One instance is shared by all operations of
// a Client; it holds no per-request state.
type pipeline struct {
	httpClient    Doer
	authProvider  AuthProvider
	locale        string
	baseURL       string
	searchBaseURL string
	publicBaseURL string
	logger        zerolog.Logger
}

// getResource fetches a data endpoint and unwraps its resource mapping.
// Absence of a usable resource, whether an in-band error payload or a
// missing resource key, surfaces as ErrNotFound.
func (p *pipeline) getResource(ctx context.Context, path string) (Payload, error) {
	payload, err := p.getRaw(ctx, p.baseURL+path, "", nil)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	resource, ok := payload["resource"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no resource", ErrNotFound, path)
	}
	return Payload(resource), nil
}

// getRaw issues a single authenticated GET and decodes the body. A nil
// payload with a nil error means the service reported absence in-band;
// callers that need a resource decide how to interpret that.
func (p *pipeline) getRaw(ctx context.Context, rawURL, query string, params url.Values) (Payload, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}

	// The auth signature covers the percent-encoded path, including any
	// query string, exactly as it goes on the wire.
	authPath := u.EscapedPath()
	if u.RawQuery != "" {
		authPath += "?" + u.RawQuery
	}
	authHeaders, err := p.authProvider.AuthHeaders(ctx, authPath)
	if err != nil {
		return nil, fmt.Errorf("failed to compute auth headers: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept-Language", p.locale)
	for name, value := range authHeaders {
		req.Header.Set(name, value)
	}

	p.logger.Debug().Str("url", u.String()).Msg("Fetching from IMDb API")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, authPath)
	default:
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	payload, err := decodePayload(string(body), query)
	if err != nil {
		return nil, err
	}
	if payload.hasServiceError() {
		p.logger.Debug().Str("path", authPath).Msg("Service reported absence in-band")
		return nil, nil
	}
	return payload, nil
}

// head issues a HEAD request against the public website and returns the
// raw status code. Redirects are not followed; the status itself is the
// signal.
func (p *pipeline) head(ctx context.Context, pageURL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, pageURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

func (p *pipeline) titlePageURL(imdbID string) string {
	return fmt.Sprintf("%s/title/%s/", p.publicBaseURL, imdbID)
}

// isRedirectionTitle reports whether the service has permanently moved the
// identifier. 200 and 404 both mean "not redirected"; an ordinary missing
// title is reported later by the data fetch itself.
func (p *pipeline) isRedirectionTitle(ctx context.Context, imdbID string) (bool, error) {
	status, err := p.head(ctx, p.titlePageURL(imdbID))
	if err != nil {
		return false, err
	}
	switch status {
	case http.StatusMovedPermanently:
		return true, nil
	case http.StatusOK, http.StatusNotFound:
		return false, nil
	default:
		return false, &APIError{StatusCode: status, Body: "unexpected status on title page check"}
	}
}

// checkTitleRedirect must run to completion before the data fetch of every
// title-scoped operation. A redirection identifier aborts the operation
// without issuing the data request.
func (p *pipeline) checkTitleRedirect(ctx context.Context, imdbID string) error {
	redirected, err := p.isRedirectionTitle(ctx, imdbID)
	if err != nil {
		return err
	}
	if redirected {
		return fmt.Errorf("%w: %s is a redirection imdb id", ErrNotFound, imdbID)
	}
	return nil
}

// titleExists checks the public page for the identifier. A redirection
// counts as "does not exist": the record no longer lives under this id.
func (p *pipeline) titleExists(ctx context.Context, imdbID string) (bool, error) {
	status, err := p.head(ctx, p.titlePageURL(imdbID))
	if err != nil {
		return false, err
	}
	switch status {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound, http.StatusMovedPermanently:
		return false, nil
	default:
		return false, &APIError{StatusCode: status, Body: "unexpected status on title page check"}
	}
}
