package imdb

import "github.com/rs/zerolog"

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	httpClient      Doer
	authProvider    AuthProvider
	logger          zerolog.Logger
	locale          string
	excludeEpisodes bool
	baseURL         string
	searchBaseURL   string
	publicBaseURL   string
}

// WithHTTPClient sets a custom HTTP client. The caller keeps ownership of
// the connection pool; Close will not release it.
func WithHTTPClient(doer Doer) Option {
	return func(o *clientOptions) {
		o.httpClient = doer
	}
}

// WithAuthProvider sets the provider used to compute authorization headers
// for every data request.
func WithAuthProvider(provider AuthProvider) Option {
	return func(o *clientOptions) {
		o.authProvider = provider
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// WithLocale sets the Accept-Language value sent on every request.
// Defaults to en_US.
func WithLocale(locale string) Option {
	return func(o *clientOptions) {
		if locale != "" {
			o.locale = locale
		}
	}
}

// WithExcludeEpisodes configures the client to reject TV episodes: GetTitle
// reports episodes as not found and GetTitleEpisodes refuses to run.
func WithExcludeEpisodes() Option {
	return func(o *clientOptions) {
		o.excludeEpisodes = true
	}
}

// WithBaseURL overrides the data API base URL. Intended for tests.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		o.baseURL = baseURL
	}
}

// WithSearchBaseURL overrides the suggestion API base URL. Intended for tests.
func WithSearchBaseURL(searchBaseURL string) Option {
	return func(o *clientOptions) {
		o.searchBaseURL = searchBaseURL
	}
}

// WithPublicBaseURL overrides the public website base URL used for the
// existence and redirection checks. Intended for tests.
func WithPublicBaseURL(publicBaseURL string) Option {
	return func(o *clientOptions) {
		o.publicBaseURL = publicBaseURL
	}
}
