package imdb

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/s0up4200/imdbq/auth"
)

// Client is the public facade over the request pipeline. It owns the HTTP
// session unless one was injected and is safe for concurrent use; each
// individual operation runs its steps sequentially.
type Client struct {
	pipeline        *pipeline
	endpoints       endpoints
	excludeEpisodes bool
	logger          zerolog.Logger

	ownsSession bool
	closeOnce   sync.Once
}

// New creates a new IMDb client.
func New(opts ...Option) (*Client, error) {
	options := clientOptions{
		locale:        defaultLocale,
		logger:        zerolog.Nop(),
		baseURL:       defaultBaseURL,
		searchBaseURL: defaultSearchBaseURL,
		publicBaseURL: defaultPublicBaseURL,
	}
	for _, opt := range opts {
		opt(&options)
	}

	ownsSession := false
	if options.httpClient == nil {
		// Redirects must surface as raw 301s: the redirection check
		// reads the status itself.
		options.httpClient = &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		}
		ownsSession = true
	}
	if options.authProvider == nil {
		options.authProvider = auth.Static(nil)
	}

	client := &Client{
		pipeline: &pipeline{
			httpClient:    options.httpClient,
			authProvider:  options.authProvider,
			locale:        options.locale,
			baseURL:       options.baseURL,
			searchBaseURL: options.searchBaseURL,
			publicBaseURL: options.publicBaseURL,
			logger:        options.logger,
		},
		endpoints:       newEndpoints(),
		excludeEpisodes: options.excludeEpisodes,
		logger:          options.logger,
		ownsSession:     ownsSession,
	}
	return client, nil
}

// Close releases the connection pool. Safe to call more than once; only
// the first call has effect, and pools injected through WithHTTPClient are
// left alone. Callers must not issue new operations after Close.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		if !c.ownsSession {
			return
		}
		if hc, ok := c.pipeline.httpClient.(*http.Client); ok {
			hc.CloseIdleConnections()
		}
	})
}

// Operations returns the operation names accepted by Resource.
func (c *Client) Operations() []string {
	return c.endpoints.Operations()
}

// GetTitle retrieves the main record for a title. Redirection identifiers
// and, when the client excludes episodes, TV episodes are reported as not
// found.
func (c *Client) GetTitle(ctx context.Context, imdbID string) (Payload, error) {
	c.logger.Debug().Str("imdb_id", imdbID).Msg("Getting title")

	if err := ValidateID(imdbID); err != nil {
		return nil, err
	}
	if err := c.pipeline.checkTitleRedirect(ctx, imdbID); err != nil {
		return nil, err
	}

	resource, err := c.pipeline.getResource(ctx, fmt.Sprintf("/title/%s/auxiliary", imdbID))
	if err != nil {
		return nil, err
	}

	if c.excludeEpisodes && titleType(resource) == "tvEpisode" {
		return nil, fmt.Errorf(
			"%w: %s is an episode and episodes are excluded", ErrNotFound, imdbID)
	}
	return resource, nil
}

// GetName retrieves the main record for a person.
func (c *Client) GetName(ctx context.Context, imdbID string) (Payload, error) {
	return c.Resource(ctx, "name", imdbID)
}

// Resource fetches the aspect endpoint registered under operation for the
// given identifier, e.g. Resource(ctx, "title_plot", "tt0111161").
// Title-scoped operations pass the redirection check before the data
// request is issued.
func (c *Client) Resource(ctx context.Context, operation, imdbID string) (Payload, error) {
	c.logger.Debug().Str("operation", operation).Str("imdb_id", imdbID).Msg("Getting resource")

	if err := ValidateID(imdbID); err != nil {
		return nil, err
	}
	path, err := c.endpoints.Resolve(operation, imdbID)
	if err != nil {
		return nil, err
	}
	if isTitleScoped(operation) {
		if err := c.pipeline.checkTitleRedirect(ctx, imdbID); err != nil {
			return nil, err
		}
	}
	return c.pipeline.getResource(ctx, path)
}

// GetTitleEpisodes retrieves the episode listing for a series. It fails
// with ErrEpisodesExcluded, before any network call, when the client is
// configured to exclude episodes.
func (c *Client) GetTitleEpisodes(ctx context.Context, imdbID string) (Payload, error) {
	if err := ValidateID(imdbID); err != nil {
		return nil, err
	}
	if c.excludeEpisodes {
		return nil, ErrEpisodesExcluded
	}
	if err := c.pipeline.checkTitleRedirect(ctx, imdbID); err != nil {
		return nil, err
	}
	return c.pipeline.getResource(ctx, fmt.Sprintf("/title/%s/episodes", imdbID))
}

// EpisodeQuery narrows a GetTitleEpisodesDetailed request.
type EpisodeQuery struct {
	// Limit caps the number of episodes returned. Defaults to 500.
	Limit int
	// Offset skips this many episodes.
	Offset int
	// Region is a two-letter ISO 3166-1 alpha-2 code.
	Region string
}

// GetTitleEpisodesDetailed retrieves detailed episode data for one season
// of a series. season is one-based. A client configured to exclude
// episodes refuses this call like it refuses GetTitleEpisodes.
func (c *Client) GetTitleEpisodesDetailed(ctx context.Context, imdbID string, season int, query *EpisodeQuery) (Payload, error) {
	if err := ValidateID(imdbID); err != nil {
		return nil, err
	}
	if season < 1 {
		return nil, fmt.Errorf("season must be greater than zero, got %d", season)
	}
	if c.excludeEpisodes {
		return nil, ErrEpisodesExcluded
	}

	limit, offset, region := 500, 0, ""
	if query != nil {
		if query.Limit > 0 {
			limit = query.Limit
		}
		offset = query.Offset
		region = query.Region
	}

	params := url.Values{
		"end":    {strconv.Itoa(limit)},
		"start":  {strconv.Itoa(offset)},
		"season": {strconv.Itoa(season - 1)}, // the service is zero-indexed
		"tconst": {imdbID},
	}
	if region != "" {
		params.Set("region", region)
	}

	rawURL := c.pipeline.baseURL + "/template/imdb-ios-writable/tv-episodes-v2.jstl/render"
	payload, err := c.pipeline.getRaw(ctx, rawURL, "", params)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, fmt.Errorf("%w: episodes for %s season %d", ErrNotFound, imdbID, season)
	}
	return payload, nil
}

// GetTitleTopCrew retrieves a title's top crew (directors, writers, ...).
func (c *Client) GetTitleTopCrew(ctx context.Context, imdbID string) (Payload, error) {
	c.logger.Debug().Str("imdb_id", imdbID).Msg("Getting title top crew")

	if err := ValidateID(imdbID); err != nil {
		return nil, err
	}

	params := url.Values{"tconst": {imdbID}}
	rawURL := c.pipeline.baseURL + "/template/imdb-android-writable/7.3.top-crew.jstl/render"
	payload, err := c.pipeline.getRaw(ctx, rawURL, "", params)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, fmt.Errorf("%w: top crew for %s", ErrNotFound, imdbID)
	}
	return payload, nil
}

// TitleExists checks whether a title exists without fetching its data.
// Redirection identifiers count as non-existent.
func (c *Client) TitleExists(ctx context.Context, imdbID string) (bool, error) {
	if err := ValidateID(imdbID); err != nil {
		return false, err
	}
	return c.pipeline.titleExists(ctx, imdbID)
}

// GetPopularTitles retrieves the overall popularity chart.
func (c *Client) GetPopularTitles(ctx context.Context) (Payload, error) {
	return c.pipeline.getResource(ctx, "/chart/titlemeter")
}

// GetPopularShows retrieves the TV popularity chart.
func (c *Client) GetPopularShows(ctx context.Context) (Payload, error) {
	return c.pipeline.getResource(ctx, "/chart/tvmeter")
}

// GetPopularMovies retrieves the movie popularity chart.
func (c *Client) GetPopularMovies(ctx context.Context) (Payload, error) {
	return c.pipeline.getResource(ctx, "/chart/moviemeter")
}
