package imdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/imdbq/auth"
)

// countingDoer fails every request and records how many were attempted.
// Used to prove that validation errors happen before any network call.
type countingDoer struct {
	mu    sync.Mutex
	calls int
}

func (d *countingDoer) Do(req *http.Request) (*http.Response, error) {
	d.mu.Lock()
	d.calls++
	d.mu.Unlock()
	return nil, errors.New("unexpected network call")
}

func (d *countingDoer) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

// newTestClient points every base URL of a new client at the test server.
func newTestClient(t *testing.T, server *httptest.Server, opts ...Option) *Client {
	t.Helper()

	opts = append([]Option{
		WithBaseURL(server.URL),
		WithSearchBaseURL(server.URL),
		WithPublicBaseURL(server.URL),
	}, opts...)

	client, err := New(opts...)
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client
}

func TestGetTitle(t *testing.T) {
	var dataRequests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			assert.Equal(t, "/title/tt0111161/", r.URL.Path)
			w.WriteHeader(http.StatusOK)
			return
		}
		dataRequests++
		assert.Equal(t, "/title/tt0111161/auxiliary", r.URL.Path)
		assert.Equal(t, "en_US", r.Header.Get("Accept-Language"))
		assert.Equal(t, "test-token", r.Header.Get("X-Imdb-Token"))
		w.Write([]byte(`{"resource": {"base": {"titleType": "movie", "title": "The Shawshank Redemption"}}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server,
		WithAuthProvider(auth.Static(map[string]string{"X-Imdb-Token": "test-token"})))

	title, err := client.GetTitle(context.Background(), "tt0111161")
	require.NoError(t, err)
	assert.Equal(t, 1, dataRequests)
	assert.Equal(t, "movie", titleType(title))
}

func TestGetTitleRedirectionID(t *testing.T) {
	var dataRequests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMovedPermanently)
			return
		}
		dataRequests++
		w.Write([]byte(`{"resource": {}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)

	_, err := client.GetTitle(context.Background(), "tt0000001")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "redirection")
	assert.Zero(t, dataRequests, "redirection check must short-circuit the data fetch")
}

func TestGetTitleNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(t, server)

	_, err := client.GetTitle(context.Background(), "tt9999999")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetTitleExcludedEpisode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.Write([]byte(`{"resource": {"base": {"titleType": "tvEpisode"}}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server, WithExcludeEpisodes())

	_, err := client.GetTitle(context.Background(), "tt1234567")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "episode")
}

func TestGetTitleServiceLevelError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusOK)
			return
		}
		// 200 with an in-band error is absence, not success
		w.Write([]byte(`{"error": "not found"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)

	_, err := client.GetTitle(context.Background(), "tt0111161")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResourceTitlePlot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			assert.Equal(t, "/title/tt0111161/", r.URL.Path)
			w.WriteHeader(http.StatusOK)
			return
		}
		assert.Equal(t, "/title/tt0111161/plot", r.URL.Path)
		w.Write([]byte(`{"resource": {"outline": "x"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)

	plot, err := client.Resource(context.Background(), "title_plot", "tt0111161")
	require.NoError(t, err)
	assert.Equal(t, Payload{"outline": "x"}, plot)
}

func TestResourceNameSkipsRedirectCheck(t *testing.T) {
	var headRequests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			headRequests++
			w.WriteHeader(http.StatusOK)
			return
		}
		assert.Equal(t, "/name/nm0000151/filmography", r.URL.Path)
		w.Write([]byte(`{"resource": {"filmography": []}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)

	_, err := client.Resource(context.Background(), "name_filmography", "nm0000151")
	require.NoError(t, err)
	assert.Zero(t, headRequests, "person operations must not run the title redirection check")
}

func TestResourceUnknownOperation(t *testing.T) {
	doer := &countingDoer{}
	client, err := New(WithHTTPClient(doer))
	require.NoError(t, err)

	_, err = client.Resource(context.Background(), "title_budget", "tt0111161")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownOperation)
	assert.Zero(t, doer.count())
}

func TestValidationBeforeNetwork(t *testing.T) {
	doer := &countingDoer{}
	client, err := New(WithHTTPClient(doer))
	require.NoError(t, err)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
	}{
		{"GetTitle", func() error { _, err := client.GetTitle(ctx, "bogus"); return err }},
		{"GetName", func() error { _, err := client.GetName(ctx, "bogus"); return err }},
		{"Resource", func() error { _, err := client.Resource(ctx, "title_plot", "bogus"); return err }},
		{"GetTitleEpisodes", func() error { _, err := client.GetTitleEpisodes(ctx, "bogus"); return err }},
		{"GetTitleEpisodesDetailed", func() error {
			_, err := client.GetTitleEpisodesDetailed(ctx, "bogus", 1, nil)
			return err
		}},
		{"GetTitleTopCrew", func() error { _, err := client.GetTitleTopCrew(ctx, "bogus"); return err }},
		{"TitleExists", func() error { _, err := client.TitleExists(ctx, "bogus"); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidID)
		})
	}
	assert.Zero(t, doer.count(), "validation failures must not reach the network")
}

func TestGetTitleEpisodesExcluded(t *testing.T) {
	doer := &countingDoer{}
	client, err := New(WithHTTPClient(doer), WithExcludeEpisodes())
	require.NoError(t, err)

	_, err = client.GetTitleEpisodes(context.Background(), "tt0944947")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEpisodesExcluded)
	assert.Zero(t, doer.count())
}

func TestGetTitleEpisodesDetailed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/template/imdb-ios-writable/tv-episodes-v2.jstl/render", r.URL.Path)
		query := r.URL.Query()
		assert.Equal(t, "tt0944947", query.Get("tconst"))
		assert.Equal(t, "0", query.Get("season"), "service seasons are zero-indexed")
		assert.Equal(t, "25", query.Get("end"))
		assert.Equal(t, "GB", query.Get("region"))
		w.Write([]byte(`{"episodes": []}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)

	payload, err := client.GetTitleEpisodesDetailed(context.Background(), "tt0944947", 1, &EpisodeQuery{
		Limit:  25,
		Region: "GB",
	})
	require.NoError(t, err)
	assert.Equal(t, Payload{"episodes": []any{}}, payload)
}

func TestGetTitleEpisodesDetailedInvalidSeason(t *testing.T) {
	doer := &countingDoer{}
	client, err := New(WithHTTPClient(doer))
	require.NoError(t, err)

	_, err = client.GetTitleEpisodesDetailed(context.Background(), "tt0944947", 0, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "season")
	assert.Zero(t, doer.count())
}

func TestGetTitleEpisodesDetailedExcluded(t *testing.T) {
	doer := &countingDoer{}
	client, err := New(WithHTTPClient(doer), WithExcludeEpisodes())
	require.NoError(t, err)

	// The exclusion policy gates both episode endpoints.
	_, err = client.GetTitleEpisodesDetailed(context.Background(), "tt0944947", 1, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEpisodesExcluded)
	assert.Zero(t, doer.count())
}

func TestTitleExists(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		want       bool
		wantErr    bool
		wantAPIErr bool
	}{
		{
			name:   "existing title",
			status: http.StatusOK,
			want:   true,
		},
		{
			name:   "missing title",
			status: http.StatusNotFound,
			want:   false,
		},
		{
			name:   "redirection identifier",
			status: http.StatusMovedPermanently,
			want:   false,
		},
		{
			name:       "service failure",
			status:     http.StatusServiceUnavailable,
			wantErr:    true,
			wantAPIErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodHead, r.Method)
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := newTestClient(t, server)

			exists, err := client.TitleExists(context.Background(), "tt0111161")
			if tt.wantErr {
				require.Error(t, err)
				if tt.wantAPIErr {
					var apiErr *APIError
					require.ErrorAs(t, err, &apiErr)
					assert.Equal(t, tt.status, apiErr.StatusCode)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, exists)
		})
	}
}

func TestUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	client := newTestClient(t, server)

	_, err := client.GetTitle(context.Background(), "tt0111161")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "upstream exploded")
	assert.True(t, apiErr.IsServerError())
}

func TestGetPopularCharts(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Write([]byte(`{"resource": {"rank": []}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	ctx := context.Background()

	_, err := client.GetPopularTitles(ctx)
	require.NoError(t, err)
	_, err = client.GetPopularShows(ctx)
	require.NoError(t, err)
	_, err = client.GetPopularMovies(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"/chart/titlemeter", "/chart/tvmeter", "/chart/moviemeter"}, paths)
}

func TestBatchGetTitles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusOK)
			return
		}
		if r.URL.Path == "/title/tt9999999/auxiliary" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"resource": {"base": {"titleType": "movie"}}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)

	results := client.BatchGetTitles(context.Background(), "tt0111161", "tt9999999", "bogus")
	require.Len(t, results, 3)

	assert.Equal(t, "tt0111161", results[0].IMDbID)
	require.NoError(t, results[0].Err)
	assert.Equal(t, "movie", titleType(results[0].Title))

	assert.Equal(t, "tt9999999", results[1].IMDbID)
	assert.ErrorIs(t, results[1].Err, ErrNotFound)

	assert.Equal(t, "bogus", results[2].IMDbID)
	assert.ErrorIs(t, results[2].Err, ErrInvalidID)
}

func TestClientCloseIdempotent(t *testing.T) {
	client, err := New()
	require.NoError(t, err)

	client.Close()
	client.Close()
}

func TestWithLocale(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusOK)
			return
		}
		assert.Equal(t, "de_DE", r.Header.Get("Accept-Language"))
		w.Write([]byte(`{"resource": {}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server, WithLocale("de_DE"))

	_, err := client.Resource(context.Background(), "title_plot", "tt0111161")
	require.NoError(t, err)
}
