package imdb

import (
	"fmt"
	"strings"
)

// endpoints maps operation names to resource path templates. The table is
// built once at client construction and never mutated; supporting a new
// server endpoint is a new entry here, not new control flow.
type endpoints map[string]string

func newEndpoints() endpoints {
	return endpoints{
		"name":                     "/name/%s/fulldetails",
		"name_filmography":         "/name/%s/filmography",
		"name_images":              "/name/%s/images",
		"name_videos":              "/name/%s/videos",
		"title_credits":            "/title/%s/fullcredits",
		"title_quotes":             "/title/%s/quotes",
		"title_ratings":            "/title/%s/ratings",
		"title_genres":             "/title/%s/genres",
		"title_similarities":       "/title/%s/similarities",
		"title_awards":             "/title/%s/awards",
		"title_connections":        "/title/%s/connections",
		"title_releases":           "/title/%s/releases",
		"title_versions":           "/title/%s/versions",
		"title_plot":               "/title/%s/plot",
		"title_plot_synopsis":      "/title/%s/plotsynopsis",
		"title_plot_taglines":      "/title/%s/taglines",
		"title_images":             "/title/%s/images",
		"title_videos":             "/title/%s/videos",
		"title_user_reviews":       "/title/%s/userreviews",
		"title_metacritic_reviews": "/title/%s/metacritic",
		"title_companies":          "/title/%s/companies",
		"title_technical":          "/title/%s/technical",
		"title_trivia":             "/title/%s/trivia",
		"title_goofs":              "/title/%s/goofs",
		"title_soundtracks":        "/title/%s/soundtracks",
		"title_news":               "/title/%s/news",
	}
}

// Resolve maps an operation name and identifier to a resource path.
func (e endpoints) Resolve(operation, imdbID string) (string, error) {
	tmpl, ok := e[operation]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownOperation, operation)
	}
	return fmt.Sprintf(tmpl, imdbID), nil
}

// Operations returns the registered operation names, for discovery.
func (e endpoints) Operations() []string {
	ops := make([]string, 0, len(e))
	for op := range e {
		ops = append(ops, op)
	}
	return ops
}

// isTitleScoped reports whether an operation addresses a title and so must
// pass the redirection check before its data fetch.
func isTitleScoped(operation string) bool {
	return strings.HasPrefix(operation, "title")
}
