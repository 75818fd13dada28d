package imdb

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Anything that is not a letter, digit, or underscore is a separator.
// Unicode letters count as word characters, so accented queries keep
// their spelling in the suggestion URL.
var nonWordRun = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// SearchForTitle searches the suggestion endpoint for titles. All record
// types are returned; the year field, when present, is coerced to text.
func (c *Client) SearchForTitle(ctx context.Context, title string) ([]TitleResult, error) {
	c.logger.Debug().Str("query", title).Msg("Searching for title")

	records, err := c.search(ctx, title)
	if err != nil {
		return nil, err
	}

	results := make([]TitleResult, 0, len(records))
	for _, record := range records {
		results = append(results, TitleResult{
			Title:  stringField(record, "l"),
			Year:   yearField(record),
			IMDbID: stringField(record, "id"),
			Type:   stringField(record, "q"),
		})
	}
	return results, nil
}

// SearchForName searches the suggestion endpoint for people. Records whose
// identifier is not nm-prefixed are dropped.
func (c *Client) SearchForName(ctx context.Context, name string) ([]NameResult, error) {
	c.logger.Debug().Str("query", name).Msg("Searching for name")

	records, err := c.search(ctx, name)
	if err != nil {
		return nil, err
	}

	results := make([]NameResult, 0, len(records))
	for _, record := range records {
		id := stringField(record, "id")
		if !strings.HasPrefix(id, "nm") {
			continue
		}
		results = append(results, NameResult{
			Name:   stringField(record, "l"),
			IMDbID: id,
		})
	}
	return results, nil
}

// search normalizes the free-text query, resolves the shard the service
// files the suggestions under, and fetches the suggestion records.
func (c *Client) search(ctx context.Context, query string) ([]map[string]any, error) {
	normalized := strings.Trim(nonWordRun.ReplaceAllString(query, "_"), "_")
	shard, err := firstAlphaNum(normalized)
	if err != nil {
		return nil, err
	}

	encoded := url.PathEscape(normalized)
	searchURL := fmt.Sprintf("%s/suggests/%c/%s.json", c.pipeline.searchBaseURL, shard, encoded)

	payload, err := c.pipeline.getRaw(ctx, searchURL, encoded, nil)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, nil
	}

	raw, _ := payload["d"].([]any)
	records := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		if record, ok := item.(map[string]any); ok {
			records = append(records, record)
		}
	}
	return records, nil
}

// firstAlphaNum returns the first alphanumeric character of the query,
// case-folded. The service shards its suggestion files by it.
func firstAlphaNum(query string) (rune, error) {
	for _, r := range strings.ToLower(query) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidQuery, query)
}

func stringField(record map[string]any, key string) string {
	s, _ := record[key].(string)
	return s
}

// yearField coerces the numeric year to text when present.
func yearField(record map[string]any) string {
	switch y := record["y"].(type) {
	case float64:
		return strconv.Itoa(int(y))
	case string:
		return y
	default:
		return ""
	}
}
