package imdb

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// The suggestion endpoints answer with a JSONP-style callback instead of
// bare JSON: imdb$<query>({...}). The callback name echoes the query, but
// the service substitutes spaces inconsistently, so runs of spaces in the
// query match any characters.
var genericDirtyJSON = regexp.MustCompile(`(?i)^imdb\$.+?\((.+)\)`)

// decodePayload turns a raw response body into a payload. Plain JSON is
// parsed directly; anything else is treated as a callback wrapper and the
// parenthesized argument is extracted. query, when non-empty, is the
// percent-encoded query echoed in the callback name.
func decodePayload(body, query string) (Payload, error) {
	var payload Payload
	if err := json.Unmarshal([]byte(body), &payload); err == nil {
		return payload, nil
	}

	pattern := genericDirtyJSON
	if query != "" {
		pattern = dirtyJSONPattern(query)
	}

	match := pattern.FindStringSubmatch(body)
	if match == nil {
		return nil, fmt.Errorf("%w: no callback wrapper matched", ErrMalformedResponse)
	}
	if err := json.Unmarshal([]byte(match[1]), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return payload, nil
}

// dirtyJSONPattern builds the extraction pattern for a callback name
// constrained by the original query. Every character of the decoded query
// matches literally except that runs of spaces become wildcards.
func dirtyJSONPattern(query string) *regexp.Regexp {
	decoded, err := url.QueryUnescape(query)
	if err != nil {
		decoded = query
	}

	var b strings.Builder
	b.WriteString(`(?i)^imdb\$`)
	inSpaces := false
	for _, r := range decoded {
		if r == ' ' {
			inSpaces = true
			continue
		}
		if inSpaces {
			b.WriteString(`.+`)
			inSpaces = false
		}
		b.WriteString(regexp.QuoteMeta(string(r)))
	}
	if inSpaces {
		b.WriteString(`.+`)
	}
	b.WriteString(`\((.+)\)`)

	return regexp.MustCompile(b.String())
}

// hasServiceError reports whether the payload signals absence through an
// in-band error field rather than a transport status.
func (p Payload) hasServiceError() bool {
	return truthy(p["error"])
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case map[string]any:
		return len(t) > 0
	case []any:
		return len(t) > 0
	default:
		return true
	}
}
