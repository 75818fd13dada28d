package imdb

// Payload is a decoded service response: a mapping from string keys to
// JSON-compatible values. Responses are passed through largely unvalidated
// beyond key normalization; callers pick out the fields they need.
type Payload map[string]any

// titleType extracts base.titleType from an auxiliary title resource.
func titleType(resource Payload) string {
	base, ok := resource["base"].(map[string]any)
	if !ok {
		return ""
	}
	t, _ := base["titleType"].(string)
	return t
}

// TitleResult is a single title search suggestion, renamed from the
// service's single-letter field names.
type TitleResult struct {
	Title  string `json:"title"`
	Year   string `json:"year,omitempty"`
	IMDbID string `json:"imdb_id"`
	Type   string `json:"type,omitempty"`
}

// Fields returns the result as a generic record, for filter expressions.
func (r TitleResult) Fields() map[string]any {
	return map[string]any{
		"title":   r.Title,
		"year":    r.Year,
		"imdb_id": r.IMDbID,
		"type":    r.Type,
	}
}

// NameResult is a single person search suggestion.
type NameResult struct {
	Name   string `json:"name"`
	IMDbID string `json:"imdb_id"`
}

// Fields returns the result as a generic record, for filter expressions.
func (r NameResult) Fields() map[string]any {
	return map[string]any{
		"name":    r.Name,
		"imdb_id": r.IMDbID,
	}
}
