// Package content defines the domain model for tracked content items:
// the canonical Item, calendar dates, create/update inputs with their
// validation rules, and the error taxonomy shared by the document store,
// the index and the service layer.
package content

// Item is one tracked unit of content. The markdown file under the content
// library is the canonical representation; the index row is derived from it.
type Item struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	ContentType string `json:"content_type"`
	Status      string `json:"status"`

	CreatedDate Date  `json:"created_date"`
	UpdatedDate Date  `json:"updated_date"`
	PublishDate *Date `json:"publish_date,omitempty"`

	Author      string `json:"author,omitempty"`
	Client      string `json:"client,omitempty"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`

	Categories   []string       `json:"categories"`
	Tags         []string       `json:"tags"`
	CustomFields map[string]any `json:"custom_fields"`

	// Body is the markdown payload. List/search results leave it empty.
	Body string `json:"body,omitempty"`

	// FilePath is derived from ID and ContentType, never user-settable.
	FilePath string `json:"file_path"`
}

// SearchText returns the concatenated text that feeds the full-text index:
// title, description, body and tags.
func (it *Item) SearchText() (title, description, body, tags string) {
	joined := ""
	for i, tag := range it.Tags {
		if i > 0 {
			joined += " "
		}
		joined += tag
	}
	return it.Title, it.Description, it.Body, joined
}

// CreateInput carries the caller-supplied fields for a new item.
type CreateInput struct {
	Title        string         `json:"title"`
	ContentType  string         `json:"content_type"`
	Status       string         `json:"status"`
	Description  string         `json:"description"`
	Author       string         `json:"author"`
	Client       string         `json:"client"`
	URL          string         `json:"url"`
	PublishDate  *Date          `json:"publish_date"`
	Categories   []string       `json:"categories"`
	Tags         []string       `json:"tags"`
	CustomFields map[string]any `json:"custom_fields"`
	Body         string         `json:"body"`
}

// UpdateInput carries a partial field set; nil pointers leave the existing
// value untouched.
type UpdateInput struct {
	Title        *string         `json:"title"`
	ContentType  *string         `json:"content_type"`
	Status       *string         `json:"status"`
	Description  *string         `json:"description"`
	Author       *string         `json:"author"`
	Client       *string         `json:"client"`
	URL          *string         `json:"url"`
	PublishDate  *Date           `json:"publish_date"`
	Categories   *[]string       `json:"categories"`
	Tags         *[]string       `json:"tags"`
	CustomFields *map[string]any `json:"custom_fields"`
	Body         *string         `json:"body"`
}

// Apply overlays the provided fields onto the item. ContentType changes are
// applied to the metadata only; relocating the backing file is the caller's
// concern.
func (u UpdateInput) Apply(it *Item) {
	if u.Title != nil {
		it.Title = *u.Title
	}
	if u.ContentType != nil {
		it.ContentType = *u.ContentType
	}
	if u.Status != nil {
		it.Status = *u.Status
	}
	if u.Description != nil {
		it.Description = *u.Description
	}
	if u.Author != nil {
		it.Author = *u.Author
	}
	if u.Client != nil {
		it.Client = *u.Client
	}
	if u.URL != nil {
		it.URL = *u.URL
	}
	if u.PublishDate != nil {
		d := *u.PublishDate
		it.PublishDate = &d
	}
	if u.Categories != nil {
		it.Categories = *u.Categories
	}
	if u.Tags != nil {
		it.Tags = *u.Tags
	}
	if u.CustomFields != nil {
		it.CustomFields = NormalizeCustomFields(*u.CustomFields)
	}
	if u.Body != nil {
		it.Body = *u.Body
	}
}

// NormalizeCustomFields coerces an open field mapping into JSON-safe values:
// strings, bools, int64/float64 numbers, nil, []any and map[string]any.
// Anything else is rendered through the default string conversion of its
// concrete type during JSON serialization, so unknown YAML shapes (keyed by
// non-strings) are rewritten here to keep the blob decodable.
func NormalizeCustomFields(fields map[string]any) map[string]any {
	if fields == nil {
		return nil
	}
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case nil, string, bool, int64, float64:
		return val
	case int:
		return int64(val)
	case float32:
		return float64(val)
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = normalizeValue(elem)
		}
		return out
	case map[string]any:
		return NormalizeCustomFields(val)
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			if key, ok := k.(string); ok {
				out[key] = normalizeValue(elem)
			}
		}
		return out
	default:
		return val
	}
}
