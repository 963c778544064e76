package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/contentops/content-tracker/internal/content"
)

// Filter describes one search. Every populated field narrows the result
// set; all predicates are ANDed together.
type Filter struct {
	// Query is a full-text search over title, description, body and tags.
	// It is handed to the FTS engine verbatim, so MATCH operator syntax
	// (quotes, AND/OR/NOT, prefix *) is live and a syntactically invalid
	// query surfaces as an error to the caller.
	Query string
	// ContentTypes and Statuses are membership tests; empty means no filter.
	ContentTypes []string
	Statuses     []string
	// Tags matches items carrying any of the requested tags (OR semantics).
	Tags []string
	// Client is an exact match against the dedicated client column.
	Client string
	// DateFrom and DateTo bound created_date inclusively.
	DateFrom content.Date
	DateTo   content.Date

	// Limit is clamped to the configured maximum; zero means the default
	// page size. Offset below zero is treated as zero.
	Limit  int
	Offset int
}

// Search runs the filter against the index and returns the matching page
// plus the total match count before pagination. Results never include the
// body; ordering is most-recently-updated first with id as tie-break so
// pagination is stable.
func (d *DB) Search(ctx context.Context, f Filter) ([]*content.Item, int, error) {
	where, args := f.buildWhere()

	var total int
	countSQL := "SELECT COUNT(*) FROM content_items" + where
	if err := d.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count matches: %w", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = d.opts.DefaultPageSize
	}
	if limit > d.opts.MaxPageSize {
		limit = d.opts.MaxPageSize
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	pageSQL := "SELECT " + itemColumns + " FROM content_items" + where +
		" ORDER BY updated_date DESC, id DESC LIMIT ? OFFSET ?"
	rows, err := d.db.QueryContext(ctx, pageSQL, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	var items []*content.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			// A row with an undecodable blob is skipped, never fatal.
			d.log.Warn("skipping unreadable index row", zap.Error(err))
			continue
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate matches: %w", err)
	}

	return items, total, nil
}

// buildWhere assembles the WHERE clause shared by the count and page
// queries.
func (f Filter) buildWhere() (string, []any) {
	var conds []string
	var args []any

	if f.Query != "" {
		conds = append(conds, "id IN (SELECT id FROM content_fts WHERE content_fts MATCH ?)")
		args = append(args, f.Query)
	}
	if len(f.ContentTypes) > 0 {
		conds = append(conds, "content_type IN ("+placeholders(len(f.ContentTypes))+")")
		for _, v := range f.ContentTypes {
			args = append(args, v)
		}
	}
	if len(f.Statuses) > 0 {
		conds = append(conds, "status IN ("+placeholders(len(f.Statuses))+")")
		for _, v := range f.Statuses {
			args = append(args, v)
		}
	}
	if len(f.Tags) > 0 {
		// Structured membership over the serialized tag list; any
		// requested tag matches. The json_valid guard keeps a row with
		// a corrupt blob from aborting the whole query: json_each
		// throws on malformed input, so such rows are filtered out
		// instead.
		conds = append(conds,
			"(json_valid(content_items.tags_json) AND EXISTS "+
				"(SELECT 1 FROM json_each(content_items.tags_json) WHERE json_each.value IN ("+
				placeholders(len(f.Tags))+")))")
		for _, v := range f.Tags {
			args = append(args, v)
		}
	}
	if f.Client != "" {
		conds = append(conds, "client = ?")
		args = append(args, f.Client)
	}
	if !f.DateFrom.IsZero() {
		conds = append(conds, "created_date >= ?")
		args = append(args, f.DateFrom.String())
	}
	if !f.DateTo.IsZero() {
		conds = append(conds, "created_date <= ?")
		args = append(args, f.DateTo.String())
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

const itemColumns = `id, file_path, title, content_type, status,
	created_date, updated_date, publish_date, author, client, url, description,
	categories_json, tags_json, custom_fields_json`

// scanItem hydrates one index row into an item without body.
func scanItem(rows *sql.Rows) (*content.Item, error) {
	var (
		item                                 content.Item
		status, created, updated, published  sql.NullString
		author, client, url, description     sql.NullString
		categoriesJSON, tagsJSON, customJSON sql.NullString
	)

	err := rows.Scan(
		&item.ID, &item.FilePath, &item.Title, &item.ContentType, &status,
		&created, &updated, &published, &author, &client, &url, &description,
		&categoriesJSON, &tagsJSON, &customJSON,
	)
	if err != nil {
		return nil, fmt.Errorf("scan row: %w", err)
	}

	item.Status = status.String
	item.Author = author.String
	item.Client = client.String
	item.URL = url.String
	item.Description = description.String

	if item.CreatedDate, err = dateOrToday(created); err != nil {
		return nil, fmt.Errorf("row %s: %w", item.ID, err)
	}
	if item.UpdatedDate, err = dateOrToday(updated); err != nil {
		return nil, fmt.Errorf("row %s: %w", item.ID, err)
	}
	if published.Valid && published.String != "" {
		d, err := content.ParseDate(published.String)
		if err != nil {
			return nil, fmt.Errorf("row %s: %w", item.ID, err)
		}
		item.PublishDate = &d
	}

	if err := decodeJSON(categoriesJSON, &item.Categories); err != nil {
		return nil, fmt.Errorf("row %s categories: %w", item.ID, err)
	}
	if err := decodeJSON(tagsJSON, &item.Tags); err != nil {
		return nil, fmt.Errorf("row %s tags: %w", item.ID, err)
	}
	if err := decodeJSON(customJSON, &item.CustomFields); err != nil {
		return nil, fmt.Errorf("row %s custom fields: %w", item.ID, err)
	}

	return &item, nil
}

func dateOrToday(s sql.NullString) (content.Date, error) {
	if !s.Valid || s.String == "" {
		return content.Today(), nil
	}
	return content.ParseDate(s.String)
}

func decodeJSON[T any](blob sql.NullString, dst *T) error {
	if !blob.Valid || blob.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(blob.String), dst)
}

// uniqueValueColumns whitelists the fields exposed through UniqueValues.
var uniqueValueColumns = map[string]string{
	"content_type": "content_type",
	"status":       "status",
	"author":       "author",
	"client":       "client",
}

// UniqueValues returns the sorted distinct non-empty values of a scalar
// field, for filter dropdowns.
func (d *DB) UniqueValues(ctx context.Context, field string) ([]string, error) {
	column, ok := uniqueValueColumns[field]
	if !ok {
		return nil, &content.ValidationError{Field: "field", Message: fmt.Sprintf("unknown filter field %q", field)}
	}

	query := fmt.Sprintf(
		"SELECT DISTINCT %s FROM content_items WHERE %s IS NOT NULL AND %s != '' ORDER BY %s",
		column, column, column, column,
	)
	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", field, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan %s value: %w", field, err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
