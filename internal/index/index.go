package index

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/contentops/content-tracker/internal/content"
)

// Upsert writes the scalar row and the FTS row for an item inside one
// transaction, so a given id is never visible in only one of the two
// tables.
func (d *DB) Upsert(ctx context.Context, item *content.Item) error {
	categoriesJSON, err := json.Marshal(orEmpty(item.Categories))
	if err != nil {
		return fmt.Errorf("marshal categories: %w", err)
	}
	tagsJSON, err := json.Marshal(orEmpty(item.Tags))
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}
	customJSON, err := json.Marshal(content.NormalizeCustomFields(item.CustomFields))
	if err != nil {
		return fmt.Errorf("marshal custom fields: %w", err)
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback()

	scalar := `
	INSERT INTO content_items (
		id, file_path, title, content_type, status, created_date, updated_date,
		publish_date, author, client, url, description,
		categories_json, tags_json, custom_fields_json, last_indexed
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, datetime('now'))
	ON CONFLICT(id) DO UPDATE SET
		file_path = excluded.file_path,
		title = excluded.title,
		content_type = excluded.content_type,
		status = excluded.status,
		created_date = excluded.created_date,
		updated_date = excluded.updated_date,
		publish_date = excluded.publish_date,
		author = excluded.author,
		client = excluded.client,
		url = excluded.url,
		description = excluded.description,
		categories_json = excluded.categories_json,
		tags_json = excluded.tags_json,
		custom_fields_json = excluded.custom_fields_json,
		last_indexed = excluded.last_indexed
	`

	var publishDate any
	if item.PublishDate != nil && !item.PublishDate.IsZero() {
		publishDate = item.PublishDate.String()
	}

	_, err = tx.ExecContext(ctx, scalar,
		item.ID, item.FilePath, item.Title, item.ContentType, nullIf(item.Status),
		nullIf(item.CreatedDate.String()), nullIf(item.UpdatedDate.String()), publishDate,
		nullIf(item.Author), nullIf(item.Client), nullIf(item.URL), nullIf(item.Description),
		string(categoriesJSON), string(tagsJSON), string(customJSON),
	)
	if err != nil {
		return fmt.Errorf("upsert content row: %w", err)
	}

	// FTS5 has no unique constraint, so replace means delete then insert.
	if _, err := tx.ExecContext(ctx, "DELETE FROM content_fts WHERE id = ?", item.ID); err != nil {
		return fmt.Errorf("clear fts row: %w", err)
	}

	title, description, body, tags := item.SearchText()
	_, err = tx.ExecContext(ctx,
		"INSERT INTO content_fts (id, title, description, body, tags) VALUES (?, ?, ?, ?, ?)",
		item.ID, title, description, body, tags,
	)
	if err != nil {
		return fmt.Errorf("insert fts row: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert: %w", err)
	}
	return nil
}

// Remove deletes the scalar row and the FTS row for an id. Removing an id
// that was never indexed is a no-op, not an error.
func (d *DB) Remove(ctx context.Context, id string) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin remove: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM content_items WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete content row: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM content_fts WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete fts row: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit remove: %w", err)
	}
	return nil
}

// Clear empties both tables. Used by full rebuilds.
func (d *DB) Clear(ctx context.Context) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin clear: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM content_items"); err != nil {
		return fmt.Errorf("clear content rows: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM content_fts"); err != nil {
		return fmt.Errorf("clear fts rows: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit clear: %w", err)
	}
	return nil
}

// Count returns the number of indexed items.
func (d *DB) Count(ctx context.Context) (int, error) {
	var count int
	err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM content_items").Scan(&count)
	return count, err
}

// nullIf maps empty strings to NULL so optional columns stay out of
// DISTINCT value listings.
func nullIf(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// orEmpty keeps JSON blobs as [] rather than null for nil slices.
func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
