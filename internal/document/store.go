// Package document persists content items as markdown files with YAML
// front-matter. The files are the canonical source of truth; everything in
// the index can be rebuilt from them.
package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/contentops/content-tracker/internal/content"
)

const (
	fileExt   = ".md"
	delimiter = "---"
)

// Store reads and writes one markdown file per content item under
// <root>/<content_type>/<id>.md.
type Store struct {
	root         string
	contentTypes []string
}

// NewStore creates a store rooted at the content library directory.
// contentTypes seeds the id-lookup fallback; directories discovered under
// the root at lookup time are probed as well.
func NewStore(root string, contentTypes []string) *Store {
	return &Store{root: root, contentTypes: contentTypes}
}

// Root returns the content library root directory.
func (s *Store) Root() string { return s.root }

// PathFor returns the deterministic file path for an item and creates the
// content-type subdirectory if it does not exist yet.
func (s *Store) PathFor(id, contentType string) (string, error) {
	dir := filepath.Join(s.root, contentType)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create content directory %s: %w", dir, err)
	}
	return filepath.Join(dir, id+fileExt), nil
}

// frontMatter is the YAML metadata block at the top of each file.
type frontMatter struct {
	ID           string         `yaml:"id"`
	Title        string         `yaml:"title"`
	ContentType  string         `yaml:"content_type"`
	Status       string         `yaml:"status"`
	CreatedDate  content.Date   `yaml:"created_date"`
	UpdatedDate  content.Date   `yaml:"updated_date"`
	PublishDate  *content.Date  `yaml:"publish_date"`
	Author       string         `yaml:"author"`
	Client       string         `yaml:"client"`
	URL          string         `yaml:"url"`
	Description  string         `yaml:"description"`
	Categories   []string       `yaml:"categories"`
	Tags         []string       `yaml:"tags"`
	CustomFields map[string]any `yaml:"custom_fields"`
}

// Read parses a content file. A malformed metadata block yields a
// *content.ParseError; a file without a leading delimiter is treated as
// all body with empty metadata.
func (s *Store) Read(path string) (*content.Item, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	text := string(raw)
	item := &content.Item{FilePath: path}

	if !strings.HasPrefix(text, delimiter) {
		item.Body = text
		return item, nil
	}

	parts := strings.SplitN(text, delimiter, 3)
	if len(parts) < 3 {
		// Opening delimiter without a closing one: everything is body.
		item.Body = text
		return item, nil
	}

	var fm frontMatter
	if err := yaml.Unmarshal([]byte(parts[1]), &fm); err != nil {
		return nil, &content.ParseError{Path: path, Err: err}
	}

	item.ID = fm.ID
	item.Title = fm.Title
	item.ContentType = fm.ContentType
	item.Status = fm.Status
	item.CreatedDate = fm.CreatedDate
	item.UpdatedDate = fm.UpdatedDate
	item.PublishDate = fm.PublishDate
	item.Author = fm.Author
	item.Client = fm.Client
	item.URL = fm.URL
	item.Description = fm.Description
	item.Categories = fm.Categories
	item.Tags = fm.Tags
	item.CustomFields = content.NormalizeCustomFields(fm.CustomFields)
	item.Body = strings.TrimSpace(parts[2])

	// Files written before client became a first-class field carry it
	// inside custom_fields.
	if item.Client == "" {
		if legacy, ok := item.CustomFields["client"].(string); ok {
			item.Client = legacy
		}
	}

	return item, nil
}

// Write serializes the item as front-matter plus body and fully overwrites
// any existing file. The write is a plain truncate-and-write, not an
// atomic rename; a crash mid-write can corrupt the file and the repair
// path is a full index rebuild after fixing the file by hand.
func (s *Store) Write(item *content.Item) error {
	fm := frontMatter{
		ID:           item.ID,
		Title:        item.Title,
		ContentType:  item.ContentType,
		Status:       item.Status,
		CreatedDate:  item.CreatedDate,
		UpdatedDate:  item.UpdatedDate,
		PublishDate:  item.PublishDate,
		Author:       item.Author,
		Client:       item.Client,
		URL:          item.URL,
		Description:  item.Description,
		Categories:   item.Categories,
		Tags:         item.Tags,
		CustomFields: content.NormalizeCustomFields(item.CustomFields),
	}

	meta, err := yaml.Marshal(&fm)
	if err != nil {
		return fmt.Errorf("marshal front-matter: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(item.FilePath), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", item.FilePath, err)
	}

	text := delimiter + "\n" + string(meta) + delimiter + "\n\n" + item.Body
	if err := os.WriteFile(item.FilePath, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", item.FilePath, err)
	}
	return nil
}

// Delete removes the backing file.
func (s *Store) Delete(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

// FindByID locates the file for an id by probing each content-type
// directory for <id>.md. There is no id-to-path index, so this is linear
// in the number of content types, not in the number of items. Directories
// present under the root but missing from the configured list are probed
// too, so types added out of band still resolve.
func (s *Store) FindByID(id string) (string, error) {
	for _, contentType := range s.candidateTypes() {
		path := filepath.Join(s.root, contentType, id+fileExt)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("stat %s: %w", path, err)
		}
	}
	return "", content.ErrNotFound
}

// candidateTypes returns the configured content types plus any extra
// subdirectories of the library root, configured list first.
func (s *Store) candidateTypes() []string {
	seen := make(map[string]bool, len(s.contentTypes))
	types := make([]string, 0, len(s.contentTypes))
	for _, t := range s.contentTypes {
		if !seen[t] {
			seen[t] = true
			types = append(types, t)
		}
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return types
	}
	for _, entry := range entries {
		if entry.IsDir() && !seen[entry.Name()] {
			seen[entry.Name()] = true
			types = append(types, entry.Name())
		}
	}
	return types
}
