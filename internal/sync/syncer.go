// Package sync propagates document-store changes into the query index and
// provides the full rebuild that repairs any drift between the two.
package sync

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/contentops/content-tracker/internal/content"
	"github.com/contentops/content-tracker/internal/document"
	"github.com/contentops/content-tracker/internal/index"
)

// Syncer keeps the index aligned with the document store. Writes go to the
// files first; the index update that follows is a single step with no
// retry, so a failure here leaves the files ahead of the index until the
// next rebuild.
type Syncer struct {
	docs *document.Store
	idx  *index.DB
	log  *zap.Logger
}

// NewSyncer creates a syncer over the given store and index.
func NewSyncer(docs *document.Store, idx *index.DB, log *zap.Logger) *Syncer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Syncer{docs: docs, idx: idx, log: log}
}

// Upsert mirrors an item that was just written to the document store.
func (s *Syncer) Upsert(ctx context.Context, item *content.Item) error {
	if err := s.idx.Upsert(ctx, item); err != nil {
		return &content.SyncError{Op: "upsert", ID: item.ID, Err: err}
	}
	return nil
}

// Remove drops the index rows for an item whose file was just deleted.
func (s *Syncer) Remove(ctx context.Context, id string) error {
	if err := s.idx.Remove(ctx, id); err != nil {
		return &content.SyncError{Op: "remove", ID: id, Err: err}
	}
	return nil
}

// Stats summarizes a full rebuild.
type Stats struct {
	Indexed  int
	Skipped  int
	Duration time.Duration
}

// RebuildAll clears the index and re-creates it from every markdown file
// under the library root. Files that fail to parse or to index are logged
// and skipped; they never abort the rebuild. Returns the number of items
// successfully indexed.
func (s *Syncer) RebuildAll(ctx context.Context) (*Stats, error) {
	start := time.Now()
	stats := &Stats{}

	if err := s.idx.Clear(ctx); err != nil {
		return nil, fmt.Errorf("clear index: %w", err)
	}

	err := filepath.WalkDir(s.docs.Root(), func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			return nil
		}

		item, err := s.docs.Read(path)
		if err != nil {
			s.log.Warn("skipping unparseable file", zap.String("path", path), zap.Error(err))
			stats.Skipped++
			return nil
		}
		if item.ID == "" {
			s.log.Warn("skipping file without id", zap.String("path", path))
			stats.Skipped++
			return nil
		}

		if err := s.idx.Upsert(ctx, item); err != nil {
			s.log.Warn("skipping unindexable file", zap.String("path", path), zap.Error(err))
			stats.Skipped++
			return nil
		}

		stats.Indexed++
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk content library: %w", err)
	}

	stats.Duration = time.Since(start)
	s.log.Info("index rebuild complete",
		zap.Int("indexed", stats.Indexed),
		zap.Int("skipped", stats.Skipped),
		zap.Duration("duration", stats.Duration),
	)
	return stats, nil
}
