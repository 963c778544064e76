// Package tracker exposes the content-tracking operations consumed by the
// outer layers (HTTP handlers, CLI). Every mutation writes the canonical
// markdown file first and synchronizes the index second; a failure in the
// second step surfaces as a SyncError and is repaired by the next rebuild.
package tracker

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/contentops/content-tracker/internal/content"
	"github.com/contentops/content-tracker/internal/document"
	"github.com/contentops/content-tracker/internal/index"
	"github.com/contentops/content-tracker/internal/sync"
)

// Service orchestrates the document store, the index and the synchronizer.
type Service struct {
	docs   *document.Store
	idx    *index.DB
	syncer *sync.Syncer
	log    *zap.Logger
}

// NewService wires a service over its storage components.
func NewService(docs *document.Store, idx *index.DB, syncer *sync.Syncer, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{docs: docs, idx: idx, syncer: syncer, log: log}
}

// Create validates the input, writes a new content file and indexes it.
// The returned item carries the generated id and derived file path.
func (s *Service) Create(ctx context.Context, in content.CreateInput) (*content.Item, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = "draft"
	}

	today := content.Today()
	item := &content.Item{
		ID:           uuid.NewString(),
		Title:        in.Title,
		ContentType:  in.ContentType,
		Status:       status,
		CreatedDate:  today,
		UpdatedDate:  today,
		PublishDate:  in.PublishDate,
		Author:       in.Author,
		Client:       in.Client,
		URL:          in.URL,
		Description:  in.Description,
		Categories:   in.Categories,
		Tags:         in.Tags,
		CustomFields: content.NormalizeCustomFields(in.CustomFields),
		Body:         in.Body,
	}

	path, err := s.docs.PathFor(item.ID, item.ContentType)
	if err != nil {
		return nil, err
	}
	item.FilePath = path

	if err := s.docs.Write(item); err != nil {
		return nil, err
	}
	if err := s.syncer.Upsert(ctx, item); err != nil {
		return nil, err
	}

	s.log.Info("content created",
		zap.String("id", item.ID),
		zap.String("content_type", item.ContentType),
	)
	return item, nil
}

// Get returns the full item including body, or content.ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (*content.Item, error) {
	path, err := s.docs.FindByID(id)
	if err != nil {
		return nil, err
	}
	return s.docs.Read(path)
}

// Update applies a partial field set to an existing item, refreshes the
// updated date and resynchronizes the index. Changing content_type moves
// the file so the derived-path invariant keeps holding.
func (s *Service) Update(ctx context.Context, id string, in content.UpdateInput) (*content.Item, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	oldPath := item.FilePath
	in.Apply(item)
	item.UpdatedDate = content.Today()
	if item.UpdatedDate.Before(item.CreatedDate) {
		item.UpdatedDate = item.CreatedDate
	}

	newPath, err := s.docs.PathFor(item.ID, item.ContentType)
	if err != nil {
		return nil, err
	}
	item.FilePath = newPath

	if err := s.docs.Write(item); err != nil {
		return nil, err
	}
	if newPath != oldPath {
		if err := s.docs.Delete(oldPath); err != nil {
			return nil, fmt.Errorf("remove relocated file: %w", err)
		}
	}

	if err := s.syncer.Upsert(ctx, item); err != nil {
		return nil, err
	}

	s.log.Info("content updated", zap.String("id", item.ID))
	return item, nil
}

// Delete removes the file and the index rows. A missing id reports
// (false, nil) rather than an error.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	path, err := s.docs.FindByID(id)
	if errors.Is(err, content.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := s.docs.Delete(path); err != nil {
		return false, err
	}
	if err := s.syncer.Remove(ctx, id); err != nil {
		return false, err
	}

	s.log.Info("content deleted", zap.String("id", id))
	return true, nil
}

// Search runs a filter against the index and returns the matching page
// (list projection, no body) plus the total match count.
func (s *Service) Search(ctx context.Context, f index.Filter) ([]*content.Item, int, error) {
	return s.idx.Search(ctx, f)
}

// Rebuild recreates the whole index from the content library and returns
// the number of items indexed.
func (s *Service) Rebuild(ctx context.Context) (int, error) {
	stats, err := s.syncer.RebuildAll(ctx)
	if err != nil {
		return 0, err
	}
	return stats.Indexed, nil
}

// FilterOptions returns the sorted distinct values of a filterable field:
// content_type, status, author or client.
func (s *Service) FilterOptions(ctx context.Context, field string) ([]string, error) {
	return s.idx.UniqueValues(ctx, field)
}
