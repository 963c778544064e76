package sync_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/contentops/content-tracker/internal/content"
	"github.com/contentops/content-tracker/internal/document"
	"github.com/contentops/content-tracker/internal/index"
	"github.com/contentops/content-tracker/internal/sync"
)

type fixture struct {
	docs   *document.Store
	idx    *index.DB
	syncer *sync.Syncer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	docs := document.NewStore(t.TempDir(), []string{"blog", "video"})
	idx, err := index.Open(filepath.Join(t.TempDir(), "index.db"), index.Options{}, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })

	return &fixture{
		docs:   docs,
		idx:    idx,
		syncer: sync.NewSyncer(docs, idx, zaptest.NewLogger(t)),
	}
}

func (f *fixture) writeItem(t *testing.T, id, contentType, title string) *content.Item {
	t.Helper()

	path, err := f.docs.PathFor(id, contentType)
	require.NoError(t, err)

	today := content.Today()
	item := &content.Item{
		ID:          id,
		Title:       title,
		ContentType: contentType,
		Status:      "draft",
		CreatedDate: today,
		UpdatedDate: today,
		Body:        "Body of " + title,
		FilePath:    path,
	}
	require.NoError(t, f.docs.Write(item))
	return item
}

func TestUpsertAndRemove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	item := f.writeItem(t, "item-1", "blog", "SEO Guide")
	require.NoError(t, f.syncer.Upsert(ctx, item))

	count, err := f.idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, f.syncer.Remove(ctx, "item-1"))
	count, err = f.idx.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRebuildAll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.writeItem(t, "item-1", "blog", "SEO Guide")
	f.writeItem(t, "item-2", "video", "Video Demo")

	stats, err := f.syncer.RebuildAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Indexed)
	assert.Zero(t, stats.Skipped)

	items, total, err := f.idx.Search(ctx, index.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, items, 2)
}

func TestRebuildAll_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.writeItem(t, "item-1", "blog", "SEO Guide")
	f.writeItem(t, "item-2", "video", "Video Demo")

	first, err := f.syncer.RebuildAll(ctx)
	require.NoError(t, err)
	second, err := f.syncer.RebuildAll(ctx)
	require.NoError(t, err)

	assert.Equal(t, first.Indexed, second.Indexed)

	count, err := f.idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	items, total, err := f.idx.Search(ctx, index.Filter{Query: "seo"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "item-1", items[0].ID)
}

func TestRebuildAll_SkipsUnparseableFiles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.writeItem(t, "item-1", "blog", "SEO Guide")

	badPath := filepath.Join(f.docs.Root(), "blog", "broken.md")
	require.NoError(t, os.WriteFile(badPath, []byte("---\ntitle: [unclosed\n---\n\nx"), 0o644))

	// A file with valid YAML but no id cannot be indexed either.
	anonPath := filepath.Join(f.docs.Root(), "blog", "anonymous.md")
	require.NoError(t, os.WriteFile(anonPath, []byte("---\ntitle: No ID\n---\n\nx"), 0o644))

	stats, err := f.syncer.RebuildAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Indexed)
	assert.Equal(t, 2, stats.Skipped)
}

func TestRebuildAll_RepairsDanglingIndexRows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	item := f.writeItem(t, "item-1", "blog", "SEO Guide")
	require.NoError(t, f.syncer.Upsert(ctx, item))

	// Delete the file behind the index's back: the row now dangles.
	require.NoError(t, os.Remove(item.FilePath))

	stats, err := f.syncer.RebuildAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Indexed)

	count, err := f.idx.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRebuildAll_IgnoresNonMarkdownFiles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.writeItem(t, "item-1", "blog", "SEO Guide")
	require.NoError(t, os.WriteFile(filepath.Join(f.docs.Root(), "notes.txt"), []byte("scratch"), 0o644))

	stats, err := f.syncer.RebuildAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Indexed)
	assert.Zero(t, stats.Skipped)
}
