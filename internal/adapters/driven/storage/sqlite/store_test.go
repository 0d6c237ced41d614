package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleDoc() *domain.Document {
	return &domain.Document{
		ID:      "doc-1",
		Source:  "https://docs.example/models/detector",
		Title:   "Detector",
		Content: "Full page text.",
		Kind:    domain.DocKindModel,
	}
}

func TestSaveAndGetDocument(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, sampleDoc()))

	got, err := store.GetDocument(ctx, "https://docs.example/models/detector")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", got.ID)
	assert.Equal(t, "Detector", got.Title)
	assert.Equal(t, domain.DocKindModel, got.Kind)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestSaveDocumentUpsertsBySource(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, sampleDoc()))

	updated := sampleDoc()
	updated.Title = "Detector v2"
	require.NoError(t, store.SaveDocument(ctx, updated))

	got, err := store.GetDocument(ctx, updated.Source)
	require.NoError(t, err)
	assert.Equal(t, "Detector v2", got.Title)

	sources, err := store.ListSources(ctx)
	require.NoError(t, err)
	assert.Len(t, sources, 1)
}

func TestGetDocumentNotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetDocument(context.Background(), "https://docs.example/missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestSaveChunksReplacesPreviousSet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc := sampleDoc()
	require.NoError(t, store.SaveDocument(ctx, doc))

	first := []domain.Chunk{
		{DocumentID: doc.ID, Source: doc.Source, Ordinal: 0, Text: "a"},
		{DocumentID: doc.ID, Source: doc.Source, Ordinal: 1, Text: "b"},
		{DocumentID: doc.ID, Source: doc.Source, Ordinal: 2, Text: "c"},
	}
	require.NoError(t, store.SaveChunks(ctx, first))

	second := []domain.Chunk{
		{DocumentID: doc.ID, Source: doc.Source, Ordinal: 0, Text: "new"},
	}
	require.NoError(t, store.SaveChunks(ctx, second))

	chunks, err := store.GetChunks(ctx, doc.Source)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "new", chunks[0].Text)
}

func TestGetChunksOrdinalOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc := sampleDoc()
	require.NoError(t, store.SaveDocument(ctx, doc))

	// Inserted out of order on purpose.
	chunks := []domain.Chunk{
		{DocumentID: doc.ID, Source: doc.Source, Ordinal: 2, Text: "third"},
		{DocumentID: doc.ID, Source: doc.Source, Ordinal: 0, Text: "first"},
		{DocumentID: doc.ID, Source: doc.Source, Ordinal: 1, Text: "second"},
	}
	require.NoError(t, store.SaveChunks(ctx, chunks))

	got, err := store.GetChunks(ctx, doc.Source)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "first", got[0].Text)
	assert.Equal(t, "second", got[1].Text)
	assert.Equal(t, "third", got[2].Text)
}

func TestSaveChunksRejectsMixedSources(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, sampleDoc()))

	mixed := []domain.Chunk{
		{DocumentID: "doc-1", Source: "https://docs.example/models/detector", Ordinal: 0, Text: "a"},
		{DocumentID: "doc-1", Source: "https://docs.example/other", Ordinal: 0, Text: "b"},
	}
	err := store.SaveChunks(ctx, mixed)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestDeleteDocumentCascadesToChunks(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc := sampleDoc()
	require.NoError(t, store.SaveDocument(ctx, doc))
	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{DocumentID: doc.ID, Source: doc.Source, Ordinal: 0, Text: "a"},
	}))

	require.NoError(t, store.DeleteDocument(ctx, doc.Source))

	_, err := store.GetDocument(ctx, doc.Source)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	chunks, err := store.GetChunks(ctx, doc.Source)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestDeleteDocumentNotFound(t *testing.T) {
	store := newTestStore(t)
	err := store.DeleteDocument(context.Background(), "https://docs.example/missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestListSourcesSorted(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, src := range []string{"https://b.example", "https://a.example"} {
		require.NoError(t, store.SaveDocument(ctx, &domain.Document{
			ID:     src,
			Source: src,
		}))
	}

	sources, err := store.ListSources(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, sources)
}
