package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

type fakeDocStore struct {
	sources []string
	docs    map[string]*domain.Document
	deleted []string
	err     error
}

func (f *fakeDocStore) SaveDocument(_ context.Context, _ *domain.Document) error { return nil }
func (f *fakeDocStore) SaveChunks(_ context.Context, _ []domain.Chunk) error     { return nil }
func (f *fakeDocStore) GetChunks(_ context.Context, _ string) ([]domain.Chunk, error) {
	return nil, nil
}
func (f *fakeDocStore) Close() error { return nil }

func (f *fakeDocStore) ListSources(_ context.Context) ([]string, error) {
	return f.sources, f.err
}

func (f *fakeDocStore) GetDocument(_ context.Context, source string) (*domain.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	doc, ok := f.docs[source]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

func (f *fakeDocStore) DeleteDocument(_ context.Context, source string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, source)
	return nil
}

func TestSourcesCmd_ListsPages(t *testing.T) {
	store := &fakeDocStore{sources: []string{"https://docs.example/a", "https://docs.example/b"}}
	withServices(t, Services{Docs: store})

	out, err := execute(t, "sources")

	require.NoError(t, err)
	assert.Contains(t, out, "https://docs.example/a")
	assert.Contains(t, out, "https://docs.example/b")
}

func TestSourcesCmd_EmptyIndexHintsAtIngest(t *testing.T) {
	withServices(t, Services{Docs: &fakeDocStore{}})

	out, err := execute(t, "sources")

	require.NoError(t, err)
	assert.Contains(t, out, "docchat ingest")
}

func TestSourcesShowCmd_PrintsDocument(t *testing.T) {
	store := &fakeDocStore{docs: map[string]*domain.Document{
		"https://docs.example/a": {
			Source:  "https://docs.example/a",
			Title:   "Getting Started",
			Content: "Install the agent first.",
		},
	}}
	withServices(t, Services{Docs: store})

	out, err := execute(t, "sources", "show", "https://docs.example/a")

	require.NoError(t, err)
	assert.Contains(t, out, "# Getting Started")
	assert.Contains(t, out, "Install the agent first.")
}

func TestSourcesShowCmd_UnknownPage(t *testing.T) {
	withServices(t, Services{Docs: &fakeDocStore{}})

	_, err := execute(t, "sources", "show", "https://docs.example/missing")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSourcesRemoveCmd_Deletes(t *testing.T) {
	store := &fakeDocStore{}
	withServices(t, Services{Docs: store})

	out, err := execute(t, "sources", "remove", "https://docs.example/a")

	require.NoError(t, err)
	assert.Equal(t, []string{"https://docs.example/a"}, store.deleted)
	assert.Contains(t, out, "Removed")
}

func TestSourcesCmd_FailsWithoutStore(t *testing.T) {
	withServices(t, Services{})

	_, err := execute(t, "sources")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
