package driven

import (
	"context"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

// DocumentStore persists scraped pages and their chunks.
// Backed by SQLite for local metadata storage.
type DocumentStore interface {
	// SaveDocument stores or updates a page, keyed by Source.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// SaveChunks stores the chunk rows for a document, replacing any
	// previous chunk set for the same source.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetDocument retrieves a page by its source URL.
	GetDocument(ctx context.Context, source string) (*domain.Document, error)

	// GetChunks retrieves all chunks for a source, ordinal order.
	GetChunks(ctx context.Context, source string) ([]domain.Chunk, error)

	// ListSources returns all known page sources, sorted.
	ListSources(ctx context.Context) ([]string, error)

	// DeleteDocument removes a page and its chunks.
	DeleteDocument(ctx context.Context, source string) error

	// Close releases the underlying database handle.
	Close() error
}
