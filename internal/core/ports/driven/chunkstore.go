package driven

import (
	"context"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

// ChunkStore provides similarity search and exact lookup over embedded
// documentation chunks. Query embedding happens inside the adapter; the
// core only ever passes query text and identifier strings.
//
// Implementations must be safe for concurrent readers once loaded.
type ChunkStore interface {
	// SimilaritySearch returns the k nearest chunks to the query text,
	// most relevant first. Score follows the distance convention: lower
	// is more relevant. Ties keep the backend's return order.
	SimilaritySearch(ctx context.Context, query string, k int) ([]domain.ScoredChunk, error)

	// FetchByIDs retrieves chunks by their "{source}:{ordinal}"
	// identifiers. Unknown identifiers are simply absent from the
	// result; they are never an error.
	FetchByIDs(ctx context.Context, ids []string) (map[string]domain.RetrievedChunk, error)

	// Upsert stores chunks with their embeddings, keyed by chunk ID.
	// Re-ingesting an existing identifier overwrites it.
	Upsert(ctx context.Context, chunks []domain.Chunk, vectors [][]float32) error

	// Count returns the number of stored chunks.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
