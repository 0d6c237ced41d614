package driven

import (
	"context"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

// CorpusFetcher retrieves the documentation corpus as rendered text pages.
// Implementations own discovery, concurrency limits and retry policy; a
// page that failed all its retries is returned with its Err field set
// rather than aborting the batch.
type CorpusFetcher interface {
	// FetchAll fetches every known page. The returned slice contains
	// one entry per page, successes and typed failures alike.
	FetchAll(ctx context.Context) ([]domain.FetchedPage, error)
}

// Splitter divides rendered page text into embeddable chunks.
type Splitter interface {
	// Split returns the chunk texts for a page, in reading order.
	// Empty input yields no chunks.
	Split(text string) []string
}
