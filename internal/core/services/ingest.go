package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService drives scrape -> split -> embed -> store. Chunk ordinals
// are assigned densely per source, starting at 0, in split order; this is
// what makes context window expansion meaningful at query time.
type IngestService struct {
	fetcher  driven.CorpusFetcher
	splitter driven.Splitter
	embedder driven.EmbeddingService
	chunks   driven.ChunkStore
	docs     driven.DocumentStore
}

// NewIngestService creates the ingestion pipeline. The document store may
// be nil; page persistence is then skipped.
func NewIngestService(
	fetcher driven.CorpusFetcher,
	splitter driven.Splitter,
	embedder driven.EmbeddingService,
	chunks driven.ChunkStore,
	docs driven.DocumentStore,
) *IngestService {
	return &IngestService{
		fetcher:  fetcher,
		splitter: splitter,
		embedder: embedder,
		chunks:   chunks,
		docs:     docs,
	}
}

// Ingest implements driving.IngestService.
func (s *IngestService) Ingest(ctx context.Context) (*driving.IngestReport, error) {
	logger.Section("Ingestion")

	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if s.chunks == nil {
		return nil, domain.ErrStoreUnavailable
	}

	pages, err := s.fetcher.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch corpus: %w", err)
	}

	report := &driving.IngestReport{Failed: make(map[string]error)}

	for _, page := range pages {
		if page.Failed() {
			report.Failed[page.URL] = page.Err
			continue
		}

		n, err := s.ingestPage(ctx, page)
		if err != nil {
			// Per-page isolation: record and continue with siblings.
			logger.Warn("Ingest failed for %s: %v", page.URL, err)
			report.Failed[page.URL] = err
			continue
		}

		report.Pages++
		report.Chunks += n
	}

	logger.Info("Ingested %d pages (%d chunks, %d failed)",
		report.Pages, report.Chunks, len(report.Failed))

	return report, nil
}

// ingestPage splits, embeds and stores a single page. Returns the number
// of chunks written.
func (s *IngestService) ingestPage(ctx context.Context, page domain.FetchedPage) (int, error) {
	texts := s.splitter.Split(page.Text)
	if len(texts) == 0 {
		logger.Debug("Page %s produced no chunks", page.URL)
		return 0, nil
	}

	now := time.Now().UTC()
	doc := &domain.Document{
		ID:        uuid.New().String(),
		Source:    page.URL,
		Title:     page.Title,
		Content:   page.Text,
		Kind:      page.Kind,
		CreatedAt: now,
		UpdatedAt: now,
	}

	chunks := make([]domain.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = domain.Chunk{
			DocumentID: doc.ID,
			Source:     page.URL,
			Ordinal:    i,
			Text:       text,
		}
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed %s: %w", page.URL, err)
	}
	if len(vectors) != len(chunks) {
		return 0, fmt.Errorf("embed %s: got %d vectors for %d chunks", page.URL, len(vectors), len(chunks))
	}

	if err := s.chunks.Upsert(ctx, chunks, vectors); err != nil {
		return 0, fmt.Errorf("store chunks for %s: %w", page.URL, err)
	}

	if s.docs != nil {
		if err := s.docs.SaveDocument(ctx, doc); err != nil {
			return 0, fmt.Errorf("save document %s: %w", page.URL, err)
		}
		if err := s.docs.SaveChunks(ctx, chunks); err != nil {
			return 0, fmt.Errorf("save chunk rows for %s: %w", page.URL, err)
		}
	}

	return len(chunks), nil
}
