// Package memory provides an in-memory chunk store. It backs tests and
// single-shot sessions where running Qdrant is not worth the setup.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ChunkStore = (*Store)(nil)

// entry is one stored chunk with its vector and insertion sequence.
type entry struct {
	chunk  domain.RetrievedChunk
	vector []float32
	seq    int
}

// Store implements driven.ChunkStore in memory. Scores are cosine
// distances; equal scores keep insertion order.
type Store struct {
	mu       sync.RWMutex
	entries  map[string]entry
	embedder driven.EmbeddingService
	nextSeq  int
}

// NewStore creates an empty in-memory chunk store.
func NewStore(embedder driven.EmbeddingService) *Store {
	return &Store{
		entries:  make(map[string]entry),
		embedder: embedder,
	}
}

// Upsert implements driven.ChunkStore.
func (s *Store) Upsert(_ context.Context, chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, c := range chunks {
		id := c.ChunkID().String()
		seq := s.nextSeq
		if existing, ok := s.entries[id]; ok {
			seq = existing.seq
		} else {
			s.nextSeq++
		}
		s.entries[id] = entry{
			chunk:  domain.RetrievedChunk{ID: id, Text: c.Text, Source: c.Source},
			vector: vectors[i],
			seq:    seq,
		}
	}
	return nil
}

// SimilaritySearch implements driven.ChunkStore.
func (s *Store) SimilaritySearch(ctx context.Context, query string, k int) ([]domain.ScoredChunk, error) {
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if k <= 0 {
		k = domain.DefaultTopK
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	scored := make([]struct {
		hit domain.ScoredChunk
		seq int
	}, 0, len(s.entries))

	for _, e := range s.entries {
		scored = append(scored, struct {
			hit domain.ScoredChunk
			seq int
		}{
			hit: domain.ScoredChunk{
				Chunk: e.chunk,
				Score: cosineDistance(queryVec, e.vector),
			},
			seq: e.seq,
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].hit.Score != scored[j].hit.Score {
			return scored[i].hit.Score < scored[j].hit.Score
		}
		return scored[i].seq < scored[j].seq
	})

	if k > len(scored) {
		k = len(scored)
	}
	hits := make([]domain.ScoredChunk, k)
	for i := range hits {
		hits[i] = scored[i].hit
	}
	return hits, nil
}

// FetchByIDs implements driven.ChunkStore.
func (s *Store) FetchByIDs(_ context.Context, ids []string) (map[string]domain.RetrievedChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fetched := make(map[string]domain.RetrievedChunk)
	for _, id := range ids {
		if e, ok := s.entries[id]; ok {
			fetched[id] = e.chunk
		}
	}
	return fetched, nil
}

// Count implements driven.ChunkStore.
func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

// Close implements driven.ChunkStore.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]entry)
	return nil
}

// cosineDistance computes 1 - cosine similarity. Mismatched or zero
// vectors score as maximally distant.
func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 1
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
