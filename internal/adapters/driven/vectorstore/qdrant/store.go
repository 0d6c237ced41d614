// Package qdrant provides a chunk store adapter backed by the Qdrant
// REST API.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ChunkStore = (*Store)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "http://localhost:6333"
	DefaultCollection = "docchat"
	DefaultTimeout    = 15 * time.Second
)

// pointNamespace seeds the deterministic UUIDs used as Qdrant point
// identifiers. Qdrant only accepts integers or UUIDs as point ids, so
// each chunk identifier is hashed into this namespace; the readable id
// lives in the payload.
var pointNamespace = uuid.MustParse("7a5c9d13-41f2-4b8a-9e06-3c2f8d1b6a54")

// Config holds configuration for the Qdrant chunk store.
type Config struct {
	// BaseURL is the Qdrant REST endpoint (default: http://localhost:6333).
	BaseURL string

	// APIKey is sent as the api-key header when set.
	APIKey string

	// Collection is the collection name (default: docchat).
	Collection string

	// Timeout is the request timeout (default: 15s).
	Timeout time.Duration
}

// Store implements driven.ChunkStore over Qdrant. Similarity search
// embeds the query through the injected embedding service; storage and
// retrieval work on raw vectors.
type Store struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	collection string
	embedder   driven.EmbeddingService
}

// NewStore creates a Qdrant-backed chunk store.
func NewStore(cfg Config, embedder driven.EmbeddingService) *Store {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Store{
		client:     &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		embedder:   embedder,
	}
}

// EnsureCollection creates the collection if it does not exist, sized to
// the embedder's dimensions with cosine distance.
func (s *Store) EnsureCollection(ctx context.Context) error {
	if s.embedder == nil {
		return domain.ErrEmbeddingUnavailable
	}

	body := map[string]any{
		"vectors": map[string]any{
			"size":     s.embedder.Dimensions(),
			"distance": "Cosine",
		},
	}
	return s.putJSON(ctx, fmt.Sprintf("%s/collections/%s", s.baseURL, s.collection), body, nil)
}

// pointID derives the Qdrant point identifier for a chunk identifier.
func pointID(chunkID string) string {
	return uuid.NewSHA1(pointNamespace, []byte(chunkID)).String()
}

// Upsert implements driven.ChunkStore.
func (s *Store) Upsert(ctx context.Context, chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("%w: %d chunks with %d vectors", domain.ErrInvalidInput, len(chunks), len(vectors))
	}
	if len(chunks) == 0 {
		return nil
	}

	points := make([]map[string]any, len(chunks))
	for i, c := range chunks {
		id := c.ChunkID().String()
		points[i] = map[string]any{
			"id":     pointID(id),
			"vector": vectors[i],
			"payload": map[string]any{
				"chunk_id":    id,
				"document_id": c.DocumentID,
				"source":      c.Source,
				"ordinal":     c.Ordinal,
				"text":        c.Text,
			},
		}
	}

	body := map[string]any{"points": points}
	url := fmt.Sprintf("%s/collections/%s/points?wait=true", s.baseURL, s.collection)
	if err := s.putJSON(ctx, url, body, nil); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// SimilaritySearch implements driven.ChunkStore. The score is reported
// as cosine distance so lower values mean more relevant.
func (s *Store) SimilaritySearch(ctx context.Context, query string, k int) ([]domain.ScoredChunk, error) {
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if k <= 0 {
		k = domain.DefaultTopK
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	req := map[string]any{
		"vector":       vector,
		"limit":        k,
		"with_payload": true,
	}

	var resp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}

	url := fmt.Sprintf("%s/collections/%s/points/search", s.baseURL, s.collection)
	if err := s.postJSON(ctx, url, req, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	results := make([]domain.ScoredChunk, 0, len(resp.Result))
	for _, r := range resp.Result {
		results = append(results, domain.ScoredChunk{
			Chunk: chunkFromPayload(r.Payload),
			Score: 1 - r.Score,
		})
	}
	return results, nil
}

// FetchByIDs implements driven.ChunkStore. Identifiers with no stored
// point are silently absent from the result.
func (s *Store) FetchByIDs(ctx context.Context, ids []string) (map[string]domain.RetrievedChunk, error) {
	if len(ids) == 0 {
		return map[string]domain.RetrievedChunk{}, nil
	}

	pointIDs := make([]string, len(ids))
	for i, id := range ids {
		pointIDs[i] = pointID(id)
	}

	req := map[string]any{
		"ids":          pointIDs,
		"with_payload": true,
	}

	var resp struct {
		Result []struct {
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}

	url := fmt.Sprintf("%s/collections/%s/points", s.baseURL, s.collection)
	if err := s.postJSON(ctx, url, req, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	fetched := make(map[string]domain.RetrievedChunk, len(resp.Result))
	for _, r := range resp.Result {
		chunk := chunkFromPayload(r.Payload)
		if chunk.ID != "" {
			fetched[chunk.ID] = chunk
		}
	}
	return fetched, nil
}

// Count implements driven.ChunkStore.
func (s *Store) Count(ctx context.Context) (int, error) {
	var resp struct {
		Result struct {
			Count int `json:"count"`
		} `json:"result"`
	}

	url := fmt.Sprintf("%s/collections/%s/points/count", s.baseURL, s.collection)
	if err := s.postJSON(ctx, url, map[string]any{"exact": true}, &resp); err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return resp.Result.Count, nil
}

// Close releases resources.
func (s *Store) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}

// chunkFromPayload rebuilds a retrieved chunk from a point payload.
func chunkFromPayload(payload map[string]any) domain.RetrievedChunk {
	var chunk domain.RetrievedChunk
	if v, ok := payload["chunk_id"].(string); ok {
		chunk.ID = v
	}
	if v, ok := payload["source"].(string); ok {
		chunk.Source = v
	}
	if v, ok := payload["text"].(string); ok {
		chunk.Text = v
	}
	return chunk
}

// putJSON sends a PUT request with a JSON body.
func (s *Store) putJSON(ctx context.Context, url string, body, out any) error {
	return s.sendJSON(ctx, http.MethodPut, url, body, out)
}

// postJSON sends a POST request with a JSON body.
func (s *Store) postJSON(ctx context.Context, url string, body, out any) error {
	return s.sendJSON(ctx, http.MethodPost, url, body, out)
}

func (s *Store) sendJSON(ctx context.Context, method, url string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		respBody, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("qdrant %s %s: status %s", method, url, resp.Status)
		}
		return fmt.Errorf("qdrant %s %s: status %s: %s", method, url, resp.Status, string(respBody))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
