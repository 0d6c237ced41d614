package domain

import (
	"fmt"
	"regexp"
	"strconv"
)

// chunkIDPattern matches "{source}:{ordinal}". The source group is greedy,
// so only the last ":<digits>" suffix is treated as the ordinal; any
// earlier colons (scheme separators in URLs, for example) stay in Source.
var chunkIDPattern = regexp.MustCompile(`^(.*):(\d+)$`)

// ChunkID identifies a chunk by its source document and its zero-based
// position within that document's chunk sequence. Ordinals are assigned
// densely per source at ingestion time, starting at 0.
type ChunkID struct {
	// Source is the originating document identifier (URL or path).
	Source string

	// Ordinal is the zero-based position within the source's chunks.
	Ordinal int
}

// String encodes the identifier as "{source}:{ordinal}".
// This format is persisted inside the chunk store's metadata and is a
// compatibility contract; see ParseChunkID for the inverse.
func (id ChunkID) String() string {
	return id.Source + ":" + strconv.Itoa(id.Ordinal)
}

// Neighbour returns the identifier at Ordinal+offset within the same source.
func (id ChunkID) Neighbour(offset int) ChunkID {
	return ChunkID{Source: id.Source, Ordinal: id.Ordinal + offset}
}

// ParseChunkID decodes a "{source}:{ordinal}" identifier string.
// It fails with ErrMalformedChunkID if the string does not end in a
// ":<non-negative integer>" suffix. Callers should treat a parse failure
// as skip-this-item, never as fatal.
func ParseChunkID(s string) (ChunkID, error) {
	m := chunkIDPattern.FindStringSubmatch(s)
	if m == nil {
		return ChunkID{}, fmt.Errorf("%w: %q", ErrMalformedChunkID, s)
	}

	ordinal, err := strconv.Atoi(m[2])
	if err != nil {
		// \d+ can still overflow int on absurd input.
		return ChunkID{}, fmt.Errorf("%w: %q: %v", ErrMalformedChunkID, s, err)
	}

	return ChunkID{Source: m[1], Ordinal: ordinal}, nil
}

// RetrievedChunk is a chunk fetched from the chunk store during a single
// query. It lives only for the duration of that query.
type RetrievedChunk struct {
	// ID is the persisted "{source}:{ordinal}" identifier.
	ID string

	// Text is the chunk content.
	Text string

	// Source is the originating document, taken from store metadata.
	Source string
}

// ScoredChunk is an initial similarity hit. Score follows the vector
// distance convention: lower means more relevant.
type ScoredChunk struct {
	Chunk RetrievedChunk
	Score float64
}

// ContextBundle is the assembled prompt context for one query.
type ContextBundle struct {
	// Text is the ordered, boundary-annotated context string.
	Text string

	// Sources lists the distinct source documents in first-appearance
	// order. This ordering is user-visible.
	Sources []string

	// Skipped counts fetched entries dropped because their identifier
	// failed to parse or their source metadata was missing.
	Skipped int
}

// Empty reports whether the bundle carries no context at all.
func (b ContextBundle) Empty() bool {
	return b.Text == "" && len(b.Sources) == 0
}
