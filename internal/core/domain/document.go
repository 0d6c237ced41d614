package domain

import "time"

// Document represents one scraped documentation page.
// It is the canonical representation after rendering the portal payload
// to plain text and before chunking.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Source is the page URL. Chunk identifiers embed this value.
	Source string

	// Title is the human-readable page title.
	Title string

	// Content is the full rendered text before chunking.
	Content string

	// Kind distinguishes article pages from schema/model pages.
	Kind string

	// CreatedAt is when the page was first ingested.
	CreatedAt time.Time

	// UpdatedAt is when the page was last re-ingested.
	UpdatedAt time.Time
}

// Document kinds as found on the documentation portal.
const (
	DocKindArticle = "article"
	DocKindModel   = "model"
)

// Chunk is an embeddable span of a document, produced at ingestion time.
// Ordinals are dense per source, starting at 0.
type Chunk struct {
	// DocumentID links to the parent Document.
	DocumentID string

	// Source is the parent document's page URL.
	Source string

	// Ordinal is the zero-based position within the source's chunks.
	Ordinal int

	// Text is the chunk content.
	Text string
}

// ChunkID returns the persisted identifier for this chunk.
func (c Chunk) ChunkID() ChunkID {
	return ChunkID{Source: c.Source, Ordinal: c.Ordinal}
}
