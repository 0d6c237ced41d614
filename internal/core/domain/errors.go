package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrMalformedChunkID indicates an identifier string could not be
	// parsed into (source, ordinal). Always recovered locally: the
	// offending item is skipped and a diagnostic is recorded.
	ErrMalformedChunkID = errors.New("malformed chunk identifier")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStoreUnavailable indicates the chunk store cannot be reached or
	// initialised. Surfaced to the user as a "database not available"
	// terminal response; the query is not retried at this layer.
	ErrStoreUnavailable = errors.New("chunk store unavailable")

	// ErrGenerationFailed indicates the answer-generation model call
	// failed at invocation. The already-computed source list is still
	// returned alongside this error.
	ErrGenerationFailed = errors.New("answer generation failed")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Ingestion and retrieval both require it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)

// User-facing terminal responses. NotFoundMessage is a defined terminal
// state, not an error; the pipeline substitutes it when retrieval returns
// nothing.
const (
	// NotFoundMessage is yielded as the whole response when the initial
	// similarity search produces no hits.
	NotFoundMessage = "I couldn't find relevant information in the documentation to answer your question."

	// StoreUnavailableMessage replaces the response when the chunk store
	// cannot be reached.
	StoreUnavailableMessage = "The documentation database is not available."

	// GenerationFailedMessage replaces the response stream when the
	// model call fails.
	GenerationFailedMessage = "There was an error generating the response. Please try again."
)
