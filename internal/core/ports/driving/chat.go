package driving

import (
	"context"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
)

// ChatService is the single public entry point for answering questions.
// It is consumed by the CLI, the TUI and the MCP surface.
type ChatService interface {
	// Answer runs the full pipeline: optional query reframing against
	// the history, similarity search, context window expansion, exact
	// fetch, context assembly and streaming generation.
	//
	// The history must contain only prior turns; a trailing user
	// message equal to the in-flight query is tolerated and ignored.
	//
	// On success the result carries the token stream and the ordered
	// unique source list. A query with no relevant matches is NOT an
	// error: the stream yields the fixed not-found message and Sources
	// is empty. On generation failure the error wraps
	// domain.ErrGenerationFailed and the result still carries the
	// already-computed Sources.
	Answer(ctx context.Context, query string, history []domain.ChatMessage, opts domain.AnswerOptions) (*AnswerResult, error)
}

// AnswerResult is the outcome of one Answer invocation.
type AnswerResult struct {
	// Stream yields the response fragments in generation order.
	// Nil when the result carries only Sources after a failure.
	Stream driven.TokenStream

	// Sources lists the unique source documents used for the answer in
	// first-appearance order. Empty for the not-found terminal state.
	Sources []string

	// EffectiveQuery is the query actually sent to retrieval; it
	// differs from the user's text only when reframing rewrote it.
	EffectiveQuery string
}

// Reframer rewrites a follow-up query into a standalone one using chat
// history. It never fails: on any underlying error it returns the
// original query unchanged.
type Reframer interface {
	Reframe(ctx context.Context, query string, history []domain.ChatMessage) string
}
