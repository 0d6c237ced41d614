package services

import (
	"context"
	"fmt"
	"io"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.ChatService = (*AnswerService)(nil)

// Ensure AnswerService accepts a custom prompt store.
var _ driven.PromptStoreAware = (*AnswerService)(nil)

// AnswerService orchestrates the end-to-end query-answering flow:
// reframe, similarity search, context window expansion, exact fetch,
// context assembly, prompt construction and streaming generation.
//
// A single request runs on a single logical worker; the two chunk store
// calls are strictly sequential because the second depends on the first.
// All working data is local to the invocation.
type AnswerService struct {
	store       driven.ChunkStore
	llm         driven.LLMService
	reframer    driving.Reframer
	promptStore driven.PromptStore
}

// NewAnswerService creates the answer pipeline. The reframer may be nil,
// in which case the Reframe option is ignored.
func NewAnswerService(store driven.ChunkStore, llm driven.LLMService, reframer driving.Reframer) *AnswerService {
	return &AnswerService{
		store:    store,
		llm:      llm,
		reframer: reframer,
	}
}

// SetPromptStore sets the prompt store for loading a customised answer
// prompt. If not set, the embedded default is used.
func (s *AnswerService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// Answer implements driving.ChatService.
func (s *AnswerService) Answer(
	ctx context.Context, query string, history []domain.ChatMessage, opts domain.AnswerOptions,
) (*driving.AnswerResult, error) {
	logger.Section("Answer Pipeline")
	logger.Debug("Query: %q", query)

	if s.store == nil {
		return nil, domain.ErrStoreUnavailable
	}
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	opts = opts.WithDefaults()
	logger.Debug("TopK: %d, Window: %d, Reframe: %t", opts.TopK, opts.Window, opts.Reframe)

	// The effective query drives retrieval and the prompt's question
	// slot; the caller keeps the original for display.
	effective := query
	if opts.Reframe && s.reframer != nil {
		effective = s.reframer.Reframe(ctx, query, priorTurns(query, history))
	}

	hits, err := s.store.SimilaritySearch(ctx, effective, opts.TopK)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	logger.Debug("Initial hits: %d", len(hits))

	if len(hits) == 0 {
		// Defined terminal state, not an error. No exact fetch happens.
		logger.Info("No relevant results for query %q", effective)
		return &driving.AnswerResult{
			Stream:         NewStaticStream(domain.NotFoundMessage),
			Sources:        nil,
			EffectiveQuery: effective,
		}, nil
	}

	hitIDs := make([]string, 0, len(hits))
	for _, h := range hits {
		hitIDs = append(hitIDs, h.Chunk.ID)
	}

	ids := ExpandWindow(hitIDs, opts.Window)
	logger.Debug("Expanded %d hits to %d identifiers", len(hitIDs), len(ids))

	fetched, err := s.store.FetchByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	bundle := AssembleContext(fetched)
	logger.Debug("Assembled context: %d chars, %d sources, %d skipped",
		len(bundle.Text), len(bundle.Sources), bundle.Skipped)

	if bundle.Empty() {
		// Every fetched entry was dropped during assembly. Same
		// terminal state as zero hits.
		logger.Warn("Context assembly produced an empty bundle")
		return &driving.AnswerResult{
			Stream:         NewStaticStream(domain.NotFoundMessage),
			Sources:        nil,
			EffectiveQuery: effective,
		}, nil
	}

	prompt := fmt.Sprintf(s.answerPrompt(), bundle.Text, effective)

	stream, err := s.llm.Stream(ctx, prompt, driven.GenerateOptions{Temperature: 0.3})
	if err != nil {
		// The caller still gets the computed source list alongside the
		// typed failure, so it can render attributions with the error.
		logger.Warn("Answer generation failed: %v", err)
		result := &driving.AnswerResult{
			Sources:        bundle.Sources,
			EffectiveQuery: effective,
		}
		return result, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}

	return &driving.AnswerResult{
		Stream:         stream,
		Sources:        bundle.Sources,
		EffectiveQuery: effective,
	}, nil
}

// answerPrompt loads the answer template, falling back to the default.
func (s *AnswerService) answerPrompt() string {
	if s.promptStore == nil {
		return defaultAnswerPrompt
	}
	prompt, err := s.promptStore.Load(driven.PromptAnswer)
	if err != nil {
		return defaultAnswerPrompt
	}
	return prompt
}

// priorTurns returns the history without a trailing user message equal to
// the in-flight query. Sessions usually append the current question before
// calling Answer; the reframer must only ever see turns that precede it.
func priorTurns(query string, history []domain.ChatMessage) []domain.ChatMessage {
	if n := len(history); n > 0 &&
		history[n-1].Role == domain.RoleUser &&
		history[n-1].Content == query {
		return history[:n-1]
	}
	return history
}

// staticStream yields a fixed message once, then EOF. It backs the
// not-found terminal state so callers consume every outcome the same way.
type staticStream struct {
	msg  string
	done bool
}

// NewStaticStream returns a TokenStream that yields msg and then io.EOF.
func NewStaticStream(msg string) driven.TokenStream {
	return &staticStream{msg: msg}
}

// Next implements driven.TokenStream.
func (s *staticStream) Next() (string, error) {
	if s.done {
		return "", io.EOF
	}
	s.done = true
	return s.msg, nil
}

// Close implements driven.TokenStream.
func (s *staticStream) Close() error { return nil }
