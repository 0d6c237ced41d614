package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// Ensure ReframeService implements the interface.
var _ driving.Reframer = (*ReframeService)(nil)

// Ensure ReframeService accepts a custom prompt store.
var _ driven.PromptStoreAware = (*ReframeService)(nil)

// reframeMaxTokens bounds the rewrite; a standalone query is short.
const reframeMaxTokens = 100

// ReframeService decides whether a follow-up query needs rewriting into a
// standalone query, and performs the rewrite under strict leakage rules:
// history may only resolve ambiguity, never inject product names, API
// details or parameter names that appeared solely in assistant turns.
//
// The rules themselves live in the reframe prompt; this service formats
// the history, invokes the model and defensively post-processes the
// output. It never fails: any model error falls back to the original
// query.
type ReframeService struct {
	llm         driven.LLMService
	promptStore driven.PromptStore
}

// NewReframeService creates a new reframe service.
// The llm parameter may be nil, in which case Reframe is a no-op.
func NewReframeService(llm driven.LLMService) *ReframeService {
	return &ReframeService{llm: llm}
}

// SetPromptStore sets the prompt store for loading a customised reframe
// prompt. If not set, the embedded default is used.
func (s *ReframeService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// Reframe rewrites query into a standalone query using the prior chat
// history. The returned string equals query verbatim when the query is
// already self-contained, when the history is empty of useful context, or
// when the underlying model call fails for any reason.
func (s *ReframeService) Reframe(ctx context.Context, query string, history []domain.ChatMessage) string {
	if s.llm == nil {
		logger.Debug("Reframing skipped: LLM service not configured")
		return query
	}

	template := defaultReframePrompt
	if s.promptStore != nil {
		if p, err := s.promptStore.Load(driven.PromptReframe); err == nil {
			template = p
		}
	}

	prompt := fmt.Sprintf(template, formatHistory(history), query)

	logger.Debug("Reframing query %q against %d history messages", query, len(history))

	out, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   reframeMaxTokens,
		Temperature: 0.1,
	})
	if err != nil {
		// Recoverable: the pipeline proceeds with the original query.
		logger.Warn("Query reframing failed, using original query: %v", err)
		return query
	}

	rephrased := stripReframeLabel(strings.TrimSpace(out))
	if rephrased == "" {
		logger.Warn("Query reframing produced empty output, using original query")
		return query
	}

	if rephrased != query {
		logger.Info("Query reframed: %q -> %q", query, rephrased)
	}

	return rephrased
}

// formatHistory renders the chat history as alternating "User:"/
// "Assistant:" lines for the prompt. An empty history is stated
// explicitly so the model does not invent one.
func formatHistory(history []domain.ChatMessage) string {
	if len(history) == 0 {
		return "No prior conversation."
	}

	lines := make([]string, 0, len(history))
	for _, msg := range history {
		role := msg.Role
		switch role {
		case domain.RoleUser:
			role = "User"
		case domain.RoleAssistant:
			role = "Assistant"
		default:
			role = "Unknown"
		}
		lines = append(lines, role+": "+msg.Content)
	}

	return strings.Join(lines, "\n")
}

// stripReframeLabel removes an explanatory "Rephrased Query:" style prefix.
// The prompt forbids it, but models are not perfectly obedient; this is a
// recoverable correction, not a failure.
func stripReframeLabel(s string) string {
	lower := strings.ToLower(s)
	for _, label := range []string{"rephrased query:", "rephrased:", "query:"} {
		if strings.HasPrefix(lower, label) {
			return strings.TrimSpace(s[len(label):])
		}
	}
	return s
}
