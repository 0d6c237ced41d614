package driven

import "context"

// LLMService provides language model operations for answering and query
// reframing.
//
// Implementations may include:
//   - Ollama (local models)
//   - OpenAI (GPT-4o and compatible APIs)
type LLMService interface {
	// Generate produces a complete text completion from a prompt.
	// Used by the query reframer, which needs the whole rewrite at once.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// Stream produces a lazy token stream for a prompt. Tokens are
	// delivered in generation order, exactly once. The consumer may
	// stop pulling at any time; it must Close the stream when done.
	Stream(ctx context.Context, prompt string, opts GenerateOptions) (TokenStream, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// TokenStream is a pull-based sequence of text fragments. Next returns
// io.EOF when generation is complete. Abandoning a stream early is
// cancellation enough; no explicit signal is propagated downstream.
type TokenStream interface {
	// Next returns the next fragment, or io.EOF at end of stream.
	Next() (string, error)

	// Close releases the underlying connection. Safe to call after EOF
	// and more than once.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64

	// StopWords are sequences that stop generation when encountered.
	StopWords []string
}
