package domain

// Chat message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of the conversation, oldest-first in a history
// slice. The history is owned by the calling session; the core only reads it.
type ChatMessage struct {
	// Role is RoleUser or RoleAssistant.
	Role string

	// Content is the message text.
	Content string
}

// Default retrieval tunables. TopK matches the original search depth;
// Window is the number of neighbouring chunks pulled in on each side of
// a hit.
const (
	DefaultTopK   = 4
	DefaultWindow = 4
)

// AnswerOptions configures a single answer invocation.
type AnswerOptions struct {
	// Reframe enables rewriting the query into a standalone one using
	// the chat history before retrieval.
	Reframe bool

	// TopK is the number of initial similarity hits (minimum 1).
	TopK int

	// Window is the neighbour radius added around each hit. Zero is a
	// valid value (no expansion); negative means use the default.
	Window int
}

// WithDefaults fills unset options with the package defaults.
func (o AnswerOptions) WithDefaults() AnswerOptions {
	if o.TopK < 1 {
		o.TopK = DefaultTopK
	}
	if o.Window < 0 {
		o.Window = DefaultWindow
	}
	return o
}
