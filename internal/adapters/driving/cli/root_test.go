package cli

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
)

// execute runs the root command with args and captures its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

// withServices swaps in test services and restores the originals.
func withServices(t *testing.T, s Services) {
	t.Helper()

	origChat, origIngest, origDocs := chatService, ingestService, documentStore
	SetServices(s)
	t.Cleanup(func() {
		chatService = origChat
		ingestService = origIngest
		documentStore = origDocs
	})
}

// fakeChat returns a canned streamed answer.
type fakeChat struct {
	tokens  []string
	sources []string
	err     error

	lastQuery string
	lastOpts  domain.AnswerOptions
}

func (f *fakeChat) Answer(
	_ context.Context, query string, _ []domain.ChatMessage, opts domain.AnswerOptions,
) (*driving.AnswerResult, error) {
	f.lastQuery = query
	f.lastOpts = opts
	if f.err != nil {
		return nil, f.err
	}
	return &driving.AnswerResult{
		Stream:  &sliceStream{tokens: f.tokens},
		Sources: f.sources,
	}, nil
}

type sliceStream struct {
	tokens []string
	pos    int
}

func (s *sliceStream) Next() (string, error) {
	if s.pos >= len(s.tokens) {
		return "", io.EOF
	}
	tok := s.tokens[s.pos]
	s.pos++
	return tok, nil
}

func (s *sliceStream) Close() error { return nil }

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "docchat", rootCmd.Use)
}

func TestVersionCmd_Executes(t *testing.T) {
	originalVersion := version
	version = "test-version-1.0.0"
	defer func() { version = originalVersion }()

	out, err := execute(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "docchat version test-version-1.0.0")
}

func TestAskCmd_StreamsAnswerAndSources(t *testing.T) {
	chat := &fakeChat{
		tokens:  []string{"Use the ", "config file."},
		sources: []string{"https://docs.example/a", "https://docs.example/b"},
	}
	withServices(t, Services{Chat: chat})

	out, err := execute(t, "ask", "how do I configure it?")

	require.NoError(t, err)
	assert.Equal(t, "how do I configure it?", chat.lastQuery)
	assert.Contains(t, out, "Use the config file.")
	assert.Contains(t, out, "Sources:")
	assert.Contains(t, out, "https://docs.example/a")
}

func TestAskCmd_FlagsMapToOptions(t *testing.T) {
	chat := &fakeChat{tokens: []string{"ok"}}
	withServices(t, Services{Chat: chat})

	_, err := execute(t, "ask", "q", "--top-k", "2", "--window", "0", "--no-reframe")

	require.NoError(t, err)
	assert.Equal(t, 2, chat.lastOpts.TopK)
	assert.Equal(t, 0, chat.lastOpts.Window)
	assert.False(t, chat.lastOpts.Reframe)
}

func TestAskCmd_FailsWithoutService(t *testing.T) {
	withServices(t, Services{})

	_, err := execute(t, "ask", "q")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestAskCmd_PropagatesAnswerError(t *testing.T) {
	withServices(t, Services{Chat: &fakeChat{err: domain.ErrStoreUnavailable}})

	_, err := execute(t, "ask", "q")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}
