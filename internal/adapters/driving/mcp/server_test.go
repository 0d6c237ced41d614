package mcp

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
)

// mockChatService returns a canned streamed answer.
type mockChatService struct {
	tokens    []string
	sources   []string
	err       error
	lastQuery string
}

func (m *mockChatService) Answer(
	_ context.Context, query string, _ []domain.ChatMessage, _ domain.AnswerOptions,
) (*driving.AnswerResult, error) {
	m.lastQuery = query
	if m.err != nil {
		return nil, m.err
	}
	return &driving.AnswerResult{
		Stream:         &tokenSlice{tokens: m.tokens},
		Sources:        m.sources,
		EffectiveQuery: query,
	}, nil
}

// tokenSlice is a fixed TokenStream.
type tokenSlice struct {
	tokens []string
	pos    int
}

func (t *tokenSlice) Next() (string, error) {
	if t.pos >= len(t.tokens) {
		return "", io.EOF
	}
	tok := t.tokens[t.pos]
	t.pos++
	return tok, nil
}

func (t *tokenSlice) Close() error { return nil }

var _ driven.TokenStream = (*tokenSlice)(nil)

func TestNewServer(t *testing.T) {
	t.Run("nil chat service returns error", func(t *testing.T) {
		ports := &Ports{}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingChatService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		ports := &Ports{
			Chat: &mockChatService{},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("nil chat service returns error", func(t *testing.T) {
		ports := &Ports{}
		assert.ErrorIs(t, ports.Validate(), ErrMissingChatService)
	})

	t.Run("chat only is valid", func(t *testing.T) {
		ports := &Ports{Chat: &mockChatService{}}
		assert.NoError(t, ports.Validate())
	})
}

func TestHandleAskDrainsStream(t *testing.T) {
	chat := &mockChatService{
		tokens:  []string{"The answer ", "is streamed."},
		sources: []string{"https://docs.example/a"},
	}
	server, err := NewServer(&Ports{Chat: chat})
	require.NoError(t, err)

	_, output, err := server.handleAsk(context.Background(), nil, AskInput{
		Question: "how does it work?",
	})
	require.NoError(t, err)

	assert.Equal(t, "The answer is streamed.", output.Answer)
	assert.Equal(t, []string{"https://docs.example/a"}, output.Sources)
	assert.Equal(t, "how does it work?", chat.lastQuery)
}

func TestHandleAskPropagatesError(t *testing.T) {
	chat := &mockChatService{err: domain.ErrStoreUnavailable}
	server, err := NewServer(&Ports{Chat: chat})
	require.NoError(t, err)

	_, _, err = server.handleAsk(context.Background(), nil, AskInput{Question: "q"})
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}
