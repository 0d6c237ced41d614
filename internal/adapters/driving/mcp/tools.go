package mcp

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the documentation"`
	TopK     int    `json:"top_k,omitempty" jsonschema:"number of chunks to retrieve (default 4)"`
	Window   int    `json:"window,omitempty" jsonschema:"context window radius around each hit (default 4)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using the indexed documentation",
	}, s.handleAsk)
}

// handleAsk handles the ask tool invocation. The token stream is drained
// into a single answer string; MCP tool results are not incremental.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	opts := domain.AnswerOptions{
		TopK:   input.TopK,
		Window: input.Window,
	}

	result, err := s.ports.Chat.Answer(ctx, input.Question, nil, opts)
	if err != nil {
		return nil, AskOutput{}, err
	}
	defer result.Stream.Close()

	var sb strings.Builder
	for {
		token, err := result.Stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, AskOutput{}, err
		}
		sb.WriteString(token)
	}

	return nil, AskOutput{
		Answer:  sb.String(),
		Sources: result.Sources,
	}, nil
}
