package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
)

var (
	askTopK      int
	askWindow    int
	askNoReframe bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question",
	Long: `Answers one question against the indexed documentation and exits.

The answer is streamed to stdout as it is generated, followed by the
list of source pages it was grounded on.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", domain.DefaultTopK, "number of initial retrieval hits")
	askCmd.Flags().IntVarP(&askWindow, "window", "w", domain.DefaultWindow, "neighbour chunks added around each hit")
	askCmd.Flags().BoolVar(&askNoReframe, "no-reframe", false, "send the question to retrieval verbatim")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	opts := domain.AnswerOptions{
		Reframe: !askNoReframe,
		TopK:    askTopK,
		Window:  askWindow,
	}

	result, err := chatService.Answer(cmd.Context(), args[0], nil, opts)
	if err != nil {
		return fmt.Errorf("answer failed: %w", err)
	}

	if err := streamTo(cmd, result.Stream); err != nil {
		return err
	}

	if len(result.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for _, src := range result.Sources {
			cmd.Printf("  - %s\n", src)
		}
	}
	return nil
}

// streamTo copies a token stream to the command's stdout, printing each
// fragment as it arrives.
func streamTo(cmd *cobra.Command, stream driven.TokenStream) error {
	if stream == nil {
		return nil
	}
	defer stream.Close()

	wrote := false
	for {
		tok, err := stream.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("stream interrupted: %w", err)
		}
		cmd.Print(tok)
		wrote = true
	}
	if wrote {
		cmd.Println()
	}
	return nil
}

// collect drains a token stream into a single string.
func collect(stream driven.TokenStream) (string, error) {
	if stream == nil {
		return "", nil
	}
	defer stream.Close()

	var b strings.Builder
	for {
		tok, err := stream.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return b.String(), nil
			}
			return "", fmt.Errorf("stream interrupted: %w", err)
		}
		b.WriteString(tok)
	}
}
