package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

var (
	chatTopK      int
	chatWindow    int
	chatNoReframe bool
	chatPlain     bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Starts a multi-turn chat session against the indexed documentation.

Follow-up questions are rewritten into standalone queries using the
conversation so far, so "how do I configure it?" retrieves against the
thing you were just talking about.

On a terminal this launches the full-screen UI; when stdin is a pipe, or
with --plain, a line-oriented loop reads questions from stdin instead.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().IntVarP(&chatTopK, "top-k", "k", domain.DefaultTopK, "number of initial retrieval hits")
	chatCmd.Flags().IntVarP(&chatWindow, "window", "w", domain.DefaultWindow, "neighbour chunks added around each hit")
	chatCmd.Flags().BoolVar(&chatNoReframe, "no-reframe", false, "send each question to retrieval verbatim")
	chatCmd.Flags().BoolVar(&chatPlain, "plain", false, "line-oriented session without the full-screen UI")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	opts := domain.AnswerOptions{
		Reframe: !chatNoReframe,
		TopK:    chatTopK,
		Window:  chatWindow,
	}

	if chatPlain || !term.IsTerminal(int(os.Stdin.Fd())) {
		return runPlainChat(cmd, opts)
	}

	model := tui.New(chatService, opts)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("chat session failed: %w", err)
	}
	return nil
}

// runPlainChat is the non-TTY fallback: one question per line on stdin,
// streamed answers on stdout. History still accumulates across turns so
// reframing works the same as in the full-screen UI.
func runPlainChat(cmd *cobra.Command, opts domain.AnswerOptions) error {
	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var history []domain.ChatMessage

	for {
		cmd.Print("> ")
		if !scanner.Scan() {
			break
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if query == "exit" || query == "quit" {
			break
		}

		history = append(history, domain.ChatMessage{Role: domain.RoleUser, Content: query})

		result, err := chatService.Answer(cmd.Context(), query, history, opts)
		if err != nil {
			cmd.PrintErrf("Error: %v\n", err)
			// Keep the failed turn out of the history.
			history = history[:len(history)-1]
			continue
		}

		answer, err := collect(result.Stream)
		if err != nil {
			cmd.PrintErrf("Error: %v\n", err)
			history = history[:len(history)-1]
			continue
		}

		cmd.Println(answer)
		if len(result.Sources) > 0 {
			cmd.Printf("Sources: %s\n", strings.Join(result.Sources, ", "))
		}
		cmd.Println()

		history = append(history, domain.ChatMessage{Role: domain.RoleAssistant, Content: answer})
	}

	return scanner.Err()
}
