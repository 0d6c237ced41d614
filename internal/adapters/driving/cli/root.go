// Package cli implements the command-line interface. Commands receive
// their core services through SetServices before Execute runs; commands
// that find a nil dependency fail with a clear error instead of
// panicking.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services holds the wired core services the commands depend on.
type Services struct {
	Chat   driving.ChatService
	Ingest driving.IngestService
	Docs   driven.DocumentStore
}

var (
	chatService   driving.ChatService
	ingestService driving.IngestService
	documentStore driven.DocumentStore

	verbose bool
)

// SetServices injects the core services into the command tree.
func SetServices(s Services) {
	chatService = s.Chat
	ingestService = s.Ingest
	documentStore = s.Docs
}

var rootCmd = &cobra.Command{
	Use:   "docchat",
	Short: "Chat with your documentation",
	Long: `docchat answers questions about an indexed documentation corpus.

It retrieves the most relevant chunks for a question, widens each hit
with its neighbouring chunks for context, and streams a grounded answer
from the configured language model.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
