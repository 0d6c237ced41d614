package cli

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Scrape and index the documentation corpus",
	Long: `Fetches every page from the configured documentation portal, splits
them into chunks, embeds the chunks and stores them in the vector index.

Re-ingesting a source replaces its previous chunks, so the command is
safe to run repeatedly.`,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	cmd.Println("Ingesting documentation...")

	report, err := ingestService.Ingest(cmd.Context())
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	cmd.Printf("Indexed %d pages (%d chunks).\n", report.Pages, report.Chunks)

	if len(report.Failed) > 0 {
		cmd.Printf("%d pages failed:\n", len(report.Failed))
		urls := make([]string, 0, len(report.Failed))
		for url := range report.Failed {
			urls = append(urls, url)
		}
		sort.Strings(urls)
		for _, url := range urls {
			cmd.Printf("  - %s: %v\n", url, report.Failed[url])
		}
	}
	return nil
}
