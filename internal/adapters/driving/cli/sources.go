package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List indexed documentation pages",
	RunE:  runSources,
}

var sourcesShowCmd = &cobra.Command{
	Use:   "show [source]",
	Short: "Print the stored text of one page",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourcesShow,
}

var sourcesRemoveCmd = &cobra.Command{
	Use:   "remove [source]",
	Short: "Remove a page and its chunks from the metadata store",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourcesRemove,
}

func init() {
	sourcesCmd.AddCommand(sourcesShowCmd)
	sourcesCmd.AddCommand(sourcesRemoveCmd)
	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, _ []string) error {
	if documentStore == nil {
		return errors.New("document store not configured")
	}

	sources, err := documentStore.ListSources(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing sources failed: %w", err)
	}

	if len(sources) == 0 {
		cmd.Println("No pages indexed. Run 'docchat ingest' first.")
		return nil
	}

	for _, src := range sources {
		cmd.Println(src)
	}
	return nil
}

func runSourcesShow(cmd *cobra.Command, args []string) error {
	if documentStore == nil {
		return errors.New("document store not configured")
	}

	doc, err := documentStore.GetDocument(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("fetching page failed: %w", err)
	}

	if doc.Title != "" {
		cmd.Printf("# %s\n\n", doc.Title)
	}
	cmd.Println(doc.Content)
	return nil
}

func runSourcesRemove(cmd *cobra.Command, args []string) error {
	if documentStore == nil {
		return errors.New("document store not configured")
	}

	if err := documentStore.DeleteDocument(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("removing page failed: %w", err)
	}

	cmd.Printf("Removed %s.\n", args[0])
	return nil
}
