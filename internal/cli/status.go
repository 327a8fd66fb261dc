package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"studyrag/internal/adapter/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show corpus and history status",
	Long: `Status lists how many corpus objects the configured store reports
under the prefix, and which history sessions exist.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if err := cfg.Validate(); err != nil {
		return err
	}

	blobs, err := newBlobStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to create blob store: %w", err)
	}

	keys, err := blobs.List(ctx, cfg.Corpus.Prefix)
	if err != nil {
		return fmt.Errorf("failed to list corpus: %w", err)
	}
	fmt.Printf("Corpus objects under %q: %d\n", cfg.Corpus.Prefix, len(keys))

	if !cfg.History.Enabled {
		fmt.Println("History: disabled")
		return nil
	}

	history, err := store.NewBoltHistory(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("failed to open history store: %w", err)
	}
	defer history.Close()

	sessions, err := history.ListSessions()
	if err != nil {
		return err
	}
	fmt.Printf("History sessions: %d\n", len(sessions))
	for _, id := range sessions {
		fmt.Printf("  %s\n", id)
	}

	return nil
}
