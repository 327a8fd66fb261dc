package cli

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the corpus similarity index",
	Long: `Rebuild fetches every document under the configured corpus prefix,
extracts and chunks the text, embeds all chunks, and builds a fresh
similarity index. Documents that fail to fetch or parse are skipped and
reported; the rebuild fails only if the whole corpus yields no text.

The index is held in memory, so this command is mainly a corpus validation
and timing tool; long-running callers embed the same operation in-process.`,
	RunE: runRebuild,
}

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

func runRebuild(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	p, err := newPipeline(ctx)
	if err != nil {
		return err
	}
	defer p.close()

	var bar *progressbar.ProgressBar
	progress := func(done, total int) {
		if bar == nil {
			bar = progressbar.Default(int64(total), "embedding chunks")
		}
		_ = bar.Set(done)
	}

	result, err := p.rebuild.Rebuild(ctx, progress)
	if err != nil {
		return fmt.Errorf("rebuild failed: %w", err)
	}

	fmt.Printf("Indexed %d chunks from %d documents in %dms\n",
		result.Chunks, result.Documents, result.TookMS)
	if len(result.Skipped) > 0 {
		fmt.Printf("Skipped %d documents:\n", len(result.Skipped))
		for _, key := range result.Skipped {
			fmt.Printf("  %s\n", key)
		}
	}

	return nil
}
