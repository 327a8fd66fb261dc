package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var summarizeDocKey string

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize a stored document",
	Long: `Summarize fetches one document, selects its leading chunks, and asks
the model for a short, student-friendly summary.

Example:
  studyrag summarize --doc notes/biology.pdf`,
	RunE: runSummarize,
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
	summarizeCmd.Flags().StringVar(&summarizeDocKey, "doc", "", "document key to summarize (required)")
	summarizeCmd.MarkFlagRequired("doc")
}

func runSummarize(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	p, err := newPipeline(ctx)
	if err != nil {
		return err
	}
	defer p.close()

	summary, err := p.summarize.Summarize(ctx, summarizeDocKey)
	if err != nil {
		return err
	}

	if summary == "" {
		fmt.Println("Document contains no text to summarize.")
		return nil
	}

	fmt.Println(summary)
	return nil
}
