package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"studyrag/internal/domain"
)

var (
	askQuestion string
	askDocKey   string
	askTopK     int
	askSession  string
	askJSON     bool
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Ask a question against the corpus or a single document",
	Long: `Ask retrieves the most relevant chunks and generates a grounded answer.

Without --doc the whole corpus is searched, which requires building the
index first (this command does that before querying). With --doc only the
named document is fetched and ranked, no index required.

Examples:
  studyrag ask -q "What is the capital of India?"
  studyrag ask -q "Explain photosynthesis" --doc notes/biology.pdf --top-k 3`,
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVarP(&askQuestion, "question", "q", "", "question to answer (required)")
	askCmd.Flags().StringVar(&askDocKey, "doc", "", "ask against a single document key instead of the corpus")
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of chunks to retrieve (default from config)")
	askCmd.Flags().StringVar(&askSession, "session", "", "session id for history recording")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output as JSON")
	askCmd.MarkFlagRequired("question")
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	p, err := newPipeline(ctx)
	if err != nil {
		return err
	}
	defer p.close()

	topK := cfg.Retrieve.TopK
	if askTopK > 0 {
		topK = askTopK
	}

	var result domain.AnswerResult
	if askDocKey != "" {
		result, err = p.ask.AskDocument(ctx, askSession, askQuestion, askDocKey, topK)
	} else {
		// The index is in-memory, so a corpus question starts with a
		// deliberate rebuild.
		logger.Info().Msg("building corpus index")
		if _, err = p.rebuild.Rebuild(ctx, nil); err != nil {
			return fmt.Errorf("rebuild failed: %w", err)
		}
		result, err = p.ask.Ask(ctx, askSession, askQuestion, topK)
	}
	if err != nil {
		return err
	}

	if askJSON {
		output, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Println(result.Answer)
	if len(result.Sources) > 0 {
		fmt.Println("\nSources:")
		for _, src := range result.Sources {
			fmt.Printf("  %s (score: %s)\n", src.Source, src.Score)
		}
	}
	fmt.Printf("\nTook %dms\n", result.TookMS)

	return nil
}
