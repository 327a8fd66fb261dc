package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"studyrag/internal/domain"
)

var (
	contextQuestion string
	contextDocKey   string
	contextTopK     int
	contextJSON     bool
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Show the retrieved context for a question without generating",
	Long: `Context runs only the retrieval half of the pipeline and prints the
chunks that would be handed to the model, with their sources and scores.
Useful for inspecting what the ranking actually selects.

Examples:
  studyrag context -q "boiling point of water" --doc notes/physics.txt
  studyrag context -q "capital cities"`,
	RunE: runContext,
}

func init() {
	rootCmd.AddCommand(contextCmd)
	contextCmd.Flags().StringVarP(&contextQuestion, "question", "q", "", "question to retrieve for (required)")
	contextCmd.Flags().StringVar(&contextDocKey, "doc", "", "retrieve from a single document key instead of the corpus")
	contextCmd.Flags().IntVarP(&contextTopK, "top-k", "k", 0, "number of chunks to retrieve (default from config)")
	contextCmd.Flags().BoolVar(&contextJSON, "json", false, "output as JSON")
	contextCmd.MarkFlagRequired("question")
}

func runContext(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	p, err := newPipeline(ctx)
	if err != nil {
		return err
	}
	defer p.close()

	topK := cfg.Retrieve.TopK
	if contextTopK > 0 {
		topK = contextTopK
	}

	var result domain.ContextResult
	if contextDocKey != "" {
		result, err = p.contexts.BuildDocumentContext(ctx, contextQuestion, contextDocKey, topK)
	} else {
		logger.Info().Msg("building corpus index")
		if _, err = p.rebuild.Rebuild(ctx, nil); err != nil {
			return fmt.Errorf("rebuild failed: %w", err)
		}
		result, err = p.contexts.BuildCorpusContext(ctx, contextQuestion, topK)
	}
	if err != nil {
		return err
	}

	if contextJSON {
		output, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if result.Context == "" {
		fmt.Println("No context found.")
		return nil
	}

	fmt.Println(result.Context)
	fmt.Println("\nSources:")
	for _, src := range result.Sources {
		fmt.Printf("  %s (score: %s)\n", src.Source, src.Score)
	}

	return nil
}
