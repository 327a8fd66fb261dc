package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"studyrag/internal/adapter/store"
)

var (
	historySession string
	historyJSON    bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded question/answer exchanges for a session",
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVar(&historySession, "session", "", "session id (required)")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output as JSON")
	historyCmd.MarkFlagRequired("session")
}

func runHistory(cmd *cobra.Command, args []string) error {
	if !cfg.History.Enabled {
		return fmt.Errorf("history is disabled in the configuration")
	}

	history, err := store.NewBoltHistory(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("failed to open history store: %w", err)
	}
	defer history.Close()

	exchanges, err := history.ListSession(historySession)
	if err != nil {
		return err
	}

	if historyJSON {
		output, _ := json.MarshalIndent(exchanges, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(exchanges) == 0 {
		fmt.Println("No exchanges recorded for this session.")
		return nil
	}

	for _, ex := range exchanges {
		fmt.Printf("[%s]\nQ: %s\nA: %s\n\n", ex.Timestamp.Format("2006-01-02 15:04:05"), ex.Question, ex.Answer)
	}

	return nil
}
