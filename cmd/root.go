package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/abhisek/diagz/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "diagz",
	Short: "Adaptive symptom checker",
	Long: `diagz estimates which condition best explains a patient's symptoms.

It learns condition priors and per-condition symptom rates from a labeled
CSV dataset, asks the most discriminating yes/no question at each step and
updates a posterior ranking after every answer. The ranking is decision
support, not a diagnosis.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// Execute runs the root command. ctx is cancelled on interrupt.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("db", "", "Path to SQLite database file (overrides DIAGZ_DB env var)")
	flags.String("data", "", "Path to the training CSV (overrides DIAGZ_DATA env var)")
	flags.Bool("no-llm", false, "Phrase questions without a language model")
	flags.Bool("no-history", false, "Do not record consultations")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(symptomsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(phraseCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then DIAGZ_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
