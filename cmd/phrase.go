package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/diagz/internal/llm"
	"github.com/abhisek/diagz/internal/phrasing"
)

var phraseCmd = &cobra.Command{
	Use:   "phrase [symptom...]",
	Short: "Preview LLM-phrased questions (no database)",
	Long: `Ask the configured language model to phrase symptom questions and print
them next to the default phrasing.

Without arguments the most discriminating symptoms are phrased, in the order
a fresh consultation would ask them. Nothing is cached or recorded, which makes
this useful for comparing providers and models.`,
	RunE: runPhrase,
}

func init() {
	phraseCmd.Flags().IntP("count", "n", 10, "Number of symptoms to phrase when none are given")
}

func runPhrase(cmd *cobra.Command, args []string) error {
	count, _ := cmd.Flags().GetInt("count")

	cfg, ok := llm.ConfigFromEnv()
	if !ok {
		return fmt.Errorf("no LLM provider configured: set DIAGZ_LLM_PROVIDER or a provider API key")
	}

	_, m, err := loadModel(cmd)
	if err != nil {
		return err
	}

	symptoms := args
	if len(symptoms) == 0 {
		for i, d := range m.Discrimination() {
			if i >= count {
				break
			}
			symptoms = append(symptoms, d.Symptom)
		}
	}
	for _, s := range symptoms {
		if _, ok := m.SymptomIndex(s); !ok {
			return fmt.Errorf("unknown symptom %q", s)
		}
	}

	provider, err := llm.NewProvider(cmd.Context(), cfg, nil)
	if err != nil {
		return fmt.Errorf("LLM provider: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Phrasing %d symptoms with %s (%s)...\n\n", len(symptoms), cfg.Provider, provider.ModelID())

	questions, err := phrasing.NewLLM(provider, phrasing.DefaultConfig()).Phrase(cmd.Context(), symptoms)
	writePhrasings(out, symptoms, questions)
	if err != nil {
		return fmt.Errorf("phrase questions: %w", err)
	}
	return nil
}

func writePhrasings(out io.Writer, symptoms []string, questions map[string]string) {
	for _, s := range symptoms {
		fmt.Fprintf(out, "%s\n", s)
		fmt.Fprintf(out, "  default: %s\n", phrasing.Question(s))
		q := questions[s]
		if q == "" || q == phrasing.Question(s) {
			q = "(default)"
		}
		fmt.Fprintf(out, "  llm:     %s\n\n", q)
	}
}
