package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/diagz/internal/model"
	"github.com/abhisek/diagz/internal/phrasing"
)

var symptomsCmd = &cobra.Command{
	Use:   "symptoms",
	Short: "Inspect the dataset's symptoms",
}

var symptomsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List symptoms in the order a fresh consultation asks them",
	RunE: func(cmd *cobra.Command, args []string) error {
		top, _ := cmd.Flags().GetInt("top")

		ds, m, err := loadModel(cmd)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: %d symptoms, %d conditions, %d records\n\n",
			ds.Name(), m.NumSymptoms(), m.NumConditions(), ds.Len())
		writeDiscrimination(out, m.Discrimination(), top)
		return nil
	},
}

func writeDiscrimination(out io.Writer, ranks []model.Discrimination, top int) {
	shown := ranks
	if top > 0 && top < len(shown) {
		shown = shown[:top]
	}

	width := len("Symptom")
	for _, r := range shown {
		width = max(width, len(phrasing.Label(r.Symptom)))
	}

	fmt.Fprintf(out, "%4s  %-*s  %s\n", "#", width, "Symptom", "Variance")
	fmt.Fprintln(out, strings.Repeat("─", width+18))
	for i, r := range shown {
		fmt.Fprintf(out, "%4d  %-*s  %.4f\n", i+1, width, phrasing.Label(r.Symptom), r.Variance)
	}
	if hidden := len(ranks) - len(shown); hidden > 0 {
		fmt.Fprintf(out, "      ... %d more\n", hidden)
	}
}

func init() {
	symptomsListCmd.Flags().IntP("top", "n", 0, "Number of symptoms to show (0 = all)")

	symptomsCmd.AddCommand(symptomsListCmd)
}
