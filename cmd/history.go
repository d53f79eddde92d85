package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/diagz/internal/model"
	"github.com/abhisek/diagz/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded consultations",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent consultations",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		sessions, err := s.EventRepo().QuerySessionSummaries(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No consultations recorded yet.")
			return nil
		}
		writeSessionList(out, sessions)
		return nil
	},
}

var historyViewCmd = &cobra.Command{
	Use:   "view <session-id>",
	Short: "Show the answers and final ranking of a consultation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		top, _ := cmd.Flags().GetInt("top")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		repo := s.EventRepo()
		sess, err := repo.GetSessionSummary(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("get session: %w", err)
		}
		if sess == nil {
			return fmt.Errorf("session %s not found", args[0])
		}
		answers, err := repo.QueryAnswers(cmd.Context(), sess.SessionID)
		if err != nil {
			return fmt.Errorf("query answers: %w", err)
		}
		return writeSession(cmd.OutOrStdout(), *sess, answers, top)
	},
}

func writeSessionList(out io.Writer, sessions []store.SessionSummary) {
	fmt.Fprintf(out, "%-36s  %-16s  %-10s  %5s  %s\n", "Session", "Started", "Outcome", "Qs", "Leading")
	fmt.Fprintln(out, strings.Repeat("─", 100))
	for _, s := range sessions {
		outcome, leading := "abandoned", "-"
		if s.Completed() {
			outcome = s.Reason
			leading = fmt.Sprintf("%s (%.2f)", s.TopCondition, s.TopProbability)
		}
		fmt.Fprintf(out, "%-36s  %-16s  %-10s  %5d  %s\n",
			s.SessionID,
			s.StartedAt.Local().Format("2006-01-02 15:04"),
			outcome,
			s.QuestionsAnswered,
			leading,
		)
	}
}

func writeSession(out io.Writer, s store.SessionSummary, answers []store.AnswerEvent, top int) error {
	fmt.Fprintf(out, "Session:     %s\n", s.SessionID)
	fmt.Fprintf(out, "Started:     %s\n", s.StartedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Dataset:     %s (%d symptoms, %d conditions)\n", s.Dataset, s.Symptoms, s.Conditions)
	if !s.Completed() {
		fmt.Fprintln(out, "Outcome:     abandoned")
	} else {
		fmt.Fprintf(out, "Outcome:     %s after %d answers in %s\n",
			s.Reason, s.QuestionsAnswered, s.Duration.Round(time.Second))
	}

	sep := strings.Repeat("─", 60)
	fmt.Fprintln(out)
	fmt.Fprintln(out, sep)
	fmt.Fprintln(out, "ANSWERS")
	fmt.Fprintln(out, sep)
	if len(answers) == 0 {
		fmt.Fprintln(out, "(none)")
	}
	for _, a := range answers {
		value := "no"
		if a.Value == model.Present {
			value = "yes"
		}
		question := a.Question
		if question == "" {
			question = a.Symptom
		}
		fmt.Fprintf(out, "%3d. %-3s  %s  → %s %.2f\n",
			a.Step, value, question, a.LeadingCondition, a.LeadingProbability)
	}

	if !s.Completed() || s.RankingJSON == "" {
		return nil
	}

	var ranking []model.Ranked
	if err := json.Unmarshal([]byte(s.RankingJSON), &ranking); err != nil {
		return fmt.Errorf("decode ranking: %w", err)
	}
	shown := ranking
	if top > 0 && top < len(shown) {
		shown = shown[:top]
	}

	fmt.Fprintln(out, sep)
	fmt.Fprintln(out, "RANKING")
	fmt.Fprintln(out, sep)
	for i, r := range shown {
		fmt.Fprintf(out, "%3d. %-40s  %.4f\n", i+1, r.Condition, r.Probability)
	}
	if hidden := len(ranking) - len(shown); hidden > 0 {
		fmt.Fprintf(out, "     ... %d more\n", hidden)
	}
	return nil
}

func init() {
	historyListCmd.Flags().IntP("limit", "n", 20, "Number of consultations to show")
	historyViewCmd.Flags().Int("top", 10, "Number of conditions to show (0 = all)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyViewCmd)
}
