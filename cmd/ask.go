package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/diagz/internal/model"
	"github.com/abhisek/diagz/internal/screens/results"
	"github.com/abhisek/diagz/internal/session"
	"github.com/abhisek/diagz/internal/ui/theme"
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Run a consultation in the terminal without the TUI",
	Long: `Ask symptom questions on stdin and print the ranking.

Answer y/yes/1 or n/no/0. Type f to finish early and see the ranking, or q
to abandon the consultation. End of input finishes the consultation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		top, _ := cmd.Flags().GetInt("top")
		maxQ, _ := cmd.Flags().GetInt("max-questions")

		c, err := prepareConsultation(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		s := session.Start(c.model, session.Config{Observer: c.observer})
		return runAsk(cmd.InOrStdin(), cmd.OutOrStdout(), s, c.question, askOptions{Top: top, MaxQuestions: maxQ})
	},
}

func init() {
	askCmd.Flags().Int("top", 10, "Number of conditions in the final ranking (0 = all)")
	askCmd.Flags().Int("max-questions", 0, "Finish after this many answers (0 = no limit)")
}

type askOptions struct {
	Top          int
	MaxQuestions int
}

type reply int

const (
	replyInvalid reply = iota
	replyYes
	replyNo
	replyFinish
	replyQuit
)

func parseReply(line string) reply {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "1":
		return replyYes
	case "n", "no", "0":
		return replyNo
	case "f", "finish", "end":
		return replyFinish
	case "q", "quit":
		return replyQuit
	}
	return replyInvalid
}

var (
	askQuestion = lipgloss.NewStyle().Bold(true)
	askLeading  = lipgloss.NewStyle().Foreground(theme.Accent)
	askDim      = lipgloss.NewStyle().Foreground(theme.TextDim)
)

// runAsk drives s from line-oriented input until it terminates, the answer
// limit is reached, input ends, or the user quits.
func runAsk(in io.Reader, out io.Writer, s *session.Session, question func(string) string, opts askOptions) error {
	scanner := bufio.NewScanner(in)

	for {
		symptom, ok := s.PendingQuestion()
		if !ok {
			break
		}
		if opts.MaxQuestions > 0 && s.Asked() >= opts.MaxQuestions {
			s.Finish()
			break
		}

		lipgloss.Fprint(out, askQuestion.Render(question(symptom))+" "+askDim.Render("[y/n/f/q]")+" ")
		if !scanner.Scan() {
			lipgloss.Fprintln(out)
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read answer: %w", err)
			}
			s.Finish()
			break
		}

		var value int
		switch parseReply(scanner.Text()) {
		case replyYes:
			value = model.Present
			lipgloss.Fprintln(out, theme.Yes.Render("  yes"))
		case replyNo:
			value = model.Absent
			lipgloss.Fprintln(out, theme.No.Render("  no"))
		case replyFinish:
			s.Finish()
			continue
		case replyQuit:
			lipgloss.Fprintln(out, askDim.Render("Consultation abandoned."))
			return nil
		default:
			lipgloss.Fprintln(out, askDim.Render("  Please answer y, n, f (finish) or q (quit)."))
			continue
		}

		lead, err := s.Answer(value)
		if err != nil {
			return err
		}
		lipgloss.Fprintln(out, askLeading.Render(fmt.Sprintf("Most likely condition: %s (p=%.2f)", lead.Condition, lead.Probability)))
	}

	printRanking(out, s.Transcript(), opts.Top)
	return nil
}

// printRanking writes the final ranking with probabilities to four decimals.
func printRanking(out io.Writer, t session.Transcript, top int) {
	ranking := t.Ranking
	if top > 0 && top < len(ranking) {
		ranking = ranking[:top]
	}

	width := len("Condition")
	for _, r := range ranking {
		width = max(width, len(r.Condition))
	}

	lipgloss.Fprintln(out)
	lipgloss.Fprintln(out, askQuestion.Render(fmt.Sprintf("Final ranking after %d answers", len(t.Steps))))
	lipgloss.Fprintln(out, strings.Repeat("─", width+20))
	lipgloss.Fprintf(out, "%4s  %-*s  %s\n", "#", width, "Condition", "Probability")
	for i, r := range ranking {
		line := fmt.Sprintf("%4d  %-*s  %.4f", i+1, width, r.Condition, r.Probability)
		if i == 0 {
			line = askLeading.Render(line)
		}
		lipgloss.Fprintln(out, line)
	}
	if hidden := len(t.Ranking) - len(ranking); hidden > 0 {
		lipgloss.Fprintln(out, askDim.Render(fmt.Sprintf("      ... %d more", hidden)))
	}
	lipgloss.Fprintln(out)
	lipgloss.Fprintln(out, askDim.Render(results.Disclaimer))
}
