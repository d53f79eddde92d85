package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/diagz/internal/dataset"
	"github.com/abhisek/diagz/internal/model"
	"github.com/abhisek/diagz/internal/phrasing"
	"github.com/abhisek/diagz/internal/session"
)

const exampleCSV = `A,B,prognosis
1,0,X
1,0,X
1,0,X
0,1,Y
`

func exampleModel(t *testing.T) *model.Model {
	t.Helper()
	ds, err := dataset.ReadCSV("example", strings.NewReader(exampleCSV))
	require.NoError(t, err)
	m, err := model.Build(ds)
	require.NoError(t, err)
	return m
}

func ask(t *testing.T, input string, opts askOptions) (*session.Session, string) {
	t.Helper()
	s := session.Start(exampleModel(t), session.Config{})
	var out bytes.Buffer
	require.NoError(t, runAsk(strings.NewReader(input), &out, s, phrasing.Question, opts))
	return s, out.String()
}

func TestParseReply(t *testing.T) {
	tests := []struct {
		in   string
		want reply
	}{
		{"y", replyYes},
		{" YES ", replyYes},
		{"1", replyYes},
		{"n", replyNo},
		{"No", replyNo},
		{"0", replyNo},
		{"f", replyFinish},
		{"end", replyFinish},
		{"q", replyQuit},
		{"quit", replyQuit},
		{"", replyInvalid},
		{"maybe", replyInvalid},
		{"2", replyInvalid},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseReply(tt.in), "parseReply(%q)", tt.in)
	}
}

func TestRunAsk_AnswersUntilExhausted(t *testing.T) {
	s, out := ask(t, "y\nn\n", askOptions{})

	assert.True(t, s.IsTerminated())
	assert.Equal(t, session.ReasonExhausted, s.Reason())
	assert.Contains(t, out, "Do you have A?")
	assert.Contains(t, out, "Do you have B?")
	assert.Contains(t, out, "Most likely condition: X (p=1.00)")
	assert.Contains(t, out, "Final ranking after 2 answers")
	assert.Regexp(t, `X\s+1\.0000`, out)
	assert.Contains(t, out, "not a medical diagnosis")
}

func TestRunAsk_InvalidInputReprompts(t *testing.T) {
	s, out := ask(t, "maybe\ny\nn\n", askOptions{})

	assert.Equal(t, 2, s.Asked())
	assert.Contains(t, out, "Please answer y, n, f (finish) or q (quit).")
	assert.Equal(t, 2, strings.Count(out, "Do you have A?"))
}

func TestRunAsk_FinishEarly(t *testing.T) {
	s, out := ask(t, "f\n", askOptions{})

	assert.Equal(t, session.ReasonFinished, s.Reason())
	assert.Contains(t, out, "Final ranking after 0 answers")
	assert.Regexp(t, `X\s+0\.7500`, out)
	assert.Regexp(t, `Y\s+0\.2500`, out)
}

func TestRunAsk_EndOfInputFinishes(t *testing.T) {
	s, out := ask(t, "y\n", askOptions{})

	assert.Equal(t, session.ReasonFinished, s.Reason())
	assert.Equal(t, 1, s.Asked())
	assert.Contains(t, out, "Final ranking after 1 answers")
}

func TestRunAsk_QuitAbandons(t *testing.T) {
	s, out := ask(t, "q\n", askOptions{})

	assert.False(t, s.IsTerminated())
	assert.Contains(t, out, "Consultation abandoned.")
	assert.NotContains(t, out, "Final ranking")
}

func TestRunAsk_MaxQuestions(t *testing.T) {
	s, out := ask(t, "y\nn\n", askOptions{MaxQuestions: 1})

	assert.Equal(t, 1, s.Asked())
	assert.Equal(t, session.ReasonFinished, s.Reason())
	assert.NotContains(t, out, "Do you have B?")
}

func TestRunAsk_TopLimitsRanking(t *testing.T) {
	_, out := ask(t, "f\n", askOptions{Top: 1})

	assert.Regexp(t, `X\s+0\.7500`, out)
	assert.NotRegexp(t, `Y\s+0\.2500`, out)
	assert.Contains(t, out, "... 1 more")
}
