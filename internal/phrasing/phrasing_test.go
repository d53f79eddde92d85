package phrasing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/diagz/internal/llm"
	"github.com/abhisek/diagz/internal/store"
)

func TestLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"skin_rash", "Skin rash"},
		{"cough", "Cough"},
		{"  high__fever_ ", "High fever"},
		{"HIV_test", "Hiv test"},
		{"___", "___"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Label(tt.in), "Label(%q)", tt.in)
	}
}

func TestHeuristic(t *testing.T) {
	got, err := Heuristic{}.Phrase(context.Background(), []string{"skin_rash", "chills"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"skin_rash": "Do you have Skin rash?",
		"chills":    "Do you have Chills?",
	}, got)
}

func TestLookupFallsBack(t *testing.T) {
	q := Lookup(map[string]string{"fever": "Do you feel feverish?", "cough": ""})
	assert.Equal(t, "Do you feel feverish?", q("fever"))
	assert.Equal(t, "Do you have Cough?", q("cough"))
	assert.Equal(t, "Do you have Joint pain?", q("joint_pain"))
}

// echoResponder answers every batch, prefixing each symptom with "Q:".
// Symptoms listed in skip are left out of the response.
func echoResponder(skip ...string) func(llm.Request) llm.MockResponse {
	return func(req llm.Request) llm.MockResponse {
		out := questionsOutput{Questions: []questionOutput{}}
		for _, line := range strings.Split(req.Messages[0].Content, "\n") {
			s, ok := strings.CutPrefix(line, "- ")
			if !ok || slices.Contains(skip, s) {
				continue
			}
			out.Questions = append(out.Questions, questionOutput{Symptom: s, Question: "Q:" + s})
		}
		b, _ := json.Marshal(out)
		return llm.MockResponse{Content: b}
	}
}

func symptomNames(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("symptom_%02d", i)
	}
	return out
}

func TestLLM_Batches(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.Responder = echoResponder()
	p := NewLLM(mock, Config{BatchSize: 4, MaxTokens: 100})

	symptoms := symptomNames(10)
	got, err := p.Phrase(context.Background(), symptoms)
	require.NoError(t, err)

	assert.Equal(t, 3, mock.CallCount())
	require.Len(t, got, 10)
	for _, s := range symptoms {
		assert.Equal(t, "Q:"+s, got[s])
	}
	assert.Equal(t, QuestionsSchema, mock.Calls[0].Schema)
	assert.Equal(t, systemPrompt, mock.Calls[0].System)
}

func TestLLM_MissingEntriesUseHeuristic(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.Responder = echoResponder("chills")
	p := NewLLM(mock, DefaultConfig())

	got, err := p.Phrase(context.Background(), []string{"fever", "chills"})
	require.NoError(t, err)
	assert.Equal(t, "Q:fever", got["fever"])
	assert.Equal(t, "Do you have Chills?", got["chills"])
}

func TestLLM_IgnoresUnrequestedSymptoms(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"questions":[{"symptom":"fever","question":"Hot?"},{"symptom":"made_up","question":"?"}]}`),
	})
	p := NewLLM(mock, DefaultConfig())

	got, err := p.Phrase(context.Background(), []string{"fever"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"fever": "Hot?"}, got)
}

func TestLLM_FailedBatchFallsBack(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}},
	)
	mock.Responder = echoResponder()
	p := NewLLM(mock, Config{BatchSize: 2})

	got, err := p.Phrase(context.Background(), []string{"a", "b", "c"})
	require.Error(t, err)
	var unavail *llm.ErrProviderUnavailable
	assert.True(t, errors.As(err, &unavail))
	assert.Contains(t, err.Error(), "symptoms 1-2")

	assert.Equal(t, "Do you have A?", got["a"])
	assert.Equal(t, "Do you have B?", got["b"])
	assert.Equal(t, "Q:c", got["c"])
}

func TestLLM_TagsPurpose(t *testing.T) {
	var purpose string
	p := NewLLM(providerFunc(func(ctx context.Context, req llm.Request) (*llm.Response, error) {
		purpose = llm.PurposeFrom(ctx)
		return &llm.Response{Content: json.RawMessage(`{"questions":[]}`)}, nil
	}), DefaultConfig())

	_, err := p.Phrase(context.Background(), []string{"x"})
	require.NoError(t, err)
	assert.Equal(t, llm.PurposePhrasing, purpose)
}

type providerFunc func(context.Context, llm.Request) (*llm.Response, error)

func (f providerFunc) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	return f(ctx, req)
}

func (f providerFunc) ModelID() string { return "func" }

func openPhrasingRepo(t *testing.T) store.PhrasingRepo {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "phrasing.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s.PhrasingRepo()
}

func TestCached_OnlyAsksForMissing(t *testing.T) {
	repo := openPhrasingRepo(t)
	mock := llm.NewMockProvider()
	mock.Responder = echoResponder()
	c := NewCached(NewLLM(mock, DefaultConfig()), repo, "fp1", "llm")
	ctx := context.Background()

	got, err := c.Phrase(ctx, []string{"fever", "cough"})
	require.NoError(t, err)
	assert.Equal(t, "Q:fever", got["fever"])
	assert.Equal(t, 1, mock.CallCount())

	got, err = c.Phrase(ctx, []string{"fever", "cough", "rash"})
	require.NoError(t, err)
	assert.Equal(t, "Q:cough", got["cough"])
	assert.Equal(t, "Q:rash", got["rash"])
	require.Equal(t, 2, mock.CallCount())
	assert.NotContains(t, mock.Calls[1].Messages[0].Content, "fever")

	_, err = c.Phrase(ctx, []string{"rash"})
	require.NoError(t, err)
	assert.Equal(t, 2, mock.CallCount())

	stored, err := repo.Get(ctx, "fp1", []string{"rash"})
	require.NoError(t, err)
	assert.Equal(t, "llm", stored["rash"].Source)
}

func TestCached_KeyedByDataset(t *testing.T) {
	repo := openPhrasingRepo(t)
	mock := llm.NewMockProvider()
	mock.Responder = echoResponder()
	ctx := context.Background()

	_, err := NewCached(NewLLM(mock, DefaultConfig()), repo, "fp1", "llm").Phrase(ctx, []string{"fever"})
	require.NoError(t, err)
	_, err = NewCached(NewLLM(mock, DefaultConfig()), repo, "fp2", "llm").Phrase(ctx, []string{"fever"})
	require.NoError(t, err)
	assert.Equal(t, 2, mock.CallCount())
}

func TestCached_FailuresAreNotStored(t *testing.T) {
	repo := openPhrasingRepo(t)
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
	c := NewCached(NewLLM(mock, DefaultConfig()), repo, "fp1", "llm")
	ctx := context.Background()

	got, err := c.Phrase(ctx, []string{"fever"})
	require.Error(t, err)
	assert.Equal(t, "Do you have Fever?", got["fever"])

	stored, err := repo.Get(ctx, "fp1", []string{"fever"})
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestCached_SkippedSymptomsAreNotStored(t *testing.T) {
	repo := openPhrasingRepo(t)
	mock := llm.NewMockProvider()
	mock.Responder = echoResponder("cough")
	ctx := context.Background()

	got, err := NewCached(NewLLM(mock, DefaultConfig()), repo, "fp1", "llm").Phrase(ctx, []string{"fever", "cough"})
	require.NoError(t, err)
	assert.Equal(t, "Q:fever", got["fever"])
	assert.Equal(t, "Do you have Cough?", got["cough"])

	stored, err := repo.Get(ctx, "fp1", []string{"fever", "cough"})
	require.NoError(t, err)
	assert.Contains(t, stored, "fever")
	assert.NotContains(t, stored, "cough")

	mock.Responder = echoResponder()
	got, err = NewCached(NewLLM(mock, DefaultConfig()), repo, "fp1", "llm").Phrase(ctx, []string{"fever", "cough"})
	require.NoError(t, err)
	assert.Equal(t, "Q:cough", got["cough"])
	require.Equal(t, 2, mock.CallCount())
	assert.NotContains(t, mock.Calls[1].Messages[0].Content, "fever")
}

func TestCached_StoresSuccessfulBatchWhenAnotherFails(t *testing.T) {
	repo := openPhrasingRepo(t)
	mock := llm.NewMockProvider()
	calls := 0
	mock.Responder = func(req llm.Request) llm.MockResponse {
		calls++
		if calls > 1 {
			return llm.MockResponse{Err: &llm.ErrMaxTokensExceeded{}}
		}
		return echoResponder()(req)
	}
	cfg := DefaultConfig()
	cfg.BatchSize = 1
	ctx := context.Background()

	_, err := NewCached(NewLLM(mock, cfg), repo, "fp1", "llm").Phrase(ctx, []string{"fever", "cough"})
	require.Error(t, err)

	stored, err := repo.Get(ctx, "fp1", []string{"fever", "cough"})
	require.NoError(t, err)
	assert.Equal(t, "Q:fever", stored["fever"].Question)
	assert.NotContains(t, stored, "cough")
}
