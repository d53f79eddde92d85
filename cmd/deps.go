package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/diagz/internal/dataset"
	"github.com/abhisek/diagz/internal/llm"
	"github.com/abhisek/diagz/internal/model"
	"github.com/abhisek/diagz/internal/phrasing"
	"github.com/abhisek/diagz/internal/session"
	"github.com/abhisek/diagz/internal/store"
	"github.com/abhisek/diagz/internal/transcript"
)

var errNoData = errors.New("no dataset: pass --data or set DIAGZ_DATA")

// resolveDataPath returns the training CSV from --data, then DIAGZ_DATA.
func resolveDataPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("data"); p != "" {
		return p, nil
	}
	if p := os.Getenv("DIAGZ_DATA"); p != "" {
		return p, nil
	}
	return "", errNoData
}

// loadModel reads the dataset and builds the probability model.
func loadModel(cmd *cobra.Command) (*dataset.Dataset, *model.Model, error) {
	path, err := resolveDataPath(cmd)
	if err != nil {
		return nil, nil, err
	}
	ds, err := dataset.LoadCSV(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load dataset: %w", err)
	}
	m, err := model.Build(ds)
	if err != nil {
		return nil, nil, fmt.Errorf("build model: %w", err)
	}
	return ds, m, nil
}

// openStore opens the event store at the resolved path.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

// consultation bundles what a front end needs to run sessions.
type consultation struct {
	dataset  *dataset.Dataset
	model    *model.Model
	store    *store.Store
	question func(string) string
	observer session.Observer

	// recorder is the observer when history is enabled.
	recorder *transcript.Recorder
}

func (c *consultation) Close() error {
	if c.store == nil {
		return nil
	}
	return c.store.Close()
}

// prepareConsultation loads the model, opens the store and phrases the
// questions. Store or LLM failures degrade to heuristic phrasing without
// history and are reported on stderr.
func prepareConsultation(cmd *cobra.Command) (*consultation, error) {
	ds, m, err := loadModel(cmd)
	if err != nil {
		return nil, err
	}
	c := &consultation{dataset: ds, model: m, question: phrasing.Question}

	st, err := openStore(cmd)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", err)
		fmt.Fprintln(cmd.ErrOrStderr(), "History and phrasing cache will be unavailable.")
	} else {
		c.store = st
	}

	c.question = phraseQuestions(cmd.Context(), cmd, ds, st)

	noHistory, _ := cmd.Flags().GetBool("no-history")
	if st != nil && !noHistory {
		rec := transcript.NewRecorder(st.EventRepo(), ds.Name())
		rec.Question = c.question
		rec.Warn = cmd.ErrOrStderr()
		c.observer, c.recorder = rec, rec
	}
	return c, nil
}

// phraseQuestions resolves display text for every symptom. Without an LLM
// the heuristic phrasing is used.
func phraseQuestions(ctx context.Context, cmd *cobra.Command, ds *dataset.Dataset, st *store.Store) func(string) string {
	if noLLM, _ := cmd.Flags().GetBool("no-llm"); noLLM {
		return phrasing.Question
	}
	cfg, ok := llm.ConfigFromEnv()
	if !ok {
		return phrasing.Question
	}

	var eventRepo store.EventRepo
	if st != nil {
		eventRepo = st.EventRepo()
	}
	provider, err := llm.NewProvider(ctx, cfg, eventRepo)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "LLM provider not configured:", err)
		return phrasing.Question
	}

	var phraser phrasing.Phraser = phrasing.NewLLM(provider, phrasing.DefaultConfig())
	if st != nil {
		phraser = phrasing.NewCached(phraser, st.PhrasingRepo(), ds.Fingerprint(), cfg.Provider)
	}

	return phraseAll(ctx, cmd.ErrOrStderr(), phraser, ds.Symptoms(), cfg.Provider)
}

// phraseAll runs phraser over symptoms, announcing the wait on errOut since
// a slow provider can take a while before any screen is drawn.
func phraseAll(ctx context.Context, errOut io.Writer, phraser phrasing.Phraser, symptoms []string, provider string) func(string) string {
	fmt.Fprintf(errOut, "Phrasing %d questions with %s...\n", len(symptoms), provider)
	questions, err := phraser.Phrase(ctx, symptoms)
	if err != nil {
		fmt.Fprintln(errOut, "warning: some questions use default phrasing:", err)
	}
	return phrasing.Lookup(questions)
}
