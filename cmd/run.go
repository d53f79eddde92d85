package cmd

import (
	"bytes"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/diagz/internal/app"
	"github.com/abhisek/diagz/internal/transcript"
)

// runApp loads the model, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	c, err := prepareConsultation(cmd)
	if err != nil {
		return err
	}
	defer c.Close()

	opts := app.Options{
		Model:    c.model,
		Dataset:  c.dataset.Name(),
		Question: c.question,
		Observer: c.observer,
	}
	if c.store != nil {
		opts.EventRepo = c.store.EventRepo()
	}
	return holdWarnings(c.recorder, cmd.ErrOrStderr(), func() error {
		return app.Run(opts)
	})
}

// holdWarnings buffers rec's warnings while run owns the terminal and writes
// them to errOut once it returns.
func holdWarnings(rec *transcript.Recorder, errOut io.Writer, run func() error) error {
	if rec == nil {
		return run()
	}
	var buf bytes.Buffer
	prev := rec.Warn
	rec.Warn = &buf
	defer func() {
		rec.Warn = prev
		io.Copy(errOut, &buf)
	}()
	return run()
}
