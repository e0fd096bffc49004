package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/aretw0/cvrguide"
	"github.com/aretw0/cvrguide/internal/presentation/tui"
)

// ChatOptions configures an interactive terminal conversation.
type ChatOptions struct {
	SessionID string
	// Headless disables the banner, prompt and markdown rendering.
	Headless bool
	Input    io.Reader
	Output   io.Writer
}

// RunChat talks to engine over the terminal until EOF, exit or a signal.
// Markdown is rendered only when Output is a terminal.
func RunChat(ctx context.Context, engine *cvrguide.Engine, opts ChatOptions) error {
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	headless := opts.Headless || !tui.IsTerminal(opts.Output)
	r := &cvrguide.Runner{
		Input:     opts.Input,
		Output:    opts.Output,
		SessionID: opts.SessionID,
		Headless:  headless,
	}
	if !headless {
		tui.PrintBanner(opts.Output, cvrguide.Version)
		if render, err := tui.NewRenderer(tui.Width(opts.Output)); err == nil {
			r.Renderer = render
		}
	}

	sigCtx := NewSignalContext(ctx)
	defer sigCtx.Cancel()

	err := r.Run(sigCtx, engine)
	if sigCtx.Signal() != nil && errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
