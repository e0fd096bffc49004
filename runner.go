package cvrguide

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ReplyApology is shown when a turn fails.
const ReplyApology = "I apologize for the technical issue. Please refresh the page and try again."

// Runner drives a line-oriented conversation over the provided IO.
// This allows for easy testing and integration with different frontends (CLI, TUI, etc).
type Runner struct {
	Input     io.Reader
	Output    io.Writer
	SessionID string
	// Headless suppresses the banner and prompt, for piped use.
	Headless bool
	Renderer ContentRenderer
}

// ContentRenderer transforms reply markdown before it is written,
// e.g. to ANSI for a terminal, without coupling this package to a renderer.
type ContentRenderer func(string) (string, error)

// DefaultSessionID is used by the terminal chat when no session is named.
const DefaultSessionID = "cli"

// Run shows the current step, then answers each input line until EOF, "exit" or "quit".
// A "reset" line starts the conversation over.
func (r *Runner) Run(ctx context.Context, engine *Engine) error {
	if r.Input == nil {
		return errors.New("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return errors.New("output writer must be set (use os.Stdout)")
	}
	sessionID := r.SessionID
	if sessionID == "" {
		sessionID = DefaultSessionID
	}

	if !r.Headless {
		fmt.Fprintln(r.Output, "--- INEC CVR Guide (type 'exit' to leave, 'reset' to start over) ---")
	}

	greeting, err := engine.Current(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	r.print(greeting)

	lines := bufio.NewReader(r.Input)
	for {
		if !r.Headless {
			fmt.Fprint(r.Output, "> ")
		}
		text, readErr := lines.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return fmt.Errorf("input error: %w", readErr)
		}
		if readErr != nil && strings.TrimSpace(text) == "" {
			return nil
		}

		switch strings.ToLower(strings.TrimSpace(text)) {
		case "exit", "quit":
			fmt.Fprintln(r.Output, "Bye!")
			return nil
		case "reset":
			if err := engine.ResetSession(ctx, sessionID); err != nil {
				return fmt.Errorf("reset failed: %w", err)
			}
			r.print(ReplyReset)
			continue
		}

		reply, turnErr := engine.HandleMessage(ctx, sessionID, text)
		if turnErr != nil {
			reply = ReplyApology
		}
		r.print(reply)

		if readErr != nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (r *Runner) print(markdown string) {
	output := markdown
	if r.Renderer != nil {
		if rendered, err := r.Renderer(markdown); err == nil {
			output = rendered
		}
	}
	fmt.Fprintln(r.Output, strings.TrimSpace(output))
}
