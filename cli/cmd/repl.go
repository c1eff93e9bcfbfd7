package cmd

import (
	"context"

	"github.com/ardnew/langgen/cli/cmd/repl"
)

// REPL starts an interactive session.
type REPL struct {
	Language `embed:""`

	History string `default:"${history}" help:"History file, empty to keep history in memory."`
}

// Run executes the repl command.
func (r *REPL) Run(ctx context.Context) error {
	l, err := r.build()
	if err != nil {
		return err
	}

	return repl.Run(ctx, l, r.History)
}
