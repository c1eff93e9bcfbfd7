package cmd

import (
	"context"
	"fmt"

	"github.com/ardnew/langgen/log"
	"github.com/ardnew/langgen/tlang"
)

// Lex prints the tokens of a program, one per line.
type Lex struct {
	Source `embed:""`
}

// Run executes the lex command.
func (x *Lex) Run(ctx context.Context) error {
	src, err := x.read(ctx)
	if err != nil {
		return err
	}

	toks, err := tlang.New(tlang.WithLogger(log.Default())).Lex(ctx, src)
	if err != nil {
		return err
	}

	w := output(ctx)

	for _, tok := range toks {
		if _, err := fmt.Fprintln(w, tok.String()); err != nil {
			return err
		}
	}

	return nil
}
