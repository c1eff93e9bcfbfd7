package cmd

import "context"

// AST prints the parsed program.
type AST struct {
	Language `embed:""`
	Source   `embed:""`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) error {
	l, err := a.build()
	if err != nil {
		return err
	}

	src, err := a.read(ctx)
	if err != nil {
		return err
	}

	program, err := l.Parse(ctx, src)
	if err != nil {
		return err
	}

	return program.Print(output(ctx))
}
