package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/langgen/lang"
	"github.com/ardnew/langgen/log"
)

// Run interprets a program and prints its report.
type Run struct {
	Language `embed:""`

	Format string `default:"text" enum:"${reportFormatEnum}" help:"Report format (${enum})." short:"f"`
	Indent int    `default:"2"                                help:"Indent width for json and yaml, 0 for compact."`

	Source `embed:""`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) error {
	format, err := lang.ParseReportFormat(r.Format)
	if err != nil {
		return err
	}

	l, err := r.build()
	if err != nil {
		return err
	}

	src, err := r.read(ctx)
	if err != nil {
		return err
	}

	report, err := l.Interpret(ctx, src)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "interpret complete",
		slog.String("language", l.Name),
		slog.Int("statements", len(report)))

	return report.Format(ctx, output(ctx), format, r.Indent)
}
