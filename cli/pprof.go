package cli

import (
	"context"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/langgen/log"
	"github.com/ardnew/langgen/profile"
)

// pprofConfig holds the profiling flags. Without the pprof build tag the
// mode enum only accepts the empty string.
type pprofConfig struct {
	Mode string `default:""            enum:",${pprofModeEnum}" help:"Enable profiling (${pprofModeList})." placeholder:"MODE" short:"p"`
	Dir  string `default:"${pprofDir}"                          help:"Profile output directory."           type:"path"`
}

func (pprofConfig) vars() kong.Vars {
	modes := profile.Modes()

	list := strings.Join(modes, ", ")
	if !profile.Enabled {
		list = "requires -tags " + profile.Tag
	}

	return kong.Vars{
		"pprofModeEnum": strings.Join(modes, ","),
		"pprofModeList": list,
		"pprofDir":      cachePath(profile.Tag),
	}
}

func (pprofConfig) group() kong.Group {
	return kong.Group{Key: "pprof", Title: "Profiling (pprof)"}
}

// start starts profiling if a mode was selected and returns the function
// that stops it.
func (f pprofConfig) start(ctx context.Context) (stop func()) {
	p := profile.Profiler{Mode: f.Mode, Path: f.Dir, Quiet: true}
	if p.Mode == "" {
		return func() {}
	}

	log.DebugContext(ctx, "pprof start", slog.Any("profiler", p))

	s := p.Start()

	return func() {
		s.Stop()
		log.DebugContext(ctx, "pprof stop", slog.Any("profiler", p))
	}
}
