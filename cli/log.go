package cli

import (
	"context"
	"iter"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/langgen/log"
)

// logFormat configures the default logger as a side effect of parsing, so
// that errors reported while kong is still parsing use the requested format.
type logFormat string

// UnmarshalText implements [encoding.TextUnmarshaler].
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel configures the default logger as a side effect of parsing.
type logLevel string

// UnmarshalText implements [encoding.TextUnmarshaler].
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"info"    enum:"${logLevelEnum}"  help:"Set log level (${enum})."           yaml:"level"`
	Format     logFormat `default:"text"    enum:"${logFormatEnum}" help:"Set log format (${enum})."          yaml:"format"`
	TimeLayout string    `default:"RFC3339"                         help:"Set timestamp layout."              yaml:"time-layout"`
	Caller     bool      `default:"false"                           help:"Include caller information."        negatable:"" yaml:"caller"`
	Pretty     bool      `default:"true"                            help:"Enable colorized pretty printing."  negatable:"" yaml:"pretty"`
}

func join(seq iter.Seq[string]) string {
	return strings.Join(slices.Collect(seq), ",")
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevelEnum":  join(log.Levels()),
		"logFormatEnum": join(log.Formats()),
	}
}

func (*logConfig) group() kong.Group {
	return kong.Group{Key: "log", Title: "Logging options"}
}

// start applies every parsed logging flag to the default logger. It returns
// a function for symmetry with [pprofConfig.start].
func (f *logConfig) start(ctx context.Context) (stop func()) {
	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)

	return func() {}
}

// scan applies logging flags found anywhere in args before kong parses them.
// Level and format are also applied during parsing through UnmarshalText, but
// boolean flags never pass through that interface.
func (f *logConfig) scan(args []string) {
	valued := map[string]func(string){
		"--log-level":  func(v string) { _ = f.Level.UnmarshalText([]byte(v)) },
		"--log-format": func(v string) { _ = f.Format.UnmarshalText([]byte(v)) },
	}

	boolean := map[string]func(bool){
		"caller": func(v bool) {
			f.Caller = v
			log.Config(log.WithCaller(v))
		},
		"pretty": func(v bool) {
			f.Pretty = v
			log.Config(log.WithPretty(v))
		},
	}

	for i := 0; i < len(args); i++ {
		name, value, assigned := strings.Cut(args[i], "=")

		if set, ok := valued[name]; ok {
			if !assigned && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++
				value = args[i]
			}

			set(value)

			continue
		}

		negate := false

		key, ok := strings.CutPrefix(name, "--log-")
		if !ok {
			if key, ok = strings.CutPrefix(name, "--no-log-"); !ok {
				continue
			}

			negate = true
		}

		set, ok := boolean[key]
		if !ok {
			continue
		}

		v := true
		if assigned {
			b, err := strconv.ParseBool(value)
			if err != nil {
				continue
			}

			v = b
		}

		set(v != negate)
	}
}
