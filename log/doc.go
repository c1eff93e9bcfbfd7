// Package log wraps [log/slog] with a fixed set of levels, functional
// configuration options, and a colorized handler for terminals.
//
// A [Logger] is created with [Make] and reconfigured with [Logger.Wrap]:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("kitchen"))
//
// The zero Logger discards everything, so components that accept a Logger
// in their configuration never need a nil check.
//
// # Levels
//
// [LevelTrace] sits below [LevelDebug] and is used for per-token and
// per-node output from the lexer, parser, and interpreter. The remaining
// levels match those of [log/slog].
//
// # Package-level logger
//
// [Default] returns the process-wide logger, which writes to standard error
// until [Config] replaces it. The package-level functions ([Info],
// [DebugContext], and so on) log through it.
//
// Methods without a context argument use [DefaultContextProvider].
package log
