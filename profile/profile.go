package profile

import "log/slog"

// Profiler selects a profiling mode and where its output is written.
type Profiler struct {
	Mode  string
	Path  string
	Quiet bool
}

// Stopper ends a profiling session and flushes its output.
type Stopper interface{ Stop() }

// Start begins profiling. It returns a no-op [Stopper] when Mode is empty,
// when Mode is not one of [Modes], or when built without the pprof tag.
// Stop is always safe to call.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

// LogValue implements [slog.LogValuer].
func (p Profiler) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("mode", p.Mode),
		slog.String("path", p.Path),
		slog.Bool("quiet", p.Quiet),
	)
}

type ignore struct{}

func (ignore) Stop() {}
