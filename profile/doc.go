// Package profile provides optional runtime profiling for langgen.
//
// Profiling is built on [github.com/pkg/profile] and compiled in only with
// the "pprof" build tag:
//
//	go build -tags pprof -o langgen .
//
// Without the tag, [Modes] is empty and [Profiler.Start] returns a no-op.
//
// # Modes
//
//   - allocs:    memory allocations
//   - block:     blocking on synchronization primitives
//   - clock:     wall-clock time
//   - cpu:       CPU time
//   - goroutine: goroutine stacks
//   - heap:      live heap
//   - mem:       general memory
//   - mutex:     mutex contention
//   - thread:    thread creation
//   - trace:     execution trace
//
// # Usage
//
//	stop := profile.Profiler{Mode: "cpu", Path: dir, Quiet: true}.Start()
//	defer stop.Stop()
//
// From the command line, profile a long-running interpretation with:
//
//	langgen --pprof-mode=cpu run program.t
//	go tool pprof -http=: ~/.cache/langgen/pprof/cpu.pprof
//
// The pprof build also imports [net/http/pprof], which registers the
// /debug/pprof/ handlers on [net/http.DefaultServeMux].
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
