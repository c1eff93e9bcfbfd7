// Package cli contains the command line interface for langgen.
//
// # Commands
//
//   - run: interpret Tlang programs and print the report (default)
//   - lex: print the token stream
//   - ast: print the parsed program
//   - repl: start an interactive session
//   - init: write the current flag values to the configuration file
//
// Programs are read from the files named on the command line, or from
// standard input when none are given or a file is named "-":
//
//	langgen prog.t
//	echo 'let x: number = 2; x * 3' | langgen --format=json
//	langgen --strategy=longest --max-depth=64 a.t b.t
//
// # Configuration
//
// Flag defaults are read from config.yaml in the user configuration
// directory, and from config.json beside it. Nested YAML mappings name
// prefixed flags:
//
//	log:
//	  level: debug
//	  pretty: false
//	strategy: longest
//
// Flags given on the command line override both files. The init command
// writes a file in this layout.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, etc.)
//   - --[no-]log-caller: Include caller information in log output
//   - --[no-]log-pretty: Colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o langgen .
//
// With the tag, --pprof-mode selects one of allocs, block, clock, cpu,
// goroutine, heap, mem, mutex, thread, trace and --pprof-dir the output
// directory (default ~/.cache/langgen/pprof).
package cli
