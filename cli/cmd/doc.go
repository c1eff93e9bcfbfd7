// Package cmd implements the langgen subcommands: run, lex, ast, repl and
// init. Each command is a kong command struct whose Run method receives the
// context built by package cli.
package cmd

// Kong variable identifiers defined by package cli and interpolated into the
// command flag defaults.
const (
	// CacheIdentifier names the runtime cache directory.
	CacheIdentifier = "cache"
	// ConfigIdentifier names the path of the YAML configuration file.
	ConfigIdentifier = "config"
	// HistoryIdentifier names the path of the persisted REPL history.
	HistoryIdentifier = "history"
)
