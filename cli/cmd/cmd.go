package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/langgen/lang"
	"github.com/ardnew/langgen/log"
	"github.com/ardnew/langgen/tlang"
)

type contextKey struct{}

// WithContext returns a copy of ctx carrying ktx.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, _ := ctx.Value(contextKey{}).(*kong.Context)

	return ktx
}

// output returns the writer commands print results to.
func output(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// Vars returns the kong variables referenced by command flags.
func Vars() kong.Vars {
	return kong.Vars{
		"strategyEnum":     strings.Join(lang.Strategies(), ","),
		"reportFormatEnum": strings.Join(lang.ReportFormats(), ","),
		"maxDepth":         strconv.Itoa(lang.DefaultMaxDepth),
	}
}

// Language holds the flags that configure the Tlang pipeline.
type Language struct {
	Strategy string `default:"first" enum:"${strategyEnum}" help:"Top-level production strategy (${enum})."`
	MaxDepth int    `default:"${maxDepth}"                    help:"Maximum evaluation depth, 0 for unlimited."`
}

func (l Language) build() (*lang.Language, error) {
	s, err := lang.ParseStrategy(l.Strategy)
	if err != nil {
		return nil, ErrLanguage.Wrap(err)
	}

	if l.MaxDepth < 0 {
		return nil, ErrLanguage.With(slog.Int("max_depth", l.MaxDepth))
	}

	return tlang.New(
		tlang.WithLogger(log.Default()),
		tlang.WithStrategy(s),
		tlang.WithInterpreter(lang.WithMaxDepth(l.MaxDepth)),
	), nil
}

// stdinSource names standard input on the command line.
const stdinSource = "-"

// Source holds the program inputs of a command.
type Source struct {
	Files []string `arg:"" default:"-" help:"Program source file(s), or '-' for stdin." name:"source" optional:""`
}

// read returns the concatenated program text of every distinct source.
func (s Source) read(ctx context.Context) (string, error) {
	srcs, err := openSources(s.Files)
	if err != nil {
		return "", err
	}
	defer srcs.Close()

	log.TraceContext(ctx, "read source",
		slog.Any("files", s.Files),
		slog.Int("open", len(srcs.files)),
		slog.Bool("stdin", srcs.stdin != nil))

	return lang.ReadSource(srcs)
}

// sources reads a set of files in order, then stdin if it was named. A
// newline separates consecutive inputs so tokens never join across files.
type sources struct {
	files []*os.File
	stdin io.Reader
	r     io.Reader
}

func (s *sources) readers() []io.Reader {
	var rs []io.Reader

	for _, f := range s.files {
		if len(rs) > 0 {
			rs = append(rs, strings.NewReader("\n"))
		}

		rs = append(rs, f)
	}

	if s.stdin != nil {
		if len(rs) > 0 {
			rs = append(rs, strings.NewReader("\n"))
		}

		rs = append(rs, s.stdin)
	}

	return rs
}

// Read implements [io.Reader].
func (s *sources) Read(p []byte) (int, error) {
	if s.r == nil {
		s.r = io.MultiReader(s.readers()...)
	}

	return s.r.Read(p)
}

// Close closes every opened file.
func (s *sources) Close() error {
	var errs []error

	for _, f := range s.files {
		errs = append(errs, f.Close())
	}

	return errors.Join(errs...)
}

// fileKey identifies a file by device and inode, so that symlinks and
// relative and absolute spellings of one path are read once.
type fileKey struct {
	dev uint64
	ino uint64
}

// openSources opens each distinct path. Every "-" collapses into a single
// stdin reader placed last. Paths that cannot be opened are skipped and
// logged. An error is returned only if nothing could be opened.
func openSources(paths []string) (*sources, error) {
	var (
		srcs     sources
		seen     = make(map[fileKey]struct{})
		stdinKey fileKey
		hasStdin bool
	)

	if info, err := os.Stdin.Stat(); err == nil {
		stdinKey, _ = makeFileKey(info)
	}

	for _, path := range paths {
		if path == stdinSource {
			hasStdin = true

			continue
		}

		f, key, err := openUnique(path, seen)
		if err != nil {
			log.Warn("skip source", slog.String("path", path), slog.Any("error", err))

			continue
		}

		if f == nil {
			continue
		}

		// A named file that is stdin is read through stdin.
		if key == stdinKey && key != (fileKey{}) {
			hasStdin = true
			_ = f.Close()

			continue
		}

		srcs.files = append(srcs.files, f)
	}

	if hasStdin {
		srcs.stdin = os.Stdin
	}

	if len(srcs.files) == 0 && srcs.stdin == nil {
		return nil, ErrNoSource.With(slog.Any("paths", paths))
	}

	return &srcs, nil
}

// openUnique opens path unless a file with the same identity is in seen.
// A duplicate yields a nil file and nil error.
func openUnique(path string, seen map[fileKey]struct{}) (*os.File, fileKey, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fileKey{}, err
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fileKey{}, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, fileKey{}, err
	}

	if info.IsDir() {
		return nil, fileKey{}, syscall.EISDIR
	}

	key, ok := makeFileKey(info)
	if ok {
		if _, dup := seen[key]; dup {
			return nil, key, nil
		}

		seen[key] = struct{}{}
	}

	f, err := os.Open(resolved)
	if err != nil {
		return nil, key, err
	}

	return f, key, nil
}

// makeFileKey reports false if info carries no device and inode.
func makeFileKey(info os.FileInfo) (fileKey, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fileKey{}, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}
