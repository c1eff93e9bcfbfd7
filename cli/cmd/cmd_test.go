package cmd

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// writeFiles creates each name with its content under a temp directory and
// returns their paths in argument order.
func writeFiles(t *testing.T, files ...[2]string) []string {
	t.Helper()

	dir := t.TempDir()
	paths := make([]string, len(files))

	for i, f := range files {
		paths[i] = filepath.Join(dir, f[0])
		if err := os.WriteFile(paths[i], []byte(f[1]), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	return paths
}

// pipeStdin replaces os.Stdin with a pipe carrying content for the rest of
// the test.
func pipeStdin(t *testing.T, content string) {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}

	old := os.Stdin
	os.Stdin = r

	t.Cleanup(func() {
		os.Stdin = old
		_ = r.Close()
	})

	go func() {
		defer w.Close()

		_, _ = io.WriteString(w, content)
	}()
}

func readSources(t *testing.T, paths ...string) string {
	t.Helper()

	src, err := Source{Files: paths}.read(t.Context())
	if err != nil {
		t.Fatalf("read(%q): %v", paths, err)
	}

	return src
}

func TestSource_SingleFile(t *testing.T) {
	paths := writeFiles(t, [2]string{"a.t", "1 + 1"})

	if got := readSources(t, paths...); got != "1 + 1" {
		t.Errorf("source = %q", got)
	}
}

func TestSource_FilesAreSeparated(t *testing.T) {
	paths := writeFiles(t,
		[2]string{"a.t", "let x: number = 1"},
		[2]string{"b.t", "2"},
	)

	// Without a separator the inputs would lex as "12".
	if got, want := readSources(t, paths...), "let x: number = 1\n2"; got != want {
		t.Errorf("source = %q, want %q", got, want)
	}
}

func TestSource_Duplicates(t *testing.T) {
	paths := writeFiles(t, [2]string{"a.t", "1"}, [2]string{"b.t", "2"})

	link := filepath.Join(filepath.Dir(paths[0]), "link.t")
	if err := os.Symlink(paths[0], link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	rel, err := filepath.Rel(wd, paths[0])
	if err != nil {
		t.Fatal(err)
	}

	got := readSources(t, paths[0], rel, link, paths[1], paths[0])
	if got != "1\n2" {
		t.Errorf("source = %q, want %q", got, "1\n2")
	}
}

func TestSource_MissingFilesSkipped(t *testing.T) {
	paths := writeFiles(t, [2]string{"a.t", "true"})
	missing := filepath.Join(t.TempDir(), "missing.t")

	if got := readSources(t, missing, paths[0]); got != "true" {
		t.Errorf("source = %q", got)
	}

	_, err := Source{Files: []string{missing, t.TempDir()}}.read(t.Context())
	if !errors.Is(err, ErrNoSource) {
		t.Errorf("error = %v, want ErrNoSource", err)
	}
}

func TestSource_StdinLast(t *testing.T) {
	pipeStdin(t, "stdin")

	paths := writeFiles(t, [2]string{"a.t", "file"})

	if got := readSources(t, "-", paths[0]); got != "file\nstdin" {
		t.Errorf("source = %q, want stdin last", got)
	}
}

func TestSource_StdinOnce(t *testing.T) {
	pipeStdin(t, "1 + 2")

	if got := readSources(t, "-", "-", "-"); got != "1 + 2" {
		t.Errorf("source = %q", got)
	}
}

func TestError_Chain(t *testing.T) {
	cause := errors.New("disk full")
	err := ErrWriteConfig.With().Wrap(cause)

	if !errors.Is(err, ErrWriteConfig) || !errors.Is(err, cause) {
		t.Errorf("%v does not match its sentinel and cause", err)
	}

	if errors.Is(err, ErrYAMLMarshal) {
		t.Error("matched an unrelated sentinel")
	}

	if got, want := err.Error(), "write configuration file: disk full"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
