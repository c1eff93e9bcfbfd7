package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ardnew/langgen/lang"
)

// TestMain points the config and cache directories at a scratch tree.
// Both are resolved once per process.
func TestMain(m *testing.M) {
	root, err := os.MkdirTemp("", "langgen-cli")
	if err != nil {
		panic(err)
	}

	os.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	os.Setenv("XDG_CACHE_HOME", filepath.Join(root, "cache"))

	code := m.Run()

	os.RemoveAll(root)
	os.Exit(code)
}

func noExit(t *testing.T) func(int) {
	t.Helper()

	return func(code int) { t.Errorf("exit(%d)", code) }
}

func writeProgram(t *testing.T, src string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "prog.t")
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func writeConfig(t *testing.T, content string) {
	t.Helper()

	path := configPath(baseConfig)
	if err := os.MkdirAll(filepath.Dir(path), defaultDirMode); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() { os.Remove(path) })
}

func TestRun_Program(t *testing.T) {
	prog := writeProgram(t, "let x: number = 2; x * 3")

	if err := Run(t.Context(), noExit(t), "--no-log-pretty", prog); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if err := Run(t.Context(), noExit(t), "run", "--format=json", prog); err != nil {
		t.Fatalf("Run json: %v", err)
	}
}

func TestRun_CreatesDirectories(t *testing.T) {
	if err := Run(t.Context(), noExit(t), "lex", writeProgram(t, "1")); err != nil {
		t.Fatal(err)
	}

	for _, dir := range []string{configDir(), cacheDir()} {
		if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
			t.Errorf("%s not created: %v", dir, err)
		}
	}
}

func TestRun_ProgramError(t *testing.T) {
	err := Run(t.Context(), noExit(t), writeProgram(t, "1 / 0"))
	if !errors.Is(err, lang.ErrDivideByZero) {
		t.Errorf("error = %v, want ErrDivideByZero", err)
	}
}

func TestRun_ConfigFile(t *testing.T) {
	// Under last-match, "x" is taken by the expression production and the
	// following "=" starts no statement.
	prog := writeProgram(t, "let x: number = 1 x = 2 x")

	writeConfig(t, "strategy: last\n")

	if err := Run(t.Context(), noExit(t), prog); !errors.Is(err, lang.ErrUnknownToken) {
		t.Errorf("error = %v, want ErrUnknownToken", err)
	}

	if err := Run(t.Context(), noExit(t), "--strategy=first", prog); err != nil {
		t.Errorf("flag did not override config: %v", err)
	}
}

func TestRun_InitRoundTrip(t *testing.T) {
	path := configPath(baseConfig)
	t.Cleanup(func() { os.Remove(path) })

	if err := Run(t.Context(), noExit(t), "init", "--force", "--log-level=debug"); err != nil {
		t.Fatalf("init: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	r, err := resolveYAML(f)
	if err != nil {
		t.Fatalf("resolveYAML(%s): %v", data, err)
	}

	c, ok := r.(config)
	if !ok {
		t.Fatalf("resolver is %T", r)
	}

	if c["log-level"] != "debug" {
		t.Errorf("log-level = %v in\n%s", c["log-level"], data)
	}
}

func TestRun_UnknownFlag(t *testing.T) {
	exited := -1

	err := Run(t.Context(), func(code int) { exited = code }, "--bogus")
	if err == nil && exited == -1 {
		t.Error("unknown flag was accepted")
	}
}
