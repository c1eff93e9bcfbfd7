package repl

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/ardnew/langgen/lang"
)

// History is an ordered list of distinct input lines persisted to a file,
// one line per entry, oldest first. Re-entering a line moves it to the end.
type History struct {
	mu      sync.RWMutex
	path    string
	entries []string
	index   map[uint64]int // fingerprint -> position in entries
}

// NewHistory returns an empty History backed by the file at path. An empty
// path keeps history in memory only.
func NewHistory(path string) *History {
	return &History{path: path, index: make(map[uint64]int)}
}

// Load replaces the entries with the contents of the history file. A
// missing file is not an error.
func (h *History) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = h.entries[:0]
	clear(h.index)

	if h.path == "" {
		return nil
	}

	f, err := os.Open(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		h.add(scanner.Text())
	}

	return scanner.Err()
}

// Add appends line to the history and persists it.
func (h *History) Add(line string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	moved, ok := h.add(line)
	if !ok || h.path == "" {
		return nil
	}

	if moved {
		return h.rewrite()
	}

	f, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}

	_, err = f.WriteString(h.entries[len(h.entries)-1] + "\n")

	return errors.Join(err, f.Close())
}

// add reports whether line was added and whether an older copy was removed.
// Must be called with h.mu held.
func (h *History) add(line string) (moved, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, false
	}

	key := lang.Fingerprint(line)

	if i, dup := h.index[key]; dup && h.entries[i] == line {
		if i == len(h.entries)-1 {
			return false, false
		}

		h.entries = slices.Delete(h.entries, i, i+1)
		for j := i; j < len(h.entries); j++ {
			h.index[lang.Fingerprint(h.entries[j])] = j
		}

		moved = true
	}

	h.index[key] = len(h.entries)
	h.entries = append(h.entries, line)

	return moved, true
}

// rewrite replaces the history file with the current entries.
// Must be called with h.mu held.
func (h *History) rewrite() error {
	f, err := os.OpenFile(h.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	for _, e := range h.entries {
		_, _ = w.WriteString(e + "\n")
	}

	return errors.Join(w.Flush(), f.Close())
}

// Entry returns the entry at i, where 0 is the oldest.
func (h *History) Entry(i int) (string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return "", ErrOutOfBounds
	}

	return h.entries[i], nil
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Entries returns a copy of all entries, oldest first.
func (h *History) Entries() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return slices.Clone(h.entries)
}
