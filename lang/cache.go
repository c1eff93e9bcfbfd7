package lang

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/ardnew/langgen/log"
)

// ParseCache memoizes parsed programs by source text and strategy.
//
// A cached [Scope] is shared by every caller that parses the same source, so
// evaluators must treat nodes as read-only. The zero ParseCache is ready to
// use.
type ParseCache struct {
	entries sync.Map // cacheKey -> *cacheEntry
	hits    atomic.Uint64
	misses  atomic.Uint64
}

// cacheEntry holds the outcome of parsing one source text. The first caller
// parses; concurrent callers wait on once.
type cacheEntry struct {
	once    sync.Once
	program *Scope
	err     error
}

// NewParseCache returns an empty cache.
func NewParseCache() *ParseCache { return new(ParseCache) }

// cacheKey pairs the source with the parser strategy, which changes the tree
// produced for the same text. The full text is compared, so distinct sources
// never share an entry.
type cacheKey struct {
	src      string
	strategy Strategy
}

// Load returns the program parsed from src by parse, calling parse only if
// src has not been seen with the same strategy. Failed parses are cached too.
func (c *ParseCache) Load(
	ctx context.Context,
	logger log.Logger,
	src string,
	s Strategy,
	parse func() (*Scope, error),
) (*Scope, error) {
	key := cacheKey{src: src, strategy: s}

	value, hit := c.entries.LoadOrStore(key, new(cacheEntry))
	if hit {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}

	logger.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", strconv.FormatUint(Fingerprint(src), 36)),
		slog.String("strategy", s.String()),
		slog.Bool("cache_hit", hit))

	entry, ok := value.(*cacheEntry)
	if !ok {
		return parse()
	}

	entry.once.Do(func() {
		entry.program, entry.err = parse()
	})

	return entry.program, entry.err
}

// Stats returns the number of lookups that found and missed an entry.
func (c *ParseCache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

// Clear removes every entry and resets the statistics.
func (c *ParseCache) Clear() {
	c.entries.Clear()
	c.hits.Store(0)
	c.misses.Store(0)
}
