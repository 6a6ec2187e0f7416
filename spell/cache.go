package spell

import (
	"strings"

	"github.com/puzpuzpuz/xsync/v3"
)

// Normalize produces the cache key for text: surrounding whitespace is
// trimmed and the remainder case-folded.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Cache maps normalized text to the last computed error spans for it.
//
// The cache is constructed per editing session and injected into the
// Scheduler. It grows without bound until Clear is called; there is no
// eviction policy. Reads are safe from any goroutine since checker
// responses arrive off the editing loop.
type Cache struct {
	m *xsync.MapOf[string, []ErrorSpan]
}

func NewCache() *Cache {
	return &Cache{m: xsync.NewMapOf[string, []ErrorSpan]()}
}

// Get returns the cached spans for text, keyed by its normalized form.
func (c *Cache) Get(text string) ([]ErrorSpan, bool) {
	spans, ok := c.m.Load(Normalize(text))
	if !ok {
		return nil, false
	}
	return cloneErrorSpans(spans), true
}

// Put stores spans for text under its normalized form.
func (c *Cache) Put(text string, spans []ErrorSpan) {
	c.m.Store(Normalize(text), cloneErrorSpans(spans))
}

// Len returns the number of cached entries.
func (c *Cache) Len() int { return c.m.Size() }

// Clear drops every entry.
func (c *Cache) Clear() { c.m.Clear() }
