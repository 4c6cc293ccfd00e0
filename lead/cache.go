package lead

import (
	"sync"

	"pipedesk/models"
)

// Entry is one cached lead: the raw record as the store delivered it, the
// canonical normalized lead, and the capability descriptor computed from the
// raw shape.
type Entry struct {
	Raw  map[string]any
	Lead models.Lead
	Caps models.Capabilities
}

// Cache is the local view of the leads collection. Every subscription push
// or explicit refresh replaces the whole snapshot; no merging of local and
// remote edits is attempted, a remote push simply supersedes local state.
type Cache struct {
	mu      sync.RWMutex
	entries []Entry
	byID    map[string]int
}

func NewCache() *Cache {
	return &Cache{byID: map[string]int{}}
}

// Replace normalizes the pushed records and swaps them in wholesale.
func (c *Cache) Replace(raws []map[string]any) {
	entries := make([]Entry, 0, len(raws))
	byID := make(map[string]int, len(raws))
	for _, raw := range raws {
		l, caps := Normalize(raw)
		byID[l.ID] = len(entries)
		entries = append(entries, Entry{Raw: raw, Lead: l, Caps: caps})
	}

	c.mu.Lock()
	c.entries = entries
	c.byID = byID
	c.mu.Unlock()
}

// Leads returns the current normalized snapshot.
func (c *Cache) Leads() []models.Lead {
	c.mu.RLock()
	defer c.mu.RUnlock()
	leads := make([]models.Lead, len(c.entries))
	for i, e := range c.entries {
		leads[i] = e.Lead
	}
	return leads
}

// Get looks up a cached lead by id.
func (c *Cache) Get(id string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.byID[id]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Len reports the snapshot size.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
