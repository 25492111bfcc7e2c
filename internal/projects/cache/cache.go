// Package cache holds the process-wide record cache: a per-name entry
// region plus a single full-list snapshot, both TTL-gated. Expired
// values are retained so read paths can fall back to them when the
// backend is unreachable.
package cache

import (
	"sync"
	"time"

	"github.com/windscape-energy/windscape-backend/internal/projects/domain"
)

type entry struct {
	record    *domain.ProjectRecord
	writtenAt time.Time
}

// Stats is the observability snapshot returned by Stats().
type Stats struct {
	EntryCount int           `json:"entry_count"`
	HasList    bool          `json:"has_list"`
	TTL        time.Duration `json:"ttl"`
}

// RecordCache is safe for concurrent use.
type RecordCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry
	list    []domain.ProjectRecord
	listAt  time.Time
}

// Option configures a RecordCache.
type Option func(*RecordCache)

// WithClock overrides the cache's time source. Tests use it to advance
// time deterministically.
func WithClock(now func() time.Time) Option {
	return func(c *RecordCache) { c.now = now }
}

// New creates an empty cache whose entries stay fresh for ttl.
func New(ttl time.Duration, opts ...Option) *RecordCache {
	c := &RecordCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached record for name if it exists and is younger
// than the TTL.
func (c *RecordCache) Get(name string) (*domain.ProjectRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[name]
	if !ok || c.now().Sub(e.writtenAt) >= c.ttl {
		return nil, false
	}
	return e.record.Clone(), true
}

// GetStale returns the cached record for name regardless of age. Read
// paths use it as the fallback of last resort when the backend fails.
func (c *RecordCache) GetStale(name string) (*domain.ProjectRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[name]
	if !ok {
		return nil, false
	}
	return e.record.Clone(), true
}

// Put (re)inserts a record stamped with the current time. The list
// snapshot is dropped only when the name is new, since only then can
// list membership have changed.
func (c *RecordCache) Put(name string, record *domain.ProjectRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, existed := c.entries[name]
	c.entries[name] = entry{record: record.Clone(), writtenAt: c.now()}
	if !existed {
		c.dropListLocked()
	}
}

// GetList returns the full-list snapshot if it is younger than the TTL.
func (c *RecordCache) GetList() ([]domain.ProjectRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.list == nil || c.now().Sub(c.listAt) >= c.ttl {
		return nil, false
	}
	return cloneList(c.list), true
}

// GetStaleList returns the list snapshot regardless of age.
func (c *RecordCache) GetStaleList() ([]domain.ProjectRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.list == nil {
		return nil, false
	}
	return cloneList(c.list), true
}

// PutList replaces the list snapshot, stamping the current time.
func (c *RecordCache) PutList(records []domain.ProjectRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.list = cloneList(records)
	c.listAt = c.now()
}

// Invalidate removes one entry and drops the list snapshot, since
// membership may have changed.
func (c *RecordCache) Invalidate(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, name)
	c.dropListLocked()
}

// Clear empties both regions.
func (c *RecordCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entry)
	c.dropListLocked()
}

// PruneExpired drops entries older than retention, bounding how long
// expired values stay around for fallback reads. Retention below the
// TTL is clamped to the TTL so fresh entries are never pruned.
func (c *RecordCache) PruneExpired(retention time.Duration) int {
	if retention < c.ttl {
		retention = c.ttl
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	pruned := 0
	for name, e := range c.entries {
		if now.Sub(e.writtenAt) >= retention {
			delete(c.entries, name)
			pruned++
		}
	}
	if c.list != nil && now.Sub(c.listAt) >= retention {
		c.list = nil
		pruned++
	}
	return pruned
}

// Stats reports the cache's current shape.
func (c *RecordCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		EntryCount: len(c.entries),
		HasList:    c.list != nil,
		TTL:        c.ttl,
	}
}

func (c *RecordCache) dropListLocked() {
	c.list = nil
	c.listAt = time.Time{}
}

func cloneList(records []domain.ProjectRecord) []domain.ProjectRecord {
	out := make([]domain.ProjectRecord, len(records))
	for i := range records {
		out[i] = *records[i].Clone()
	}
	return out
}
