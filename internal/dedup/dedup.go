// Package dedup tracks which wallpaper URLs have already been delivered.
// The cache owns the in-memory index; every other component goes through
// IsSent and MarkSent rather than touching persisted records directly.
package dedup

import (
	"fmt"
	"log"
	"sync"

	"github.com/mbruegger/wallcast/internal/wallpaper"
)

// RecordStore is the slice of the persistence layer the cache needs.
type RecordStore interface {
	LoadRecords() ([]wallpaper.SentRecord, error)
	SaveRecords([]wallpaper.SentRecord) error
}

// Cache is a URL-keyed index over persisted sent records. The index is built
// lazily on first use and reused for the process lifetime.
type Cache struct {
	store RecordStore

	mu      sync.Mutex
	loaded  bool
	records map[string]wallpaper.SentRecord
}

// New creates a cache over the given record store.
func New(store RecordStore) *Cache {
	return &Cache{store: store}
}

// load populates the index on first access. A load failure degrades to an
// empty index; the cycle goes on without historical dedup rather than dying.
func (c *Cache) load() {
	if c.loaded {
		return
	}
	c.records = make(map[string]wallpaper.SentRecord)
	recs, err := c.store.LoadRecords()
	if err != nil {
		log.Printf("loading sent records failed, starting with empty cache: %v", err)
	} else {
		for _, r := range recs {
			c.records[r.URL] = r
		}
	}
	c.loaded = true
}

// IsSent reports whether the URL was already delivered.
func (c *Cache) IsSent(url string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.load()
	_, ok := c.records[url]
	return ok
}

// MarkSent records a delivery and persists the full record set. Marking the
// same URL twice keeps exactly one record.
func (c *Cache) MarkSent(rec wallpaper.SentRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.load()

	c.records[rec.URL] = rec

	all := make([]wallpaper.SentRecord, 0, len(c.records))
	for _, r := range c.records {
		all = append(all, r)
	}
	if err := c.store.SaveRecords(all); err != nil {
		return fmt.Errorf("persisting sent records: %w", err)
	}
	return nil
}

// Size returns the number of tracked URLs, loading the index if needed.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.load()
	return len(c.records)
}
