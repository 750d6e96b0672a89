// Package dedup remembers which listings the digest has already sent.
package dedup

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go-internship-automation/internal/logging"
	"go-internship-automation/internal/models"
)

// Window is how long a listing stays "seen".
const Window = 30 * 24 * time.Hour

const fileName = "seen_listings.json"

type seenEntry struct {
	URL       string `json:"url"`
	Timestamp int64  `json:"timestamp"`
}

type SeenCache struct {
	mu       sync.Mutex
	filePath string
	seen     map[string]int64
	log      *logging.Logger
	now      func() time.Time
}

// NewSeenCache creates or loads the cache in cacheDir. Entries older than
// Window are dropped on load.
func NewSeenCache(cacheDir string, log *logging.Logger) *SeenCache {
	return newSeenCache(cacheDir, log, time.Now)
}

func newSeenCache(cacheDir string, log *logging.Logger, now func() time.Time) *SeenCache {
	if log == nil {
		log = logging.Nop()
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		log.Warn("⚠️ Failed to create cache directory", "dir", cacheDir, "error", err)
	}
	c := &SeenCache{
		filePath: filepath.Join(cacheDir, fileName),
		seen:     make(map[string]int64),
		log:      log,
		now:      now,
	}
	c.load()
	return c
}

// IsSeen checks if a URL has already been sent.
func (c *SeenCache) IsSeen(url string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, exists := c.seen[url]
	return exists
}

// Unseen returns the listings not sent before, dropping repeats within the
// batch as well.
func (c *SeenCache) Unseen(listings []models.Listing) []models.Listing {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.Listing, 0, len(listings))
	batch := make(map[string]struct{}, len(listings))
	for _, l := range listings {
		if l.DetailURL == "" {
			continue
		}
		if _, ok := c.seen[l.DetailURL]; ok {
			continue
		}
		if _, ok := batch[l.DetailURL]; ok {
			continue
		}
		batch[l.DetailURL] = struct{}{}
		out = append(out, l)
	}
	return out
}

// Add marks urls as seen and persists the cache if anything changed.
func (c *SeenCache) Add(urls ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now().UnixMilli()
	changed := false
	for _, url := range urls {
		if _, exists := c.seen[url]; !exists {
			c.seen[url] = now
			changed = true
		}
	}

	if !changed {
		return nil
	}
	return c.save()
}

func (c *SeenCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seen)
}

func (c *SeenCache) load() {
	data, err := os.ReadFile(c.filePath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			c.log.Warn("⚠️ Failed to read seen listings", "path", c.filePath, "error", err)
		}
		return
	}

	var entries []seenEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		c.log.Warn("⚠️ Failed to parse seen listings", "path", c.filePath, "error", err)
		return
	}

	cutoff := c.now().Add(-Window).UnixMilli()
	loaded := 0
	for _, e := range entries {
		if e.Timestamp > cutoff {
			c.seen[e.URL] = e.Timestamp
			loaded++
		}
	}
	c.log.Info("📋 Loaded seen listings", "loaded", loaded, "expired", len(entries)-loaded)
}

func (c *SeenCache) save() error {
	entries := make([]seenEntry, 0, len(c.seen))
	for url, ts := range c.seen {
		entries = append(entries, seenEntry{URL: url, Timestamp: ts})
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.filePath, data, 0o644); err != nil {
		return err
	}
	c.log.Debug("💾 Saved seen listings", "count", len(entries))
	return nil
}
