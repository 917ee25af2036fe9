package speech

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"

	"github.com/hammamikhairi/chefai/internal/logger"
)

// DefaultCacheEntries bounds the in-memory layer of the audio cache.
const DefaultCacheEntries = 256

// AudioCache keeps synthesized audio so replaying a recipe, or pausing and
// restarting it, does not hit the synthesizer again. Keys are
// sha256(voice + ":" + text). Memory holds up to max entries (oldest
// evicted first); an optional directory persists entries across runs.
type AudioCache struct {
	mu       sync.Mutex
	entries  map[string][]byte
	order    []string // insertion order for eviction
	max      int
	cacheDir string
	log      *logger.Logger
	hits     int64
	misses   int64
}

// NewAudioCache creates a cache. An empty dir disables the disk layer.
func NewAudioCache(dir string, maxEntries int, log *logger.Logger) *AudioCache {
	if maxEntries <= 0 {
		maxEntries = DefaultCacheEntries
	}
	log = log.Named("cache")
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Error("failed to create cache dir %s: %v", dir, err)
			dir = ""
		}
	}
	return &AudioCache{
		entries:  make(map[string][]byte),
		max:      maxEntries,
		cacheDir: dir,
		log:      log,
	}
}

// Get returns cached audio for text spoken with voice.
func (c *AudioCache) Get(voice, text string) ([]byte, bool) {
	key := cacheKey(voice, text)

	c.mu.Lock()
	data, ok := c.entries[key]
	if ok {
		c.hits++
	}
	c.mu.Unlock()
	if ok {
		c.log.Debug("hit (mem): %s", truncateForLog(text, 40))
		return data, true
	}

	if c.cacheDir != "" {
		if data, err := os.ReadFile(c.diskPath(key)); err == nil {
			c.mu.Lock()
			c.storeLocked(key, data)
			c.hits++
			c.mu.Unlock()
			c.log.Debug("hit (disk): %s", truncateForLog(text, 40))
			return data, true
		}
	}

	c.mu.Lock()
	c.misses++
	c.mu.Unlock()
	return nil, false
}

// Put stores audio in memory and, when enabled, on disk.
func (c *AudioCache) Put(voice, text string, audio []byte) {
	key := cacheKey(voice, text)

	c.mu.Lock()
	c.storeLocked(key, audio)
	c.mu.Unlock()

	if c.cacheDir != "" {
		if err := os.WriteFile(c.diskPath(key), audio, 0o644); err != nil {
			c.log.Warn("disk write failed for %s: %v", key[:12], err)
		}
	}
}

// Len returns the number of in-memory entries.
func (c *AudioCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns hit and miss counts.
func (c *AudioCache) Stats() (hits, misses int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

func (c *AudioCache) storeLocked(key string, audio []byte) {
	if _, ok := c.entries[key]; !ok {
		c.order = append(c.order, key)
	}
	c.entries[key] = audio
	for len(c.order) > c.max {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

func (c *AudioCache) diskPath(key string) string {
	return filepath.Join(c.cacheDir, key+".wav")
}

func cacheKey(voice, text string) string {
	h := sha256.Sum256([]byte(voice + ":" + text))
	return hex.EncodeToString(h[:])
}

func truncateForLog(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
