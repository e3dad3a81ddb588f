package mcpserver

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/erraggy/apicontract/internal/options"
	"github.com/erraggy/apicontract/loader"
)

// contractsInput represents the ways contract declarations can be provided
// to a tool. Exactly one of File, Dir, or Content must be set.
type contractsInput struct {
	File    string   `json:"file,omitempty"    jsonschema:"Path to a contract declaration file on disk (YAML or JSON)"`
	Dir     string   `json:"dir,omitempty"     jsonschema:"Directory whose .yaml, .yml and .json files are all loaded"`
	Content string   `json:"content,omitempty" jsonschema:"Inline contract declarations (YAML or JSON)"`
	Names   []string `json:"names,omitempty"   jsonschema:"Load only the named contracts"`
}

// cacheEntry holds loaded entries with LRU ordering and TTL expiry.
type cacheEntry struct {
	entries   []loader.Entry
	insertAt  time.Time
	expiresAt time.Time
}

// entryCacheStore is a session-scoped cache of loaded declarations.
// File inputs are keyed by (absolutePath, modTime) and content inputs by a
// SHA-256 hash. Directory inputs are never cached.
type entryCacheStore struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	maxSize int
}

var entryCache = &entryCacheStore{
	entries: make(map[string]*cacheEntry),
	maxSize: cfg.CacheMaxSize,
}

// get returns cached entries or nil. Expired entries are lazily removed.
func (c *entryCacheStore) get(key string) []loader.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil
	}
	if time.Now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil
	}
	e.insertAt = time.Now()
	return e.entries
}

// put stores entries, evicting the least recently used one if at capacity.
func (c *entryCacheStore) put(key string, entries []loader.Entry, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	entry := &cacheEntry{entries: entries, insertAt: now, expiresAt: now.Add(ttl)}

	if _, ok := c.entries[key]; ok {
		c.entries[key] = entry
		return
	}

	if len(c.entries) >= c.maxSize {
		var oldestKey string
		var oldestTime time.Time
		for k, e := range c.entries {
			if oldestKey == "" || e.insertAt.Before(oldestTime) {
				oldestKey = k
				oldestTime = e.insertAt
			}
		}
		if oldestKey != "" {
			delete(c.entries, oldestKey)
		}
	}

	c.entries[key] = entry
}

// reset clears all cached entries. Used in tests.
func (c *entryCacheStore) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

// size returns the number of cached entries.
func (c *entryCacheStore) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// cacheKey returns the cache key for s, or "" when s is not cacheable.
func (s contractsInput) cacheKey() string {
	names := strings.Join(s.Names, ",")
	switch {
	case s.File != "":
		absPath, err := filepath.Abs(s.File)
		if err != nil {
			return ""
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return ""
		}
		return fmt.Sprintf("file:%s:%d:%s", absPath, info.ModTime().UnixNano(), names)
	case s.Content != "":
		h := sha256.Sum256([]byte(s.Content))
		return fmt.Sprintf("content:%s:%s", hex.EncodeToString(h[:]), names)
	default:
		return ""
	}
}

// resolve loads the declarations from whichever input was provided.
func (s contractsInput) resolve() ([]loader.Entry, error) {
	if err := options.ValidateSingleInputSource(
		"exactly one of file, dir, or content must be provided (got none)",
		"exactly one of file, dir, or content must be provided (got several)",
		s.File != "", s.Dir != "", s.Content != "",
	); err != nil {
		return nil, err
	}

	if s.Content != "" && int64(len(s.Content)) > cfg.MaxInlineSize {
		return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set APICONTRACT_MAX_INLINE_SIZE to increase",
			len(s.Content), cfg.MaxInlineSize)
	}

	var key string
	if cfg.CacheEnabled {
		key = s.cacheKey()
	}
	if key != "" {
		if cached := entryCache.get(key); cached != nil {
			return cached, nil
		}
	}

	var opts []loader.Option
	switch {
	case s.File != "":
		opts = append(opts, loader.WithFilePath(s.File))
	case s.Dir != "":
		opts = append(opts, loader.WithDir(s.Dir))
	default:
		opts = append(opts, loader.WithBytes([]byte(s.Content)), loader.WithSourceName("content"))
	}
	if len(s.Names) > 0 {
		opts = append(opts, loader.WithNames(s.Names...))
	}

	entries, err := loader.Load(opts...)
	if err != nil {
		return nil, err
	}

	if key != "" {
		entryCache.put(key, entries, cfg.CacheTTL)
	}
	return entries, nil
}
