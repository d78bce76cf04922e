package internal

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

const defaultMaxAge = 24 * time.Hour

type CacheEntry struct {
	Hash         string
	Result       Result
	CreatedAt    time.Time
	LastAccessed time.Time
}

// Cache keeps the result of rendering a formula file keyed by the file name
// and the md5 hash of its content. Entries are dropped when they get older
// than the max age or when one of the dependency files (the rules file)
// changes.
type Cache struct {
	entries          map[string]CacheEntry
	mutex            sync.RWMutex
	maxAge           time.Duration
	dependencyFiles  []string
	dependencyHashes map[string]string
}

func NewCache(dependencyFiles ...string) (*Cache, error) {
	cache := &Cache{
		entries:          make(map[string]CacheEntry),
		maxAge:           defaultMaxAge,
		dependencyFiles:  dependencyFiles,
		dependencyHashes: make(map[string]string, len(dependencyFiles)),
	}
	if err := cache.updateDependencyHashes(); err != nil {
		return nil, err
	}
	return cache, nil
}

func (c *Cache) Set(filename string, content []byte, result Result) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	c.entries[filename] = CacheEntry{
		Hash:         contentHash(content),
		Result:       result,
		CreatedAt:    now,
		LastAccessed: now,
	}
}

func (c *Cache) Get(filename string, content []byte) (Result, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.entries[filename]
	if !exists {
		return Result{}, false
	}

	if c.isEntryInvalid(entry, content) {
		delete(c.entries, filename)
		return Result{}, false
	}

	entry.LastAccessed = time.Now()
	c.entries[filename] = entry

	return entry.Result, true
}

func (c *Cache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.entries)
}

func (c *Cache) isEntryInvalid(entry CacheEntry, content []byte) bool {
	// too old
	if time.Since(entry.CreatedAt) > c.maxAge {
		return true
	}
	if entry.Hash != contentHash(content) {
		return true
	}
	return c.haveDependenciesChanged()
}

func (c *Cache) haveDependenciesChanged() bool {
	for _, file := range c.dependencyFiles {
		hash, err := getFileHash(file)
		if err != nil {
			return true
		}
		if hash != c.dependencyHashes[file] {
			return true
		}
	}
	return false
}

func (c *Cache) updateDependencyHashes() error {
	for _, file := range c.dependencyFiles {
		hash, err := getFileHash(file)
		if err != nil {
			return fmt.Errorf("failed to get hash for %s: %w", file, err)
		}
		c.dependencyHashes[file] = hash
	}
	return nil
}

func (c *Cache) SetMaxAge(duration time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.maxAge = duration
}

func (c *Cache) Invalidate(filename string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.entries, filename)
}

func (c *Cache) InvalidateAll() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[string]CacheEntry)
}

func contentHash(content []byte) string {
	sum := md5.Sum(content)
	return hex.EncodeToString(sum[:])
}

func getFileHash(filename string) (string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", fmt.Errorf("failed to calculate hash: %w", err)
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
