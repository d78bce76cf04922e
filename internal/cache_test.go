package internal

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tt "github.com/mathlingua/mlg/internal/types"
)

func TestCache(t *testing.T) {
	t.Parallel()
	cache, err := NewCache()
	require.NoError(t, err)

	content := []byte(`X \set.in/ Y`)
	result := Result{
		Rendered: []tt.Rendered{{File: "test.mlgf", Line: 1, Source: `X \set.in/ Y`, Output: `X \in Y`}},
	}

	t.Run("SetAndGet", func(t *testing.T) {
		cache.Set("test.mlgf", content, result)
		loaded, found := cache.Get("test.mlgf", content)
		assert.True(t, found)
		assert.Equal(t, result, loaded)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, found := cache.Get("nonexistent.mlgf", content)
		assert.False(t, found)
	})

	t.Run("ContentModified", func(t *testing.T) {
		cache.Set("modified.mlgf", content, result)
		_, found := cache.Get("modified.mlgf", []byte(`X \set.in/ Z`))
		assert.False(t, found)

		// the stale entry is dropped
		_, found = cache.Get("modified.mlgf", content)
		assert.False(t, found)
	})
}

func TestCacheExpiration(t *testing.T) {
	t.Parallel()
	cache, err := NewCache()
	require.NoError(t, err)
	cache.SetMaxAge(time.Millisecond)

	cache.Set("old.mlgf", nil, Result{})
	time.Sleep(10 * time.Millisecond)

	_, found := cache.Get("old.mlgf", nil)
	assert.False(t, found)
}

func TestCacheInvalidate(t *testing.T) {
	t.Parallel()
	cache, err := NewCache()
	require.NoError(t, err)

	cache.Set("a.mlgf", nil, Result{})
	cache.Set("b.mlgf", nil, Result{})
	assert.Equal(t, 2, cache.Len())

	cache.Invalidate("a.mlgf")
	assert.Equal(t, 1, cache.Len())

	cache.InvalidateAll()
	assert.Equal(t, 0, cache.Len())
}

func TestCacheDependencyChanged(t *testing.T) {
	t.Parallel()
	tempDir := createTempDir(t, "cache-dependency-test")
	rules := filepath.Join(tempDir, ".mlg.yaml")
	require.NoError(t, os.WriteFile(rules, []byte("rules: []\n"), 0o644))

	cache, err := NewCache(rules)
	require.NoError(t, err)

	cache.Set("a.mlgf", nil, Result{})
	_, found := cache.Get("a.mlgf", nil)
	assert.True(t, found)

	require.NoError(t, os.WriteFile(rules, []byte("name: changed\nrules: []\n"), 0o644))
	_, found = cache.Get("a.mlgf", nil)
	assert.False(t, found)
}

func TestCacheWithEngine(t *testing.T) {
	t.Parallel()
	tempDir := createTempDir(t, "cache-engine-test")
	engine := newTestEngine(t, Options{})

	filename := filepath.Join(tempDir, "test.mlgf")
	require.NoError(t, os.WriteFile(filename, []byte(`\function(a, b)`), 0o644))

	issues, err := engine.Run(filename)
	require.NoError(t, err)
	assert.NotEmpty(t, issues.Issues)
	assert.Equal(t, 1, engine.cache.Len())

	cached, err := engine.Run(filename)
	require.NoError(t, err)
	assert.Equal(t, issues, cached)

	require.NoError(t, os.WriteFile(filename, []byte(`\function(a)`), 0o644))
	fresh, err := engine.Run(filename)
	require.NoError(t, err)
	assert.Empty(t, fresh.Issues)
	assert.Equal(t, "f(a)", fresh.Rendered[0].Output)
}

func TestCacheConcurrency(t *testing.T) {
	t.Parallel()
	cache, err := NewCache()
	require.NoError(t, err)

	content := []byte("a + b")
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			cache.Set("test.mlgf", content, Result{})
		}()
		go func() {
			defer wg.Done()
			_, _ = cache.Get("test.mlgf", content)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, cache.Len())
}
