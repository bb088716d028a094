// Package assets fetches scene assets from a directory or an HTTP base
// URL, reports download progress and caches what it has loaded.
package assets

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/vrtherapy/internal/logger"
)

// ErrNotFound is returned when a source has no asset with the given name.
var ErrNotFound = errors.New("asset not found")

// Result is delivered once per Load.
type Result struct {
	Name string
	Data []byte
	Err  error
}

// Manager loads assets from a source and caches them.
type Manager struct {
	source Source
	cache  *Cache
	log    *zap.Logger
}

// NewManager creates a manager reading from source.
func NewManager(source Source) *Manager {
	return &Manager{
		source: source,
		cache:  NewCache(),
		log:    logger.Named("assets"),
	}
}

// Source returns the underlying source.
func (m *Manager) Source() Source {
	return m.source
}

// Cache returns the manager's cache.
func (m *Manager) Cache() *Cache {
	return m.cache
}

// LoadSync fetches name, reporting progress to onProgress (which may be
// nil). Cached assets are returned without touching the source.
func (m *Manager) LoadSync(ctx context.Context, name string, onProgress func(Progress)) ([]byte, error) {
	if data, ok := m.cache.Get(name); ok {
		if onProgress != nil {
			n := int64(len(data))
			onProgress(Progress{Loaded: n, Total: n})
		}
		return data, nil
	}

	data, err := fetch(ctx, m.source, name, onProgress)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	m.cache.Set(name, data)
	m.log.Debug("asset loaded", zap.String("name", name), zap.Int("bytes", len(data)))
	return data, nil
}

// Load fetches name on a goroutine. The returned channel receives exactly
// one Result and is then closed. onProgress is called from that goroutine.
func (m *Manager) Load(ctx context.Context, name string, onProgress func(Progress)) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		data, err := m.LoadSync(ctx, name, onProgress)
		if err != nil {
			m.log.Error("asset load failed", zap.String("name", name), zap.Error(err))
		}
		out <- Result{Name: name, Data: data, Err: err}
	}()
	return out
}

// Close drops cached data and releases the source.
func (m *Manager) Close() error {
	m.cache.Clear()
	return m.source.Close()
}

// Cache is a simple in-memory cache for loaded assets.
type Cache struct {
	data map[string][]byte
	mu   sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Len returns the number of cached assets.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
