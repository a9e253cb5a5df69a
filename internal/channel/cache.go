package channel

import (
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/thebtf/beacon/pkg/models"
)

// cacheFile is the YAML structure persisted to disk.
type cacheFile struct {
	Channels []models.ChannelMapping `yaml:"channels"`
}

// Cache holds channel mappings keyed by channel key, persisted to a
// YAML file so fresh hook processes skip re-provisioning. It is owned
// by the Router instance, never a package-level singleton.
type Cache struct {
	path    string
	mu      sync.Mutex
	entries map[string]models.ChannelMapping
}

// NewCache creates an empty cache. An empty path keeps the cache
// in-memory only.
func NewCache(path string) *Cache {
	return &Cache{
		path:    path,
		entries: make(map[string]models.ChannelMapping),
	}
}

// LoadCache reads the cache at path. A missing file yields an empty
// cache, not an error.
func LoadCache(path string) (*Cache, error) {
	c := NewCache(path)

	data, err := os.ReadFile(path) // #nosec G304 -- path comes from configuration
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, err
	}

	var f cacheFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	for _, m := range f.Channels {
		c.entries[m.ChannelKey] = m
	}
	return c, nil
}

// Get returns the mapping for key, if cached.
func (c *Cache) Get(key string) (models.ChannelMapping, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.entries[key]
	return m, ok
}

// Put stores a mapping and persists the cache. The write is best-effort
// for callers: a persistence failure only costs a re-lookup next time.
func (c *Cache) Put(m models.ChannelMapping) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[m.ChannelKey] = m
	return c.save()
}

// Len returns the number of cached mappings.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// save writes the cache file. Caller holds the lock.
func (c *Cache) save() error {
	if c.path == "" {
		return nil
	}

	f := cacheFile{Channels: make([]models.ChannelMapping, 0, len(c.entries))}
	for _, m := range c.entries {
		f.Channels = append(f.Channels, m)
	}

	data, err := yaml.Marshal(&f)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0o600)
}
