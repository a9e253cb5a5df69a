package channel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thebtf/beacon/pkg/models"
)

func TestLoadCacheMissingFile(t *testing.T) {
	c, err := LoadCache(filepath.Join(t.TempDir(), "channels.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestLoadCacheCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channels.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\tnot yaml"), 0o600))

	_, err := LoadCache(path)
	assert.Error(t, err)
}

func TestCachePutGetRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channels.yaml")
	c := NewCache(path)

	m := models.ChannelMapping{
		ChannelKey:    "claude-beacon-u123",
		ChannelHandle: "C042",
		Created:       true,
	}
	require.NoError(t, c.Put(m))

	got, ok := c.Get("claude-beacon-u123")
	require.True(t, ok)
	assert.Equal(t, m, got)

	// A fresh load from disk sees the same mapping.
	reloaded, err := LoadCache(path)
	require.NoError(t, err)
	got, ok = reloaded.Get("claude-beacon-u123")
	require.True(t, ok)
	assert.Equal(t, m, got)
}

func TestCacheGetMiss(t *testing.T) {
	c := NewCache("")
	_, ok := c.Get("nope")
	assert.False(t, ok)
}

func TestCacheInMemoryOnly(t *testing.T) {
	c := NewCache("")
	require.NoError(t, c.Put(models.ChannelMapping{ChannelKey: "k", ChannelHandle: "C1", Created: true}))

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "C1", got.ChannelHandle)
}

func TestCacheCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "channels.yaml")
	c := NewCache(path)
	require.NoError(t, c.Put(models.ChannelMapping{ChannelKey: "k", ChannelHandle: "C1", Created: true}))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}
