package client

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreExpiry(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	s := NewMemoryStore()
	s.now = func() time.Time { return now }

	s.SetTokens("acc", "ref")
	assert.Equal(t, "acc", s.AccessToken())
	assert.Equal(t, "ref", s.RefreshToken())

	now = now.Add(DefaultAccessTTL)
	assert.Empty(t, s.AccessToken())
	assert.Equal(t, "ref", s.RefreshToken())

	now = now.Add(DefaultRefreshTTL)
	assert.Empty(t, s.RefreshToken())
}

func TestMemoryStoreClear(t *testing.T) {
	s := NewMemoryStore()
	s.SetTokens("acc", "ref")
	s.SetAccessToken("acc-2")
	assert.Equal(t, "acc-2", s.AccessToken())

	s.Clear()
	assert.Empty(t, s.AccessToken())
	assert.Empty(t, s.RefreshToken())
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "athlos", "session.json")

	s, err := NewFileStore(path)
	require.NoError(t, err)
	assert.Empty(t, s.AccessToken())

	s.SetTokens("acc", "ref")
	s.SetAccessToken("acc-2")

	loaded, err := NewFileStore(path)
	require.NoError(t, err)
	assert.Equal(t, "acc-2", loaded.AccessToken())
	assert.Equal(t, "ref", loaded.RefreshToken())

	loaded.Clear()
	again, err := NewFileStore(path)
	require.NoError(t, err)
	assert.Empty(t, again.RefreshToken())
}
