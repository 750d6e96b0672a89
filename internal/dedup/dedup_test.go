package dedup

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-internship-automation/internal/models"
)

func TestSeenCache_Unseen(t *testing.T) {
	c := NewSeenCache(t.TempDir(), nil)
	require.NoError(t, c.Add("https://a"))

	got := c.Unseen([]models.Listing{
		{Title: "seen", DetailURL: "https://a"},
		{Title: "new", DetailURL: "https://b"},
		{Title: "repeat", DetailURL: "https://b"},
		{Title: "no url"},
	})

	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].Title)
}

func TestSeenCache_Persistence(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	first := newSeenCache(dir, nil, func() time.Time { return now })
	require.NoError(t, first.Add("https://a", "https://b"))
	require.NoError(t, first.Add("https://a"))

	second := newSeenCache(dir, nil, func() time.Time { return now.Add(24 * time.Hour) })
	assert.True(t, second.IsSeen("https://a"))
	assert.True(t, second.IsSeen("https://b"))
	assert.Equal(t, 2, second.Len())
}

func TestSeenCache_ExpiresOldEntries(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	entries := []seenEntry{
		{URL: "https://fresh", Timestamp: now.Add(-29 * 24 * time.Hour).UnixMilli()},
		{URL: "https://stale", Timestamp: now.Add(-31 * 24 * time.Hour).UnixMilli()},
	}
	data, err := json.Marshal(entries)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, fileName), data, 0o644))

	c := newSeenCache(dir, nil, func() time.Time { return now })
	assert.True(t, c.IsSeen("https://fresh"))
	assert.False(t, c.IsSeen("https://stale"))
}

func TestSeenCache_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, fileName), []byte("{oops"), 0o644))

	c := NewSeenCache(dir, nil)
	assert.Equal(t, 0, c.Len())
}
