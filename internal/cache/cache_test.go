package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntry(t *testing.T) {
	data := json.RawMessage(`[{"productId":"P1"}]`)
	entry := NewEntry("k", data, 60)

	assert.Equal(t, "k", entry.Key)
	assert.False(t, entry.IsExpired())
	assert.Equal(t, 60*time.Second, entry.ExpiresAt.Sub(entry.CreatedAt))
	assert.LessOrEqual(t, entry.Age(), time.Second)

	t.Run("Expiration", func(t *testing.T) {
		e := NewEntry("k", data, 60)
		e.ExpiresAt = time.Now().Add(-time.Second)
		assert.True(t, e.IsExpired())
	})

	t.Run("JSON", func(t *testing.T) {
		encoded, err := json.Marshal(entry)
		require.NoError(t, err)

		var decoded Entry
		require.NoError(t, json.Unmarshal(encoded, &decoded))
		assert.Equal(t, entry.Key, decoded.Key)
		assert.JSONEq(t, string(data), string(decoded.Data))
		assert.True(t, entry.CreatedAt.Equal(decoded.CreatedAt), "sub-second precision survives")
		assert.True(t, entry.ExpiresAt.Equal(decoded.ExpiresAt))
	})

	t.Run("SecondPrecisionFiles", func(t *testing.T) {
		var decoded Entry
		raw := `{"key":"k","data":[],"created_at":"2024-05-01T10:00:00Z","expires_at":"2024-05-01T10:05:00Z","ttl_seconds":300}`
		require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
		assert.Equal(t, 5*time.Minute, decoded.ExpiresAt.Sub(decoded.CreatedAt))
	})
}

func TestKeyForRequest(t *testing.T) {
	k1 := KeyForRequest("get", "http://api/products?parentProductId=null", "tok")
	k2 := KeyForRequest(" GET", "http://api/products?parentProductId=null ", "tok")
	assert.Equal(t, k1, k2)
	assert.Len(t, k1, 64)

	assert.NotEqual(t, k1, KeyForRequest("GET", "http://api/products?parentProductId=P1", "tok"))
	assert.NotEqual(t, k1, KeyForRequest("GET", "http://api/products?parentProductId=null", "other"))
}

func TestFileStore(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), true, 60, 10)
	require.NoError(t, err)
	assert.True(t, store.IsEnabled())

	data := json.RawMessage(`{"hello":"world"}`)

	_, err = store.Get("missing")
	require.ErrorIs(t, err, ErrCacheNotFound)

	require.NoError(t, store.Set("key:with/odd\\chars", data))
	got, err := store.Get("key:with/odd\\chars")
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(got.Data))

	stats, err := store.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Entries)
	assert.Positive(t, stats.SizeBytes)

	require.NoError(t, store.Delete("key:with/odd\\chars"))
	require.NoError(t, store.Delete("key:with/odd\\chars"))
	_, err = store.Get("key:with/odd\\chars")
	require.ErrorIs(t, err, ErrCacheNotFound)

	require.ErrorIs(t, store.Set("", data), ErrInvalidCacheKey)
	_, err = store.Get("")
	require.ErrorIs(t, err, ErrInvalidCacheKey)
}

func TestFileStore_Expired(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, true, 60, 0)
	require.NoError(t, err)

	entry := NewEntry("old", json.RawMessage(`1`), 60)
	entry.CreatedAt = time.Now().Add(-2 * time.Hour)
	entry.ExpiresAt = time.Now().Add(-time.Hour)
	raw, err := json.Marshal(entry)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old.json"), raw, 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "junk.json"), []byte("{"), 0600))
	require.NoError(t, store.Set("fresh", json.RawMessage(`2`)))

	_, err = store.Get("old")
	require.ErrorIs(t, err, ErrCacheExpired)
	_, statErr := os.Stat(filepath.Join(dir, "old.json"))
	assert.True(t, os.IsNotExist(statErr))

	require.NoError(t, store.CleanupExpired())
	stats, err := store.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Entries)

	require.NoError(t, store.Clear())
	stats, err = store.Stats()
	require.NoError(t, err)
	assert.Zero(t, stats.Entries)
}

func TestFileStore_MaxSizeEvictsOldest(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, true, 60, 1)
	require.NoError(t, err)

	big := json.RawMessage(`"` + strings.Repeat("x", 400*1024) + `"`)
	require.NoError(t, store.Set("a", big))
	// Ensure distinct modification times.
	old := time.Now().Add(-time.Minute)
	require.NoError(t, os.Chtimes(store.keyToFilePath("a"), old, old))
	require.NoError(t, store.Set("b", big))
	require.NoError(t, os.Chtimes(store.keyToFilePath("b"), old.Add(time.Second), old.Add(time.Second)))
	require.NoError(t, store.Set("c", big))

	_, err = store.Get("a")
	require.ErrorIs(t, err, ErrCacheNotFound)
	_, err = store.Get("c")
	require.NoError(t, err)

	stats, err := store.Stats()
	require.NoError(t, err)
	assert.LessOrEqual(t, stats.SizeBytes, int64(bytesPerMB))
}

func TestFileStore_Disabled(t *testing.T) {
	for _, tc := range []struct {
		name    string
		enabled bool
		ttl     int
	}{
		{"disabled flag", false, 60},
		{"zero ttl", true, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			store, err := NewFileStore(t.TempDir(), tc.enabled, tc.ttl, 0)
			require.NoError(t, err)
			assert.False(t, store.IsEnabled())
			require.ErrorIs(t, store.Set("k", json.RawMessage(`1`)), ErrCacheDisabled)
			_, err = store.Get("k")
			require.ErrorIs(t, err, ErrCacheDisabled)
			require.ErrorIs(t, store.Clear(), ErrCacheDisabled)
		})
	}

	_, err := NewFileStore("", true, 60, 0)
	require.Error(t, err)
}

func TestParseTTL(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"300", 300, false},
		{"0", 0, false},
		{"5m", 300, false},
		{"1h30m", 5400, false},
		{"-1", 0, true},
		{"999999999", 0, true},
		{"soon", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTTL(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45s", FormatDuration(45*time.Second))
	assert.Equal(t, "30m", FormatDuration(30*time.Minute))
	assert.Equal(t, "1h", FormatDuration(time.Hour))
	assert.Equal(t, "1h30m", FormatDuration(90*time.Minute))
	assert.Equal(t, "2d", FormatDuration(48*time.Hour))
	assert.Equal(t, "2d3h", FormatDuration(51*time.Hour))
}
