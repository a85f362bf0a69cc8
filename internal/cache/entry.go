package cache

import (
	"encoding/json"
	"time"
)

// Entry is one stored response body. Timestamps keep full precision on disk
// so callers can compare CreatedAt against a refresh instant.
type Entry struct {
	Key        string          `json:"key"`
	Data       json.RawMessage `json:"data"`
	CreatedAt  time.Time       `json:"created_at"`
	ExpiresAt  time.Time       `json:"expires_at"`
	TTLSeconds int             `json:"ttl_seconds"`
}

// NewEntry stamps data with the current time and an expiry ttlSeconds later.
func NewEntry(key string, data json.RawMessage, ttlSeconds int) *Entry {
	now := time.Now()
	return &Entry{
		Key:        key,
		Data:       data,
		CreatedAt:  now,
		ExpiresAt:  now.Add(time.Duration(ttlSeconds) * time.Second),
		TTLSeconds: ttlSeconds,
	}
}

// IsExpired reports whether the store should stop serving e.
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.ExpiresAt)
}

// Age is how long ago e was stored.
func (e *Entry) Age() time.Duration {
	return time.Since(e.CreatedAt)
}
