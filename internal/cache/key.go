package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// KeyForRequest derives a cache key from the HTTP method, the full URL and a
// credential fingerprint, so responses fetched under one token are never
// served to another.
func KeyForRequest(method, url, token string) string {
	h := sha256.New()
	h.Write([]byte(strings.ToUpper(strings.TrimSpace(method))))
	h.Write([]byte{0})
	h.Write([]byte(strings.TrimSpace(url)))
	h.Write([]byte{0})
	tokenSum := sha256.Sum256([]byte(token))
	h.Write(tokenSum[:])
	return hex.EncodeToString(h.Sum(nil))
}
