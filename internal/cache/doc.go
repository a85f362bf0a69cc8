// Package cache provides a file-based response cache with TTL expiration.
//
// The API client stores successful GET response bodies here so repeated
// browsing sessions do not refetch unchanged catalog data. Key features:
//   - One JSON file per entry under ~/.catalogview/cache/
//   - Configurable TTL via config file, CATALOGVIEW_CACHE_TTL_SECONDS, or --cache-ttl
//   - SHA-256 keys derived from the request URL and the caller's credentials
//   - Size cap enforced by evicting the oldest entries first
package cache
