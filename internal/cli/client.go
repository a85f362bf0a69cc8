package cli

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rshade/catalogview/internal/api"
	"github.com/rshade/catalogview/internal/cache"
	"github.com/rshade/catalogview/internal/config"
)

// newCatalogClient builds an API client from the layered global configuration.
func newCatalogClient() (*api.Client, error) {
	cfg := config.GetGlobalConfig()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	token, err := config.LoadToken()
	if err != nil {
		return nil, err
	}

	store, err := openResponseCache(cfg)
	if err != nil {
		logger.Warn().Err(err).Msg("response cache unavailable, continuing uncached")
	}

	client, err := api.NewClient(cfg.API.BaseURL,
		api.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.API.TimeoutSeconds) * time.Second}),
		api.WithToken(token),
		api.WithCache(store),
		api.WithLogger(logger),
		api.WithSkipVersionCheck(cfg.API.SkipVersionCheck),
	)
	if err != nil {
		return nil, fmt.Errorf("creating API client: %w", err)
	}
	return client, nil
}

// openResponseCache returns the store configured for API responses.
// A disabled cache yields a store that caches nothing.
func openResponseCache(cfg *config.Config) (*cache.FileStore, error) {
	dir, err := cfg.CacheDirectory()
	if err != nil {
		return nil, err
	}
	return cache.NewFileStore(dir, cfg.Cache.Enabled, cfg.Cache.TTLSeconds, cfg.Cache.MaxSizeMB)
}

// openCacheForMaintenance opens the cache directory even when response
// caching is switched off, so leftovers can still be inspected or removed.
func openCacheForMaintenance(cfg *config.Config) (*cache.FileStore, error) {
	dir, err := cfg.CacheDirectory()
	if err != nil {
		return nil, err
	}
	ttl := cfg.Cache.TTLSeconds
	if ttl <= 0 {
		ttl = config.DefaultCacheTTLSeconds
	}
	return cache.NewFileStore(dir, true, ttl, cfg.Cache.MaxSizeMB)
}
