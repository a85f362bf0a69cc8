package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// cacheFileExtension is the file extension used for cache entries.
const cacheFileExtension = ".json"

const bytesPerMB = 1024 * 1024

// Common cache errors.
var (
	ErrCacheNotFound   = errors.New("cache entry not found")
	ErrCacheExpired    = errors.New("cache entry expired")
	ErrInvalidCacheKey = errors.New("cache key cannot be empty")
	ErrCacheDisabled   = errors.New("cache is disabled")
)

// FileStore stores cache entries as JSON files in a directory.
// Safe for concurrent use; the API client writes from fetch goroutines.
type FileStore struct {
	directory  string
	enabled    bool
	ttlSeconds int
	maxSizeMB  int

	mu sync.RWMutex
}

// NewFileStore creates a file store rooted at directory, creating it if needed.
// A store with enabled=false, or with a zero TTL, accepts calls and caches nothing.
func NewFileStore(directory string, enabled bool, ttlSeconds, maxSizeMB int) (*FileStore, error) {
	if !enabled || ttlSeconds <= 0 {
		return &FileStore{enabled: false}, nil
	}

	if directory == "" {
		return nil, errors.New("cache directory cannot be empty")
	}

	if err := os.MkdirAll(directory, 0750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &FileStore{
		directory:  directory,
		enabled:    true,
		ttlSeconds: ttlSeconds,
		maxSizeMB:  maxSizeMB,
	}, nil
}

// Get retrieves a live entry by key.
// Returns ErrCacheNotFound if the entry doesn't exist and ErrCacheExpired
// if it has expired (the expired file is removed).
func (s *FileStore) Get(key string) (*Entry, error) {
	if !s.enabled {
		return nil, ErrCacheDisabled
	}
	if key == "" {
		return nil, ErrInvalidCacheKey
	}

	s.mu.RLock()
	filePath := s.keyToFilePath(key)
	data, err := os.ReadFile(filePath)
	s.mu.RUnlock()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCacheNotFound
		}
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	var entry Entry
	if unmarshalErr := json.Unmarshal(data, &entry); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal cache entry: %w", unmarshalErr)
	}

	if entry.IsExpired() {
		s.mu.Lock()
		_ = os.Remove(filePath)
		s.mu.Unlock()
		return nil, ErrCacheExpired
	}

	return &entry, nil
}

// Set stores data under key, overwriting any existing entry, then enforces
// the size cap.
func (s *FileStore) Set(key string, data json.RawMessage) error {
	if !s.enabled {
		return ErrCacheDisabled
	}
	if key == "" {
		return ErrInvalidCacheKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := NewEntry(key, data, s.ttlSeconds)
	entryData, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	filePath := s.keyToFilePath(key)

	// Write to a temporary file first, then rename for atomicity.
	tempPath := filePath + ".tmp"
	if writeErr := os.WriteFile(tempPath, entryData, 0600); writeErr != nil {
		return fmt.Errorf("failed to write cache file: %w", writeErr)
	}
	if renameErr := os.Rename(tempPath, filePath); renameErr != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename cache file: %w", renameErr)
	}

	return s.enforceMaxSizeLocked()
}

// Delete removes an entry. Deleting a missing key is not an error.
func (s *FileStore) Delete(key string) error {
	if !s.enabled {
		return ErrCacheDisabled
	}
	if key == "" {
		return ErrInvalidCacheKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.keyToFilePath(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete cache file: %w", err)
	}
	return nil
}

// Clear removes every entry.
func (s *FileStore) Clear() error {
	if !s.enabled {
		return ErrCacheDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.listLocked()
	if err != nil {
		return err
	}
	for _, f := range files {
		if removeErr := os.Remove(f.path); removeErr != nil && !os.IsNotExist(removeErr) {
			return fmt.Errorf("failed to remove cache file %s: %w", filepath.Base(f.path), removeErr)
		}
	}
	return nil
}

// CleanupExpired removes expired and unreadable entries.
func (s *FileStore) CleanupExpired() error {
	if !s.enabled {
		return ErrCacheDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.listLocked()
	if err != nil {
		return err
	}
	for _, f := range files {
		data, readErr := os.ReadFile(f.path)
		if readErr != nil {
			continue
		}
		var entry Entry
		if unmarshalErr := json.Unmarshal(data, &entry); unmarshalErr != nil || entry.IsExpired() {
			_ = os.Remove(f.path)
		}
	}
	return nil
}

// Stats describes the store's current footprint.
type Stats struct {
	Directory  string
	Entries    int
	SizeBytes  int64
	TTLSeconds int
	MaxSizeMB  int
}

// Stats reports entry count and total size.
func (s *FileStore) Stats() (Stats, error) {
	if !s.enabled {
		return Stats{}, ErrCacheDisabled
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	files, err := s.listLocked()
	if err != nil {
		return Stats{}, err
	}
	st := Stats{Directory: s.directory, Entries: len(files), TTLSeconds: s.ttlSeconds, MaxSizeMB: s.maxSizeMB}
	for _, f := range files {
		st.SizeBytes += f.size
	}
	return st, nil
}

// IsEnabled returns true if caching is enabled.
func (s *FileStore) IsEnabled() bool {
	return s.enabled
}

// Directory returns the cache directory path.
func (s *FileStore) Directory() string {
	return s.directory
}

type cacheFile struct {
	path    string
	size    int64
	modUnix int64
}

func (s *FileStore) listLocked() ([]cacheFile, error) {
	dirEntries, err := os.ReadDir(s.directory)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache directory: %w", err)
	}

	files := make([]cacheFile, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() || filepath.Ext(de.Name()) != cacheFileExtension {
			continue
		}
		info, infoErr := de.Info()
		if infoErr != nil {
			continue
		}
		files = append(files, cacheFile{
			path:    filepath.Join(s.directory, de.Name()),
			size:    info.Size(),
			modUnix: info.ModTime().UnixNano(),
		})
	}
	return files, nil
}

// enforceMaxSizeLocked evicts the oldest entries until the store fits in maxSizeMB.
// A zero cap means unlimited.
func (s *FileStore) enforceMaxSizeLocked() error {
	if s.maxSizeMB <= 0 {
		return nil
	}
	limit := int64(s.maxSizeMB) * bytesPerMB

	files, err := s.listLocked()
	if err != nil {
		return err
	}
	var total int64
	for _, f := range files {
		total += f.size
	}
	if total <= limit {
		return nil
	}

	sort.Slice(files, func(i, j int) bool { return files[i].modUnix < files[j].modUnix })
	for _, f := range files {
		if total <= limit {
			break
		}
		if removeErr := os.Remove(f.path); removeErr == nil {
			total -= f.size
		}
	}
	return nil
}

// keyToFilePath converts a cache key to a filesystem-safe file path.
func (s *FileStore) keyToFilePath(key string) string {
	safeKey := strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(key)
	return filepath.Join(s.directory, safeKey+cacheFileExtension)
}
