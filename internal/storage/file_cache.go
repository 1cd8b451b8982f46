// internal/storage/file_cache.go
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// ParseFunc decodes a file body into its in-memory form.
type ParseFunc func(data []byte) (interface{}, error)

// FileCacheService keeps parsed file contents in memory and re-reads a file
// only when its modification time or size changes, or the entry expires.
type FileCacheService struct {
	cache      map[string]*FileCacheEntry
	mutex      sync.RWMutex
	maxSize    int
	expiration time.Duration
	now        func() time.Time
}

// FileCacheEntry is one parsed file.
type FileCacheEntry struct {
	Data      interface{}
	CreatedAt time.Time
	LastRead  time.Time
	ModTime   time.Time
	Size      int64
}

// NewFileCacheService creates a cache holding at most maxSize files.
func NewFileCacheService(maxSize int, expiration time.Duration) *FileCacheService {
	if maxSize <= 0 {
		maxSize = 64
	}
	if expiration <= 0 {
		expiration = 5 * time.Minute
	}

	return &FileCacheService{
		cache:      make(map[string]*FileCacheEntry),
		maxSize:    maxSize,
		expiration: expiration,
		now:        time.Now,
	}
}

// ReadFile returns the parsed contents of path. fresh reports whether the
// file was (re)read from disk rather than served from cache.
func (s *FileCacheService) ReadFile(path string, parse ParseFunc) (data interface{}, fresh bool, err error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, false, fmt.Errorf("resolve %s: %w", path, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, false, fmt.Errorf("stat %s: %w", path, err)
	}

	s.mutex.Lock()
	entry, exists := s.cache[absPath]
	if exists && s.valid(entry, info) {
		entry.LastRead = s.now()
		s.mutex.Unlock()
		return entry.Data, false, nil
	}
	s.mutex.Unlock()

	raw, err := os.ReadFile(absPath)
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", path, err)
	}
	parsed, err := parse(raw)
	if err != nil {
		return nil, false, err
	}

	now := s.now()
	s.mutex.Lock()
	s.cache[absPath] = &FileCacheEntry{
		Data:      parsed,
		CreatedAt: now,
		LastRead:  now,
		ModTime:   info.ModTime(),
		Size:      info.Size(),
	}
	if len(s.cache) > s.maxSize {
		s.cleanupLRU(max(1, s.maxSize/5))
	}
	s.mutex.Unlock()

	return parsed, true, nil
}

func (s *FileCacheService) valid(entry *FileCacheEntry, info os.FileInfo) bool {
	modified := info.ModTime().After(entry.ModTime) || info.Size() != entry.Size
	expired := s.now().Sub(entry.CreatedAt) > s.expiration
	return !modified && !expired
}

// ClearCache drops every entry.
func (s *FileCacheService) ClearCache() {
	s.mutex.Lock()
	s.cache = make(map[string]*FileCacheEntry)
	s.mutex.Unlock()
}

// Len returns the number of cached files.
func (s *FileCacheService) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.cache)
}

// cleanupLRU drops the count least recently read entries. Caller holds the lock.
func (s *FileCacheService) cleanupLRU(count int) {
	type keyAge struct {
		key  string
		time time.Time
	}

	entries := make([]keyAge, 0, len(s.cache))
	for k, v := range s.cache {
		entries = append(entries, keyAge{k, v.LastRead})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].time.Before(entries[j].time)
	})

	for i := 0; i < min(count, len(entries)); i++ {
		delete(s.cache, entries[i].key)
	}
}
