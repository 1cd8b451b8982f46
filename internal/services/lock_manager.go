// internal/services/lock_manager.go
package services

import (
	"sync"
	"time"
)

// LockManager hands out one mutex per key. The manifest cache uses it so
// concurrent requests for the same dimension fingerprint build the catalog
// once while different fingerprints build in parallel.
type LockManager struct {
	locks   map[string]*LockInfo
	mu      sync.Mutex
	lockTTL time.Duration
	stop    chan struct{}
	once    sync.Once
}

// LockInfo wraps a key's mutex with usage bookkeeping.
type LockInfo struct {
	Mutex    *sync.Mutex
	LastUsed time.Time
	refs     int // holders and waiters; a referenced lock is never reclaimed
}

// NewLockManager creates a manager whose idle locks are reclaimed after ttl.
func NewLockManager(ttl time.Duration) *LockManager {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	lm := &LockManager{
		locks:   make(map[string]*LockInfo),
		lockTTL: ttl,
		stop:    make(chan struct{}),
	}
	lm.startCleanup()
	return lm
}

func (lm *LockManager) acquire(key string) *LockInfo {
	lm.mu.Lock()
	info, exists := lm.locks[key]
	if !exists {
		info = &LockInfo{Mutex: &sync.Mutex{}}
		lm.locks[key] = info
	}
	info.refs++
	info.LastUsed = time.Now()
	lm.mu.Unlock()

	info.Mutex.Lock()
	return info
}

func (lm *LockManager) release(info *LockInfo) {
	info.Mutex.Unlock()

	lm.mu.Lock()
	info.refs--
	info.LastUsed = time.Now()
	lm.mu.Unlock()
}

// ExecuteWithLock runs fn while holding key's lock.
func (lm *LockManager) ExecuteWithLock(key string, fn func() error) error {
	info := lm.acquire(key)
	defer lm.release(info)
	return fn()
}

// Len returns the number of tracked keys.
func (lm *LockManager) Len() int {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return len(lm.locks)
}

// Stop ends the background cleanup.
func (lm *LockManager) Stop() {
	lm.once.Do(func() { close(lm.stop) })
}

func (lm *LockManager) startCleanup() {
	ticker := time.NewTicker(lm.lockTTL)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case now := <-ticker.C:
				lm.cleanupUnusedLocks(now)
			case <-lm.stop:
				return
			}
		}
	}()
}

func (lm *LockManager) cleanupUnusedLocks(now time.Time) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	for key, info := range lm.locks {
		if info.refs == 0 && now.Sub(info.LastUsed) > lm.lockTTL {
			delete(lm.locks, key)
		}
	}
}
