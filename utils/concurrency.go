package utils

import (
	"sync"
	"time"
)

// ActionLocks keeps short-lived locks keyed by target so that two
// moderators can't act on the same user at the same time.
type ActionLocks struct {
	mu       sync.Mutex
	locks    map[string]time.Time
	duration time.Duration
	now      func() time.Time
}

func NewActionLocks(duration time.Duration) *ActionLocks {
	return &ActionLocks{
		locks:    make(map[string]time.Time),
		duration: duration,
		now:      time.Now,
	}
}

// CheckAndSet checks if key is currently locked.
// If not locked, it sets a new lock and returns true.
// If locked, it returns false.
func (a *ActionLocks) CheckAndSet(key string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	if lockedAt, ok := a.locks[key]; ok {
		if now.Sub(lockedAt) < a.duration {
			return false // Locked
		}
	}

	a.locks[key] = now
	return true // Not locked, new lock set
}

// Release drops the lock for key.
func (a *ActionLocks) Release(key string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.locks, key)
}

// Cleanup removes expired locks.
func (a *ActionLocks) Cleanup() {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	for key, lockedAt := range a.locks {
		if now.Sub(lockedAt) >= a.duration {
			delete(a.locks, key)
		}
	}
}

// Len returns the number of tracked locks, expired or not.
func (a *ActionLocks) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.locks)
}
