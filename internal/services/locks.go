package services

import "sync"

// userLocks hands out one advisory mutex per user so that at most one
// firing for a given user proceeds at a time. Locks are never removed;
// the population is bounded by the user base.
type userLocks struct {
	mu sync.Mutex
	m  map[int64]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{m: make(map[int64]*sync.Mutex)}
}

// Acquire locks the user's mutex and returns the unlock function.
func (l *userLocks) Acquire(userID int64) func() {
	l.mu.Lock()
	m, ok := l.m[userID]
	if !ok {
		m = &sync.Mutex{}
		l.m[userID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
