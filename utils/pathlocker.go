package utils

import "sync"

// PathLocker serializes work keyed by a string such as a file or collection path
type PathLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewPathLocker creates an empty PathLocker
func NewPathLocker() *PathLocker {
	return &PathLocker{
		locks: make(map[string]*sync.Mutex),
	}
}

// Lock blocks until the lock for key is held
func (l *PathLocker) Lock(key string) {
	l.mu.Lock()
	lock, ok := l.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[key] = lock
	}
	l.mu.Unlock()

	lock.Lock()
}

// Unlock releases the lock for key
func (l *PathLocker) Unlock(key string) {
	l.mu.Lock()
	if lock, ok := l.locks[key]; ok {
		lock.Unlock()
	}
	l.mu.Unlock()
}
