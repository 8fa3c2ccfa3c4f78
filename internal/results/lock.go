package results

import "sync"

// KeyedLock serializes the authorize-then-append sequence per user+exam so
// concurrent submissions can't both pass the attempt-count check before
// either write lands.
type KeyedLock struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewKeyedLock() *KeyedLock {
	return &KeyedLock{locks: map[string]*sync.Mutex{}}
}

// Lock acquires the mutex for key and returns its unlock func.
func (l *KeyedLock) Lock(key string) func() {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
