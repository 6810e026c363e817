package store

import "sync"

// KeyLocks serializes the exists-check-then-write sequence per canonical
// key. Two overlapping passes racing on the same publication would otherwise
// both see "not stored" and build divergent new records.
type KeyLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewKeyLocks() *KeyLocks {
	return &KeyLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for a natural identifier's canonical key and
// returns the unlock function.
func (k *KeyLocks) Lock(naturalID string) func() {
	key := CanonicalKey(naturalID)
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
