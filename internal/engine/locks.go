package engine

import "sync"

// keyedLocks serializes mutation per application id. Locks for different ids
// are independent; a lock is created on first use and kept for the process
// lifetime (application ids are bounded by applications ever touched).
type keyedLocks struct {
	mu sync.Map // id -> *sync.Mutex
}

func (k *keyedLocks) lock(id string) (unlock func()) {
	v, _ := k.mu.LoadOrStore(id, &sync.Mutex{})
	m := v.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}
