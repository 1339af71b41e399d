package cart

import "sync"

// ownerLocks serializes cart mutations per owner. Holding the lock
// across mutate-plus-refetch means a slow older mutation can never
// overwrite the result of a newer one.
type ownerLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newOwnerLocks() *ownerLocks {
	return &ownerLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *ownerLocks) acquire(owner string) func() {
	l.mu.Lock()
	lock, ok := l.locks[owner]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[owner] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
