package reconcile

import "sync"

// accountLocks serializes imports per account. The map only ever grows;
// the number of accounts in one process is small enough that reaping idle
// entries is not worth the bookkeeping.
type accountLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newAccountLocks() *accountLocks {
	return &accountLocks{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the mutex for accountID and returns its unlock function.
func (al *accountLocks) lock(accountID string) func() {
	al.mu.Lock()
	m, ok := al.locks[accountID]
	if !ok {
		m = &sync.Mutex{}
		al.locks[accountID] = m
	}
	al.mu.Unlock()

	m.Lock()
	return m.Unlock
}
