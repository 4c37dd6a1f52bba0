package pivot

import (
	"sync"

	"github.com/google/uuid"
)

// ownerLocks serializes pivot mutations per owner within this process.
// Mutations for different owners proceed in parallel; the version check in
// the repository catches writers racing from other processes.
type ownerLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newOwnerLocks() *ownerLocks {
	return &ownerLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (l *ownerLocks) get(owner uuid.UUID) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[owner]
	if !ok {
		m = &sync.Mutex{}
		l.locks[owner] = m
	}
	return m
}
