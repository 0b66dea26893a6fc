package server

import "sync"

// userLocks serializes work per user. An entry lives only while some caller
// holds or waits for it.
type userLocks struct {
	mu    sync.Mutex
	users map[string]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

// lock blocks until uid is free and returns the matching unlock.
func (l *userLocks) lock(uid string) func() {
	l.mu.Lock()
	if l.users == nil {
		l.users = make(map[string]*userLock)
	}
	ul, ok := l.users[uid]
	if !ok {
		ul = &userLock{}
		l.users[uid] = ul
	}
	ul.refs++
	l.mu.Unlock()

	ul.mu.Lock()
	return func() {
		ul.mu.Unlock()
		l.mu.Lock()
		ul.refs--
		if ul.refs == 0 {
			delete(l.users, uid)
		}
		l.mu.Unlock()
	}
}

func (l *userLocks) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.users)
}
