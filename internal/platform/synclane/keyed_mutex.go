package synclane

import "sync"

// KeyedMutex serializes callers per key. The engine uses one lane per match
// (and per match side) so "first to accept/join wins" races resolve to
// exactly one winner inside a process; conditional repository writes carry
// the same guarantee across processes.
//
// Lanes are reference-counted and removed when the last holder releases, so
// the map does not grow with the number of matches ever seen.
type KeyedMutex struct {
	mu    sync.Mutex
	lanes map[string]*lane
}

type lane struct {
	mu   sync.Mutex
	refs int
}

// Lock acquires the lane for key and returns its unlock function.
func (k *KeyedMutex) Lock(key string) func() {
	k.mu.Lock()
	if k.lanes == nil {
		k.lanes = make(map[string]*lane)
	}
	l, ok := k.lanes[key]
	if !ok {
		l = &lane{}
		k.lanes[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.lanes, key)
		}
		k.mu.Unlock()
	}
}
