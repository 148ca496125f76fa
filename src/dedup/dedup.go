package dedup

import "sync"

// Tracker records cache keys with an outstanding remote verification call.
// A caller that wins TryAcquire must call Release exactly once on every exit
// path, normally via defer.
type Tracker struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

func New() *Tracker {
	return &Tracker{inFlight: make(map[string]struct{})}
}

// TryAcquire marks key in flight and returns true iff it was not already.
func (t *Tracker) TryAcquire(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.inFlight[key]; ok {
		return false
	}
	t.inFlight[key] = struct{}{}
	return true
}

// Release clears the in-flight mark for key.
func (t *Tracker) Release(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.inFlight, key)
}

// InFlight reports whether key currently has an outstanding call.
func (t *Tracker) InFlight(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.inFlight[key]
	return ok
}
