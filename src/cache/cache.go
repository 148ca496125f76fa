package cache

import (
	"log"
	"sync"
	"time"

	"github.com/mitraverify/verifyd/src/types"
)

type entry struct {
	result   types.VerificationResult
	storedAt time.Time
}

// Store is a bounded TTL cache of verification results. Expired entries are
// dropped lazily on Get and proactively by Sweep; when a Put pushes the store
// past its size bound the oldest-inserted entry is evicted (insertion order,
// not access order).
type Store struct {
	ttl     time.Duration
	maxSize int

	mu      sync.Mutex
	entries map[string]entry
	order   []string // insertion order, oldest first

	now func() time.Time
}

func New(ttl time.Duration, maxSize int) *Store {
	return &Store{
		ttl:     ttl,
		maxSize: maxSize,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the cached result for key, or false if absent or expired.
// An expired entry is removed on the spot.
func (s *Store) Get(key string) (types.VerificationResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return types.VerificationResult{}, false
	}
	if s.now().Sub(e.storedAt) > s.ttl {
		s.remove(key)
		return types.VerificationResult{}, false
	}
	return e.result, true
}

// Put inserts or overwrites. An overwrite counts as a fresh insertion for
// eviction order.
func (s *Store) Put(key string, result types.VerificationResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[key]; ok {
		s.removeFromOrder(key)
	}
	s.entries[key] = entry{result: result, storedAt: s.now()}
	s.order = append(s.order, key)

	if len(s.entries) > s.maxSize {
		oldest := s.order[0]
		s.remove(oldest)
	}
}

// Clear drops every entry.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]entry)
	s.order = nil
}

// Len reports the current entry count.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep removes every expired entry. Wired to a ticker so memory stays
// bounded even when nothing queries the cache.
func (s *Store) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, e := range s.entries {
		if now.Sub(e.storedAt) > s.ttl {
			s.remove(key)
			removed++
		}
	}
	if removed > 0 {
		log.Printf("cache: sweep removed %d expired entries, %d remain", removed, len(s.entries))
	}
}

// remove assumes the lock is held.
func (s *Store) remove(key string) {
	delete(s.entries, key)
	s.removeFromOrder(key)
}

func (s *Store) removeFromOrder(key string) {
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}
