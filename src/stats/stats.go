package stats

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/mitraverify/verifyd/src/data"
	"github.com/mitraverify/verifyd/src/types"
)

const storageKey = "extensionStats"

// Tracker counts completed verifications. Counters live in memory and are
// flushed to the local partition periodically and at shutdown.
type Tracker struct {
	kv data.KV

	mu      sync.Mutex
	current types.ExtensionStats
	dirty   bool

	now func() time.Time
}

// Load restores persisted counters; a missing or malformed blob starts from
// zero.
func Load(ctx context.Context, kv data.KV) *Tracker {
	t := &Tracker{kv: kv, now: time.Now}

	raw, err := kv.Get(ctx, storageKey)
	if err != nil {
		if !errors.Is(err, data.ErrNotFound) {
			log.Printf("stats: load failed, starting from zero: %v", err)
		}
		return t
	}
	if err := json.Unmarshal(raw, &t.current); err != nil {
		log.Printf("stats: discarding malformed stored stats: %v", err)
		t.current = types.ExtensionStats{}
	}
	return t
}

// Record counts one completed verification. Pending results never reach here.
func (t *Tracker) Record(result types.VerificationResult) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.current.TotalVerifications++
	if result.Flagged() {
		t.current.MisinformationDetected++
	}
	t.current.LastVerificationTime = &now
	t.dirty = true
}

// Snapshot returns a copy of the current counters.
func (t *Tracker) Snapshot() types.ExtensionStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.current
	if t.current.LastVerificationTime != nil {
		ts := *t.current.LastVerificationTime
		out.LastVerificationTime = &ts
	}
	return out
}

// Flush persists the counters if they changed since the last flush.
func (t *Tracker) Flush(ctx context.Context) {
	t.mu.Lock()
	if !t.dirty {
		t.mu.Unlock()
		return
	}
	raw, err := json.Marshal(t.current)
	t.dirty = false
	t.mu.Unlock()

	if err != nil {
		log.Printf("stats: marshal: %v", err)
		return
	}
	if err := t.kv.Set(ctx, storageKey, raw); err != nil {
		log.Printf("stats: persist: %v", err)
	}
}
