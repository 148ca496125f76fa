package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/mitraverify/verifyd/src/data"
	"github.com/mitraverify/verifyd/src/types"
)

const storageKey = "userSettings"

// Defaults returns the settings a fresh install starts with. Fields added in
// later versions pick up their default here and survive a load over an older
// persisted blob.
func Defaults() types.UserSettings {
	return types.UserSettings{
		AutoScan:            true,
		ShowNotifications:   true,
		ConfidenceThreshold: 0.7,
		SiteEnabled:         map[string]bool{},
		Methods:             types.MethodSettings{Text: true, Image: true, URL: true},
		UI:                  types.UISettings{ShowBadge: true},
	}
}

// Store owns the user settings: defaults merged with the persisted blob,
// updated only through Update, persisted to the synced partition on every
// mutation.
type Store struct {
	kv data.KV

	mu      sync.RWMutex
	current types.UserSettings
}

// Load reads persisted settings over the defaults. A missing or malformed
// blob falls back to defaults without failing startup.
func Load(ctx context.Context, kv data.KV) *Store {
	s := &Store{kv: kv, current: Defaults()}

	raw, err := kv.Get(ctx, storageKey)
	if err != nil {
		if !errors.Is(err, data.ErrNotFound) {
			log.Printf("settings: load failed, using defaults: %v", err)
		}
		return s
	}

	// Unmarshal over the defaults: persisted fields win, fields the stored
	// blob predates keep their default.
	merged := Defaults()
	if err := json.Unmarshal(raw, &merged); err != nil {
		log.Printf("settings: discarding malformed stored settings: %v", err)
		return s
	}
	s.current = merged
	return s
}

// Get returns a copy of the current settings.
func (s *Store) Get() types.UserSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.current
	out.SiteEnabled = make(map[string]bool, len(s.current.SiteEnabled))
	for k, v := range s.current.SiteEnabled {
		out.SiteEnabled[k] = v
	}
	return out
}

// Update shallow-merges the partial JSON object into the current settings and
// persists before returning. Running verifications are not affected; the new
// values apply from the next orchestrator call.
func (s *Store) Update(ctx context.Context, partial json.RawMessage) (types.UserSettings, error) {
	var patch map[string]json.RawMessage
	if err := json.Unmarshal(partial, &patch); err != nil {
		return types.UserSettings{}, fmt.Errorf("decode settings patch: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	base, err := json.Marshal(s.current)
	if err != nil {
		return types.UserSettings{}, err
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(base, &merged); err != nil {
		return types.UserSettings{}, err
	}
	for k, v := range patch {
		merged[k] = v
	}

	raw, err := json.Marshal(merged)
	if err != nil {
		return types.UserSettings{}, err
	}
	var next types.UserSettings
	if err := json.Unmarshal(raw, &next); err != nil {
		return types.UserSettings{}, fmt.Errorf("apply settings patch: %w", err)
	}

	if err := s.kv.Set(ctx, storageKey, raw); err != nil {
		return types.UserSettings{}, fmt.Errorf("persist settings: %w", err)
	}
	s.current = next
	return next, nil
}

// SetAutoScan flips the auto-scan toggle, persisting like any other update.
func (s *Store) SetAutoScan(ctx context.Context, enabled bool) (types.UserSettings, error) {
	patch, _ := json.Marshal(map[string]bool{"autoScan": enabled})
	return s.Update(ctx, patch)
}
