package badge

import (
	"context"
	"strconv"
	"sync"

	"github.com/mitraverify/verifyd/src/bus"
	"github.com/mitraverify/verifyd/src/types"
)

const (
	colorHighAlert = "#D32F2F"
	colorCaution   = "#F9A825"
)

// Payload is the setBadge push body consumed by the host adapter.
type Payload struct {
	Text  string `json:"text"`
	Color string `json:"color,omitempty"`
}

// Manager keeps the per-tab flagged-content counts. State is transient: it is
// rebuilt as results arrive and vanishes with the process.
type Manager struct {
	bus bus.Bus

	mu     sync.Mutex
	counts map[int]int
}

func NewManager(b bus.Bus) *Manager {
	return &Manager{bus: b, counts: make(map[int]int)}
}

// Update sets the badge count for a tab and pushes the new badge state.
func (m *Manager) Update(ctx context.Context, tabID, count int) {
	if count < 0 {
		count = 0
	}
	m.mu.Lock()
	if count == 0 {
		delete(m.counts, tabID)
	} else {
		m.counts[tabID] = count
	}
	m.mu.Unlock()

	m.bus.Push(ctx, types.Envelope{
		Action:  types.PushSetBadge,
		TabID:   tabID,
		Payload: render(count),
	})
}

// Increment bumps a tab's count by one.
func (m *Manager) Increment(ctx context.Context, tabID int) {
	m.mu.Lock()
	next := m.counts[tabID] + 1
	m.mu.Unlock()
	m.Update(ctx, tabID, next)
}

// Clear resets a tab's badge, normally on navigation.
func (m *Manager) Clear(ctx context.Context, tabID int) {
	m.Update(ctx, tabID, 0)
}

// Count returns the current count for a tab.
func (m *Manager) Count(tabID int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[tabID]
}

func render(count int) Payload {
	switch {
	case count > 5:
		return Payload{Text: strconv.Itoa(count), Color: colorHighAlert}
	case count > 0:
		return Payload{Text: strconv.Itoa(count), Color: colorCaution}
	default:
		return Payload{Text: ""}
	}
}
