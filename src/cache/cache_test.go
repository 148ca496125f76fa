package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitraverify/verifyd/src/types"
)

func result(status string) types.VerificationResult {
	return types.VerificationResult{Status: status, Confidence: 0.9}
}

func TestGetMissesAfterTTL(t *testing.T) {
	now := time.Now()
	s := New(5*time.Minute, 10)
	s.now = func() time.Time { return now }

	s.Put("k", result(types.StatusVerified))

	got, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, types.StatusVerified, got.Status)

	now = now.Add(5*time.Minute + time.Second)
	_, ok = s.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len(), "expired entry should be evicted on lookup")
}

func TestPutOverwritesSameKey(t *testing.T) {
	s := New(time.Minute, 10)
	s.Put("k", result(types.StatusQuestionable))
	s.Put("k", result(types.StatusVerified))

	got, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, types.StatusVerified, got.Status)
	assert.Equal(t, 1, s.Len())
}

func TestEvictsOldestInsertedOnOverflow(t *testing.T) {
	s := New(time.Minute, 3)
	for i := 0; i < 3; i++ {
		s.Put(fmt.Sprintf("k%d", i), result(types.StatusVerified))
	}

	// Touching k0 must not protect it: eviction is FIFO, not LRU.
	_, ok := s.Get("k0")
	require.True(t, ok)

	s.Put("k3", result(types.StatusVerified))

	assert.Equal(t, 3, s.Len())
	_, ok = s.Get("k0")
	assert.False(t, ok, "oldest-inserted entry should be gone")
	for _, k := range []string{"k1", "k2", "k3"} {
		_, ok := s.Get(k)
		assert.True(t, ok, k)
	}
}

func TestNeverExceedsBound(t *testing.T) {
	s := New(time.Minute, 5)
	for i := 0; i < 50; i++ {
		s.Put(fmt.Sprintf("k%d", i), result(types.StatusVerified))
		assert.LessOrEqual(t, s.Len(), 5)
	}
}

func TestOverwriteRefreshesEvictionOrder(t *testing.T) {
	s := New(time.Minute, 2)
	s.Put("a", result(types.StatusVerified))
	s.Put("b", result(types.StatusVerified))
	s.Put("a", result(types.StatusVerified)) // re-inserted, b is now oldest
	s.Put("c", result(types.StatusVerified))

	_, ok := s.Get("b")
	assert.False(t, ok)
	_, ok = s.Get("a")
	assert.True(t, ok)
}

func TestSweepRemovesExpired(t *testing.T) {
	now := time.Now()
	s := New(time.Minute, 10)
	s.now = func() time.Time { return now }

	s.Put("old", result(types.StatusVerified))
	now = now.Add(45 * time.Second)
	s.Put("fresh", result(types.StatusVerified))
	now = now.Add(30 * time.Second)

	s.Sweep()

	assert.Equal(t, 1, s.Len())
	_, ok := s.Get("fresh")
	assert.True(t, ok)
	_, ok = s.Get("old")
	assert.False(t, ok)
}

func TestClear(t *testing.T) {
	s := New(time.Minute, 10)
	s.Put("a", result(types.StatusVerified))
	s.Put("b", result(types.StatusFalse))
	s.Clear()
	assert.Equal(t, 0, s.Len())
	_, ok := s.Get("a")
	assert.False(t, ok)
}
