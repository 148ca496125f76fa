package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEveryRunsUntilStop(t *testing.T) {
	s := New()
	var runs atomic.Int64
	s.Every(5*time.Millisecond, func() { runs.Add(1) })

	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, time.Millisecond)

	s.Stop()
	after := runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, runs.Load(), "no runs after Stop")
}

func TestEveryAfterStopIsNoop(t *testing.T) {
	s := New()
	s.Stop()

	var runs atomic.Int64
	s.Every(time.Millisecond, func() { runs.Add(1) })
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int64(0), runs.Load())
}

func TestStopIsIdempotent(t *testing.T) {
	s := New()
	s.Every(time.Hour, func() {})
	s.Stop()
	s.Stop()
}
