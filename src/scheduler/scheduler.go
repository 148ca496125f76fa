package scheduler

import (
	"sync"
	"time"
)

// Scheduler runs periodic jobs on tickers and stops them together at
// shutdown. Injected so components never own ambient timers.
type Scheduler struct {
	mu      sync.Mutex
	stopped bool
	done    chan struct{}
	wg      sync.WaitGroup
}

func New() *Scheduler {
	return &Scheduler{done: make(chan struct{})}
}

// Every runs fn on the given interval until Stop.
func (s *Scheduler) Every(interval time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				fn()
			case <-s.done:
				return
			}
		}
	}()
}

// Stop halts all jobs and waits for in-progress runs to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	close(s.done)
	s.mu.Unlock()

	s.wg.Wait()
}
