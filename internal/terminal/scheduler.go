package terminal

import (
	"sync"
	"time"
)

// Scheduler runs one-shot deferred tasks. Each task remembers the epoch it
// was scheduled in; Invalidate advances the epoch so tasks that have not
// fired yet become no-ops.
type Scheduler struct {
	mu    sync.Mutex
	epoch uint64
	wg    sync.WaitGroup
}

// NewScheduler creates a scheduler
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// After runs fn once d has elapsed, unless the epoch changed in between
func (s *Scheduler) After(d time.Duration, fn func()) {
	s.mu.Lock()
	epoch := s.epoch
	s.wg.Add(1)
	s.mu.Unlock()

	time.AfterFunc(d, func() {
		defer s.wg.Done()
		if s.Epoch() != epoch {
			return
		}
		fn()
	})
}

// Invalidate drops every task scheduled before this call
func (s *Scheduler) Invalidate() {
	s.mu.Lock()
	s.epoch++
	s.mu.Unlock()
}

// Epoch returns the current epoch
func (s *Scheduler) Epoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// Wait blocks until every scheduled task has fired or been dropped
func (s *Scheduler) Wait() {
	s.wg.Wait()
}
