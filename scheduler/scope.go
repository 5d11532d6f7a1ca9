package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/status-im/market-game/logger"
)

// Scope owns the polling tasks of one view. Closing the scope cancels every
// task it started and waits for them, so no timer outlives its view.
type Scope struct {
	name   string
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	tasks  []*Scheduler
	closed bool
}

// NewScope creates a scope whose tasks also stop when parent is done
func NewScope(parent context.Context, name string) *Scope {
	ctx, cancel := context.WithCancel(parent)
	return &Scope{
		name:   name,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Context is cancelled when the scope closes
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Every starts task at interval under the scope. On a closed scope the
// returned scheduler is never started.
func (s *Scope) Every(name string, interval time.Duration, runNow bool, task Task) *Scheduler {
	sched := New(s.name+"/"+name, interval, task)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return sched
	}
	s.tasks = append(s.tasks, sched)
	sched.Start(s.ctx, runNow)
	return sched
}

// Len returns the number of tasks started under the scope
func (s *Scope) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Closed reports whether Close has been called
func (s *Scope) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close cancels all tasks and waits for them. Safe for repeated calls.
func (s *Scope) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	tasks := s.tasks
	s.tasks = nil
	s.mu.Unlock()

	s.cancel()
	for _, t := range tasks {
		t.Stop()
	}
	logger.Get().Debugf("Scheduler: scope %s closed, %d tasks stopped", s.name, len(tasks))
}
