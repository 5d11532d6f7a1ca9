// Package scheduler runs polling tasks at a fixed interval.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/status-im/market-game/logger"
)

// Task is the work run on every tick
type Task func(ctx context.Context)

// Scheduler runs one task at a fixed interval until stopped
type Scheduler struct {
	name     string
	interval time.Duration
	task     Task
	trigger  chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
	running  bool
	cancel   context.CancelFunc
}

// New creates a new Scheduler instance
func New(name string, interval time.Duration, task Task) *Scheduler {
	return &Scheduler{
		name:     name,
		interval: interval,
		task:     task,
		trigger:  make(chan struct{}, 1),
	}
}

// Name returns the task name used in logs
func (s *Scheduler) Name() string {
	return s.name
}

// Start begins executing the task at the specified interval
func (s *Scheduler) Start(ctx context.Context, firstRunImmediately bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.running = true

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		if firstRunImmediately {
			s.run(ctx)
		}

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.run(ctx)
			case <-s.trigger:
				s.run(ctx)
				ticker.Reset(s.interval)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Trigger asks for an extra run as soon as possible. Requests made while a
// run is pending collapse into one.
func (s *Scheduler) Trigger() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// Stop cancels the task and waits for the current run to return
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.running = false
}

// IsRunning returns true if the task is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// run executes the task once; a panicking task is logged and the loop goes on
func (s *Scheduler) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Get().Errorf("Scheduler: task %s panicked: %v", s.name, r)
		}
	}()
	s.task(ctx)
}
