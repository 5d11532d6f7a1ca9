package events

//go:generate mockgen -destination=mocks/subscription.go . ISubscription,ISubscriptionManager

import (
	"context"
	"sync"
	"time"
)

// Topics emitted by the client core
const (
	TopicMarket      = "market"
	TopicUser        = "user"
	TopicLeaderboard = "leaderboard"
)

// Event tells subscribers that data under Topic changed
type Event struct {
	Topic string
	At    time.Time
}

// ISubscription defines the contract for subscription objects
type ISubscription interface {
	// Chan returns a read-only channel for self-handling events
	Chan() <-chan Event
	// Cancel unsubscribes and closes the channel. Safe for repeated calls
	Cancel()
	// Watch starts a goroutine that calls cb on each event
	// If callNow is true, cb is called immediately with a synthetic event
	// When parentCtx finishes, the subscription is automatically cancelled
	Watch(parentCtx context.Context, cb func(Event), callNow bool) ISubscription
}

// ISubscriptionManager defines the contract for managing subscriptions
type ISubscriptionManager interface {
	// Subscribe creates a subscription for the given topics, all topics when none
	Subscribe(topics ...string) ISubscription
	// Emit notifies the subscribers of topic (non-blocking if their channel is full)
	Emit(ctx context.Context, topic string)
}

type Subscription struct {
	ch     chan Event
	topics map[string]struct{}
	mgr    *SubscriptionManager
	cancel context.CancelFunc
	once   sync.Once
}

// Chan returns a read-only channel for self-handling events.
func (s *Subscription) Chan() <-chan Event { return s.ch }

// Cancel unsubscribes and closes the channel. Safe for repeated calls.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
		s.mgr.unsubscribe(s)
	})
}

// Watch starts a goroutine that calls cb on each event.
func (s *Subscription) Watch(parentCtx context.Context, cb func(Event), callNow bool) ISubscription {
	ctx, cancel := context.WithCancel(parentCtx)
	s.cancel = cancel

	if callNow {
		cb(Event{At: time.Now()})
	}

	go func(ctx context.Context) {
		defer s.Cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-s.ch:
				if !ok {
					return
				}
				cb(ev)
			}
		}
	}(ctx)

	return s
}

func (s *Subscription) wants(topic string) bool {
	if len(s.topics) == 0 {
		return true
	}
	_, ok := s.topics[topic]
	return ok
}

type SubscriptionManager struct {
	mu          sync.RWMutex
	subscribers map[*Subscription]struct{}
}

func NewSubscriptionManager() *SubscriptionManager {
	return &SubscriptionManager{
		subscribers: make(map[*Subscription]struct{}),
	}
}

func (m *SubscriptionManager) Subscribe(topics ...string) ISubscription {
	sub := &Subscription{
		ch:     make(chan Event, 1),
		topics: make(map[string]struct{}, len(topics)),
		mgr:    m,
	}
	for _, topic := range topics {
		sub.topics[topic] = struct{}{}
	}

	m.mu.Lock()
	m.subscribers[sub] = struct{}{}
	m.mu.Unlock()

	return sub
}

func (m *SubscriptionManager) unsubscribe(sub *Subscription) {
	m.mu.Lock()
	if _, ok := m.subscribers[sub]; ok {
		delete(m.subscribers, sub)
		close(sub.ch)
	}
	m.mu.Unlock()
}

// Count returns the number of live subscriptions
func (m *SubscriptionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subscribers)
}

// Emit sends an event to the subscribers of topic (non-blocking if their channel is full).
func (m *SubscriptionManager) Emit(ctx context.Context, topic string) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ev := Event{Topic: topic, At: time.Now()}
	for sub := range m.subscribers {
		if !sub.wants(topic) {
			continue
		}
		select {
		case <-ctx.Done():
			// Stop sending notifications when the context is cancelled
			return
		case sub.ch <- ev:
		default:
			// Subscriber already has a pending event
		}
	}
}
