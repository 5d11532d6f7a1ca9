package events

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriptionManager_Emit(t *testing.T) {
	sm := NewSubscriptionManager()
	ctx := context.Background()

	all := sm.Subscribe()
	market := sm.Subscribe(TopicMarket)
	user := sm.Subscribe(TopicUser)
	defer all.Cancel()
	defer market.Cancel()
	defer user.Cancel()

	sm.Emit(ctx, TopicMarket)

	select {
	case ev := <-all.Chan():
		assert.Equal(t, TopicMarket, ev.Topic)
	case <-time.After(time.Second):
		t.Fatal("subscriber without topics did not receive the event")
	}
	select {
	case ev := <-market.Chan():
		assert.Equal(t, TopicMarket, ev.Topic)
	case <-time.After(time.Second):
		t.Fatal("market subscriber did not receive the event")
	}
	select {
	case <-user.Chan():
		t.Fatal("user subscriber received a market event")
	default:
	}
}

func TestSubscriptionManager_EmitDoesNotBlock(t *testing.T) {
	sm := NewSubscriptionManager()
	sub := sm.Subscribe()
	defer sub.Cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			sm.Emit(context.Background(), TopicMarket)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on a full subscriber")
	}
	assert.Len(t, sub.Chan(), 1)
}

func TestSubscription_CancelIsIdempotent(t *testing.T) {
	sm := NewSubscriptionManager()
	sub := sm.Subscribe()
	require.Equal(t, 1, sm.Count())

	sub.Cancel()
	sub.Cancel()

	assert.Equal(t, 0, sm.Count())
	_, open := <-sub.Chan()
	assert.False(t, open)

	// Emitting after cancel must not panic on the closed channel
	sm.Emit(context.Background(), TopicMarket)
}

func TestSubscription_Watch(t *testing.T) {
	sm := NewSubscriptionManager()
	ctx, cancel := context.WithCancel(context.Background())

	var calls int32
	sm.Subscribe(TopicUser).Watch(ctx, func(Event) {
		atomic.AddInt32(&calls, 1)
	}, true)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	sm.Emit(context.Background(), TopicUser)
	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	require.Eventually(t, func() bool { return sm.Count() == 0 }, time.Second, 5*time.Millisecond)
}
