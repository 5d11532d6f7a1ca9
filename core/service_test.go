package core

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// StopRecorder records the order of service starts and stops
type StopRecorder struct {
	mu     sync.Mutex
	events []string
}

func (r *StopRecorder) record(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *StopRecorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

// recordingService records when it is started and stopped
type recordingService struct {
	id       string
	startErr error
	recorder *StopRecorder
}

func (s *recordingService) Start(ctx context.Context) error {
	s.recorder.record("start " + s.id)
	return s.startErr
}

func (s *recordingService) Stop() {
	s.recorder.record("stop " + s.id)
}

func newRegistry(recorder *StopRecorder, ids ...string) (*Registry, map[string]*recordingService) {
	registry := NewRegistry()
	services := make(map[string]*recordingService, len(ids))
	for _, id := range ids {
		svc := &recordingService{id: id, recorder: recorder}
		services[id] = svc
		registry.Register(id, svc)
	}
	return registry, services
}

func TestRegistry_Register(t *testing.T) {
	registry, _ := newRegistry(&StopRecorder{}, "cache", "market")
	assert.Equal(t, 2, registry.Len())
}

func TestRegistry_StartAndStopInReverseOrder(t *testing.T) {
	recorder := &StopRecorder{}
	registry, _ := newRegistry(recorder, "cache", "market", "api")

	require.NoError(t, registry.StartAll(context.Background()))
	registry.StopAll()

	assert.Equal(t, []string{
		"start cache", "start market", "start api",
		"stop api", "stop market", "stop cache",
	}, recorder.Events())
}

func TestRegistry_StartFailureStopsStarted(t *testing.T) {
	recorder := &StopRecorder{}
	registry, services := newRegistry(recorder, "cache", "market", "api")
	services["market"].startErr = errors.New("boom")

	err := registry.StartAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "market")

	assert.Equal(t, []string{"start cache", "start market", "stop cache"}, recorder.Events())
}

func TestRegistry_StopAllIsIdempotent(t *testing.T) {
	recorder := &StopRecorder{}
	registry, _ := newRegistry(recorder, "cache")

	registry.StopAll()
	assert.Empty(t, recorder.Events())

	require.NoError(t, registry.StartAll(context.Background()))
	registry.StopAll()
	registry.StopAll()
	assert.Equal(t, []string{"start cache", "stop cache"}, recorder.Events())
}

func TestRegistry_StartsLateRegistrations(t *testing.T) {
	recorder := &StopRecorder{}
	registry, _ := newRegistry(recorder, "cache")
	require.NoError(t, registry.StartAll(context.Background()))

	registry.Register("api", &recordingService{id: "api", recorder: recorder})
	require.NoError(t, registry.StartAll(context.Background()))
	registry.StopAll()

	assert.Equal(t, []string{"start cache", "start api", "stop api", "stop cache"}, recorder.Events())
}
