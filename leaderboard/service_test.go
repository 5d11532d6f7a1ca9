package leaderboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/status-im/market-game/apperrors"
	"github.com/status-im/market-game/backend"
	"github.com/status-im/market-game/events"
	mock_leaderboard "github.com/status-im/market-game/leaderboard/mocks"
	"github.com/status-im/market-game/market"
)

type fakeMarket struct {
	snapshot []market.Cryptocurrency
	calls    int
	limit    int
}

func (f *fakeMarket) FetchTopCryptos(_ context.Context, limit int) []market.Cryptocurrency {
	f.calls++
	f.limit = limit
	return f.snapshot
}

func fixedNow() time.Time {
	return time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
}

func TestService_LoadReconciles(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockBackend := mock_leaderboard.NewMockBackend(ctrl)
	mockBackend.EXPECT().Leaderboard(gomock.Any()).Return([]map[string]interface{}{
		{"userId": "user_1", "username": "TestUser", "balance": 100.0, "totalValue": 5.0},
	}, nil)

	m := &fakeMarket{snapshot: []market.Cryptocurrency{{ID: "bitcoin", CurrentPrice: 20000}}}
	svc := NewService(mockBackend, m, 50, WithClock(fixedNow))

	user := &backend.User{
		ID:        "user_1",
		Balance:   100,
		Portfolio: []backend.PortfolioItem{{CryptoID: "bitcoin", Amount: 0.5}},
	}
	board := svc.Load(context.Background(), user)

	assert.False(t, board.Degraded)
	assert.Equal(t, fixedNow(), board.UpdatedAt)
	require.Len(t, board.Entries, 1)
	assert.Equal(t, 10000.0, board.Entries[0].PortfolioValue)
	assert.Equal(t, 10100.0, board.Entries[0].TotalValue)
	assert.Equal(t, 1, m.calls)
	assert.Equal(t, 50, m.limit)

	last, ok := svc.Last()
	require.True(t, ok)
	assert.Equal(t, board, last)
}

func TestService_LoadSkipsMarketWithoutPositions(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockBackend := mock_leaderboard.NewMockBackend(ctrl)
	mockBackend.EXPECT().Leaderboard(gomock.Any()).Return([]map[string]interface{}{}, nil)

	m := &fakeMarket{}
	svc := NewService(mockBackend, m, 0)

	board := svc.Load(context.Background(), nil)
	assert.False(t, board.Degraded)
	assert.Empty(t, board.Entries)
	assert.Equal(t, 0, m.calls)
}

func TestService_LoadDegradesOnFailure(t *testing.T) {
	testCases := []struct {
		name string
		err  error
	}{
		{"network", apperrors.New(apperrors.KindNetworkFailure, "backend unreachable")},
		{"auth", apperrors.New(apperrors.KindAuthRequired, "session expired")},
		{"plain", errors.New("boom")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockBackend := mock_leaderboard.NewMockBackend(ctrl)
			mockBackend.EXPECT().Leaderboard(gomock.Any()).Return(nil, tc.err)

			m := &fakeMarket{}
			svc := NewService(mockBackend, m, 0)

			board := svc.Load(context.Background(), &backend.User{ID: "user_1"})
			assert.True(t, board.Degraded)
			assert.Equal(t, StaticBoard(), board.Entries)
			assert.Equal(t, 0, m.calls)
		})
	}
}

func TestService_LoadEmitsUpdate(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockBackend := mock_leaderboard.NewMockBackend(ctrl)
	mockBackend.EXPECT().Leaderboard(gomock.Any()).Return([]map[string]interface{}{}, nil)

	manager := events.NewSubscriptionManager()
	svc := NewService(mockBackend, &fakeMarket{}, 0, WithSubscriptionManager(manager))

	sub := svc.SubscribeOnUpdate()
	defer sub.Cancel()

	svc.Load(context.Background(), nil)

	select {
	case ev := <-sub.Chan():
		assert.Equal(t, events.TopicLeaderboard, ev.Topic)
	case <-time.After(time.Second):
		t.Fatal("expected leaderboard event")
	}
}

func TestService_LastBeforeLoad(t *testing.T) {
	svc := NewService(nil, nil, 0)
	_, ok := svc.Last()
	assert.False(t, ok)
}
