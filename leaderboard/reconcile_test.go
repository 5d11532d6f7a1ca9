package leaderboard

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/status-im/market-game/backend"
	"github.com/status-im/market-game/market"
)

func serverRows(t *testing.T, raw string) []map[string]interface{} {
	t.Helper()
	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &rows))
	return rows
}

func TestReconcile_Coercion(t *testing.T) {
	rows := serverRows(t, `[
		{"userId": "user_2", "username": "CryptoWhale", "balance": 1000, "portfolioValue": 500, "totalValue": 1500, "profitPercentage": 12.5},
		{"userId": "user_3", "username": "CryptoQueen", "balance": 800, "portfolioValue": "n/a"},
		{"userId": "user_4", "username": "Hodler", "balance": 700, "portfolioValue": 100, "totalValue": null},
		{"_id": "user_5", "username": "TraderPro"}
	]`)

	entries := Reconcile(rows, nil, nil)
	require.Len(t, entries, 4)

	assert.Equal(t, Entry{Rank: 1, UserID: "user_2", Username: "CryptoWhale", Balance: 1000, PortfolioValue: 500, TotalValue: 1500, ProfitPercentage: 12.5}, entries[0])

	assert.Equal(t, 0.0, entries[1].PortfolioValue)
	assert.Equal(t, 800.0, entries[1].TotalValue)
	assert.Equal(t, 0.0, entries[1].ProfitPercentage)

	assert.Equal(t, 800.0, entries[2].TotalValue)

	assert.Equal(t, "user_5", entries[3].UserID)
	assert.Equal(t, 0.0, entries[3].Balance)
	assert.Equal(t, 0.0, entries[3].TotalValue)
}

func TestReconcile_PatchesCurrentUserRow(t *testing.T) {
	rows := serverRows(t, `[
		{"userId": "user_2", "username": "CryptoWhale", "balance": 145750, "portfolioValue": 0, "totalValue": 145750},
		{"userId": "user_1", "username": "TestUser", "balance": 10000, "portfolioValue": 0, "totalValue": 999999},
		{"userId": "user_3", "username": "CryptoQueen", "balance": 9000}
	]`)
	user := &backend.User{
		ID:      "user_1",
		Balance: 7500,
		Portfolio: []backend.PortfolioItem{
			{CryptoID: "bitcoin", Amount: 0.05, AverageBuyPrice: 50000},
			{CryptoID: "delisted", Amount: 10, AverageBuyPrice: 3},
		},
	}
	snapshot := []market.Cryptocurrency{{ID: "bitcoin", CurrentPrice: 60000}}

	entries := Reconcile(rows, user, snapshot)
	require.Len(t, entries, 3)

	// server order kept even though the patched row now ranks differently
	assert.Equal(t, []string{"user_2", "user_1", "user_3"}, []string{entries[0].UserID, entries[1].UserID, entries[2].UserID})

	row := entries[1]
	assert.True(t, row.IsCurrentUser)
	assert.Equal(t, 7500.0, row.Balance)
	assert.Equal(t, 3000.0, row.PortfolioValue)
	assert.Equal(t, row.Balance+row.PortfolioValue, row.TotalValue)

	assert.False(t, entries[0].IsCurrentUser)
	assert.Equal(t, 145750.0, entries[0].TotalValue)
}

func TestReconcile_UserRowConsistencyWithFractions(t *testing.T) {
	rows := serverRows(t, `[{"userId": "u", "balance": 1, "totalValue": 42}]`)
	user := &backend.User{
		ID:        "u",
		Balance:   0.1,
		Portfolio: []backend.PortfolioItem{{CryptoID: "ethereum", Amount: 0.2, AverageBuyPrice: 1}},
	}
	snapshot := []market.Cryptocurrency{{ID: "ethereum", CurrentPrice: 1}}

	entries := Reconcile(rows, user, snapshot)
	require.Len(t, entries, 1)
	assert.Equal(t, entries[0].Balance+entries[0].PortfolioValue, entries[0].TotalValue)
}

func TestReconcile_Empty(t *testing.T) {
	entries := Reconcile(nil, &backend.User{ID: "user_1"}, nil)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestStaticBoard(t *testing.T) {
	entries := StaticBoard()
	require.Len(t, entries, 14)

	assert.Equal(t, "CryptoWhale", entries[0].Username)
	assert.Equal(t, "https://randomuser.me/api/portraits/men/22.jpg", entries[0].Avatar)
	for i, e := range entries {
		assert.Equal(t, i+1, e.Rank)
		assert.Equal(t, 0.0, e.PortfolioValue)
		assert.Equal(t, e.Balance, e.TotalValue)
	}
}
