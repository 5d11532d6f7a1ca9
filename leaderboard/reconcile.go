package leaderboard

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/status-im/market-game/backend"
	"github.com/status-im/market-game/market"
	"github.com/status-im/market-game/portfolio"
)

// Reconcile coerces the server rows and overwrites the signed-in user's row
// with local values. The server may lag behind a trade the client just made,
// so for that row balance comes from the session and portfolioValue from the
// local valuation. Server ordering is preserved.
func Reconcile(serverEntries []map[string]interface{}, currentUser *backend.User, snapshot []market.Cryptocurrency) []Entry {
	entries := make([]Entry, 0, len(serverEntries))
	for i, raw := range serverEntries {
		entry := coerce(raw)
		entry.Rank = i + 1

		if currentUser != nil && currentUser.ID != "" && entry.UserID == currentUser.ID {
			balance := finite(currentUser.Balance)
			portfolioValue := portfolio.PositionsValue(currentUser.Portfolio, snapshot)

			entry.Balance = balance
			entry.PortfolioValue = portfolioValue
			entry.TotalValue = balance + portfolioValue
			entry.IsCurrentUser = true
		}
		entries = append(entries, entry)
	}
	return entries
}

func coerce(raw map[string]interface{}) Entry {
	balance, _ := number(raw["balance"])
	portfolioValue, ok := number(raw["portfolioValue"])
	if !ok {
		portfolioValue = 0
	}
	totalValue, ok := number(raw["totalValue"])
	if !ok {
		totalValue = balance + portfolioValue
	}
	profit, _ := number(raw["profitPercentage"])

	userID := text(raw["userId"])
	if userID == "" {
		userID = text(raw["_id"])
	}

	return Entry{
		UserID:           userID,
		Username:         text(raw["username"]),
		Avatar:           text(raw["avatar"]),
		Balance:          balance,
		PortfolioValue:   portfolioValue,
		TotalValue:       totalValue,
		ProfitPercentage: profit,
	}
}

// number accepts JSON numbers only; numeric strings count as missing
func number(v interface{}) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func text(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return ""
	}
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
