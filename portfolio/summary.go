package portfolio

import (
	"github.com/shopspring/decimal"

	"github.com/status-im/market-game/backend"
	"github.com/status-im/market-game/market"
)

// Summary is the account overview of the portfolio and profile views
type Summary struct {
	Balance          float64             `json:"balance"`
	PositionsValue   float64             `json:"positionsValue"`
	TotalValue       float64             `json:"totalValue"`
	StartingBalance  float64             `json:"startingBalance"`
	ProfitLoss       float64             `json:"profitLoss"`
	ProfitPercentage float64             `json:"profitPercentage"`
	Positions        []PositionValuation `json:"positions"`
	Totals           Aggregate           `json:"totals"`
}

// Summarize values the user's positions and compares the account total with
// the starting balance. A starting balance reported by the backend on the
// user record takes precedence over defaultStartingBalance.
func Summarize(user backend.User, snapshot []market.Cryptocurrency, defaultStartingBalance float64) Summary {
	positions := Valuate(user.Portfolio, snapshot)
	totals := Totals(positions)

	starting := toDecimal(defaultStartingBalance)
	if user.StartingBalance != nil && *user.StartingBalance > 0 {
		starting = toDecimal(*user.StartingBalance)
	}

	balance := toDecimal(user.Balance)
	total := balance.Add(toDecimal(totals.TotalValue))
	profit := total.Sub(starting)

	percentage := decimal.Zero
	if total.IsPositive() && starting.IsPositive() {
		percentage = profit.Div(starting).Mul(hundred)
	}

	return Summary{
		Balance:          balance.InexactFloat64(),
		PositionsValue:   totals.TotalValue,
		TotalValue:       total.InexactFloat64(),
		StartingBalance:  starting.InexactFloat64(),
		ProfitLoss:       profit.InexactFloat64(),
		ProfitPercentage: percentage.InexactFloat64(),
		Positions:        positions,
		Totals:           totals,
	}
}
