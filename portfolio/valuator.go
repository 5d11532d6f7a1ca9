// Package portfolio values held positions against a market snapshot.
package portfolio

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/status-im/market-game/backend"
	"github.com/status-im/market-game/logger"
	"github.com/status-im/market-game/market"
	"github.com/status-im/market-game/metrics"
)

var hundred = decimal.NewFromInt(100)

// PositionValuation is one held position priced at the current market
type PositionValuation struct {
	CryptoID             string  `json:"cryptoId"`
	Name                 string  `json:"name"`
	Symbol               string  `json:"symbol"`
	Image                string  `json:"image"`
	Amount               float64 `json:"amount"`
	AverageBuyPrice      float64 `json:"averageBuyPrice"`
	CurrentPrice         float64 `json:"currentPrice"`
	TotalValue           float64 `json:"totalValue"`
	InvestmentValue      float64 `json:"investmentValue"`
	ProfitLoss           float64 `json:"profitLoss"`
	ProfitLossPercentage float64 `json:"profitLossPercentage"`
}

// Aggregate holds the sums over a set of valuations
type Aggregate struct {
	TotalValue      float64 `json:"totalValue"`
	ProfitLoss      float64 `json:"profitLoss"`
	InvestmentValue float64 `json:"investmentValue"`
}

// Valuate prices every position found in the market snapshot. Positions
// without a market entry are dropped. The result is sorted by TotalValue,
// highest first; equal values keep their input order.
func Valuate(positions []backend.PortfolioItem, snapshot []market.Cryptocurrency) []PositionValuation {
	byID := make(map[string]market.Cryptocurrency, len(snapshot))
	for _, c := range snapshot {
		if _, exists := byID[c.ID]; !exists {
			byID[c.ID] = c
		}
	}

	result := make([]PositionValuation, 0, len(positions))
	for _, p := range positions {
		crypto, ok := byID[p.CryptoID]
		if !ok {
			logger.Get().Warnf("Portfolio: no market data for %s, position excluded", p.CryptoID)
			metrics.RecordDroppedPosition()
			continue
		}
		result = append(result, valuate(p, crypto))
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].TotalValue > result[j].TotalValue
	})
	return result
}

func valuate(p backend.PortfolioItem, crypto market.Cryptocurrency) PositionValuation {
	amount := toDecimal(p.Amount)
	avgPrice := toDecimal(p.AverageBuyPrice)
	price := toDecimal(crypto.CurrentPrice)

	total := amount.Mul(price)
	investment := amount.Mul(avgPrice)
	profitLoss := total.Sub(investment)

	percentage := decimal.Zero
	if investment.IsPositive() {
		percentage = profitLoss.Div(investment).Mul(hundred)
	}

	return PositionValuation{
		CryptoID:             p.CryptoID,
		Name:                 crypto.Name,
		Symbol:               crypto.Symbol,
		Image:                crypto.Image,
		Amount:               amount.InexactFloat64(),
		AverageBuyPrice:      avgPrice.InexactFloat64(),
		CurrentPrice:         price.InexactFloat64(),
		TotalValue:           total.InexactFloat64(),
		InvestmentValue:      investment.InexactFloat64(),
		ProfitLoss:           profitLoss.InexactFloat64(),
		ProfitLossPercentage: percentage.InexactFloat64(),
	}
}

// Totals sums the valuations
func Totals(valuations []PositionValuation) Aggregate {
	total, profitLoss, investment := decimal.Zero, decimal.Zero, decimal.Zero
	for _, v := range valuations {
		total = total.Add(toDecimal(v.TotalValue))
		profitLoss = profitLoss.Add(toDecimal(v.ProfitLoss))
		investment = investment.Add(toDecimal(v.InvestmentValue))
	}
	return Aggregate{
		TotalValue:      total.InexactFloat64(),
		ProfitLoss:      profitLoss.InexactFloat64(),
		InvestmentValue: investment.InexactFloat64(),
	}
}

// PositionsValue is the market value of the positions found in the snapshot
func PositionsValue(positions []backend.PortfolioItem, snapshot []market.Cryptocurrency) float64 {
	return Totals(Valuate(positions, snapshot)).TotalValue
}

// toDecimal converts v, treating NaN and infinities as zero
func toDecimal(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}
