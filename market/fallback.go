package market

import (
	"fmt"
	"strings"

	"github.com/status-im/market-game/coinlore"
)

// builtinTopCryptos is served when neither the network nor any cached
// snapshot is available, so the market view never renders empty
var builtinTopCryptos = []Cryptocurrency{
	{ID: "bitcoin", Symbol: "BTC", Name: "Bitcoin", CurrentPrice: 50000, MarketCap: 1000000000000},
	{ID: "ethereum", Symbol: "ETH", Name: "Ethereum", CurrentPrice: 2000, MarketCap: 500000000000},
	{ID: "ripple", Symbol: "XRP", Name: "XRP", CurrentPrice: 0.5, MarketCap: 50000000000},
	{ID: "cardano", Symbol: "ADA", Name: "Cardano", CurrentPrice: 1.2, MarketCap: 40000000000},
	{ID: "solana", Symbol: "SOL", Name: "Solana", CurrentPrice: 100, MarketCap: 30000000000},
}

// BuiltinTopCryptos returns a copy of the hardcoded last-resort list
func BuiltinTopCryptos() []Cryptocurrency {
	list := make([]Cryptocurrency, len(builtinTopCryptos))
	copy(list, builtinTopCryptos)
	for i := range list {
		list[i].Image = imageFor(list[i].Symbol)
	}
	return list
}

func imageFor(symbol string) string {
	if symbol == "" || symbol == coinlore.PlaceholderSymbol {
		return coinlore.PlaceholderImage
	}
	return fmt.Sprintf(ImageURL, strings.ToLower(symbol))
}

func truncate(list []Cryptocurrency, limit int) []Cryptocurrency {
	if limit > 0 && len(list) > limit {
		return list[:limit]
	}
	return list
}
