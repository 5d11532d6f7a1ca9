package market

import (
	"github.com/status-im/market-game/coinlore"
)

// Cryptocurrency is the normalized market record shown to the views
type Cryptocurrency struct {
	ID                       string  `json:"id"`
	Name                     string  `json:"name"`
	Symbol                   string  `json:"symbol"`
	CurrentPrice             float64 `json:"currentPrice"`
	MarketCap                float64 `json:"marketCap"`
	Volume24h                float64 `json:"volume24h"`
	PriceChangePercentage24h float64 `json:"priceChangePercentage24h"`
	Image                    string  `json:"image"`
}

// CryptoDetails extends Cryptocurrency with the per-asset fields
type CryptoDetails struct {
	Cryptocurrency
	Rank                    int     `json:"rank"`
	PriceChangePercentage1h float64 `json:"priceChangePercentage1h"`
	PriceChangePercentage7d float64 `json:"priceChangePercentage7d"`
	CirculatingSupply       float64 `json:"circulatingSupply"`
	TotalSupply             float64 `json:"totalSupply"`
	MaxSupply               float64 `json:"maxSupply"`
	ExternalID              string  `json:"externalId"`
}

// PriceHistoryPoint is one point of a SYNTHESIZED price series. The price
// API has no history endpoint: these values are a simulation derived from
// the current price and 24h change, not real historical data.
type PriceHistoryPoint struct {
	Timestamp int64   `json:"timestamp"` // unix ms
	Price     float64 `json:"price"`
}

// ImageURL is the icon template keyed by lowercase symbol
const ImageURL = "https://assets.coincap.io/assets/icons/%s@2x.png"

func fromTicker(t coinlore.Ticker) Cryptocurrency {
	return Cryptocurrency{
		ID:                       t.ID,
		Name:                     t.Name,
		Symbol:                   t.Symbol,
		CurrentPrice:             t.PriceUSD,
		MarketCap:                t.MarketCapUSD,
		Volume24h:                t.Volume24,
		PriceChangePercentage24h: t.PercentChange24h,
		Image:                    imageFor(t.Symbol),
	}
}

func detailsFromTicker(t coinlore.Ticker) CryptoDetails {
	return CryptoDetails{
		Cryptocurrency:          fromTicker(t),
		Rank:                    t.Rank,
		PriceChangePercentage1h: t.PercentChange1h,
		PriceChangePercentage7d: t.PercentChange7d,
		CirculatingSupply:       t.CirculatingSupply,
		TotalSupply:             t.TotalSupply,
		MaxSupply:               t.MaxSupply,
		ExternalID:              t.NumericID,
	}
}
