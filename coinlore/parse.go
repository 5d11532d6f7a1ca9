package coinlore

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/status-im/market-game/apperrors"
)

// ParseTicker validates one raw price API record. It returns a fully
// populated Ticker or a MalformedUpstreamData error when the record carries
// no identifier at all.
func ParseTicker(raw map[string]interface{}) (Ticker, error) {
	if raw == nil {
		return Ticker{}, apperrors.New(apperrors.KindMalformedUpstreamData, "empty ticker record")
	}

	numericID := getStringFromMap(raw, "id")
	nameID := strings.ToLower(getStringFromMap(raw, "nameid"))
	if numericID == "" && nameID == "" {
		return Ticker{}, apperrors.New(apperrors.KindMalformedUpstreamData, "ticker record has no identifier")
	}

	id, ok := InternalID(numericID)
	if !ok {
		id = nameID
	}
	if id == "" {
		id = PlaceholderID
	}

	symbol := strings.ToUpper(getStringFromMap(raw, "symbol"))
	if symbol == "" {
		symbol = PlaceholderSymbol
	}
	name := getStringFromMap(raw, "name")
	if name == "" {
		name = PlaceholderName
	}

	return Ticker{
		NumericID:         numericID,
		ID:                id,
		Symbol:            symbol,
		Name:              name,
		Rank:              int(getFloatFromMap(raw, "rank")),
		PriceUSD:          nonNegative(getFloatFromMap(raw, "price_usd")),
		PercentChange1h:   getFloatFromMap(raw, "percent_change_1h"),
		PercentChange24h:  getFloatFromMap(raw, "percent_change_24h"),
		PercentChange7d:   getFloatFromMap(raw, "percent_change_7d"),
		MarketCapUSD:      nonNegative(getFloatFromMap(raw, "market_cap_usd")),
		Volume24:          nonNegative(getFloatFromMap(raw, "volume24")),
		CirculatingSupply: nonNegative(getFloatFromMap(raw, "csupply")),
		TotalSupply:       nonNegative(getFloatFromMap(raw, "tsupply")),
		MaxSupply:         nonNegative(getFloatFromMap(raw, "msupply")),
	}, nil
}

// getStringFromMap accepts strings and numbers, the API mixes both for ids
func getStringFromMap(m map[string]interface{}, key string) string {
	switch v := m[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	}
	return ""
}

// getFloatFromMap accepts numbers and numeric strings. Anything else,
// including NaN and infinities, is 0.
func getFloatFromMap(m map[string]interface{}, key string) float64 {
	var f float64
	switch v := m[key].(type) {
	case float64:
		f = v
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func nonNegative(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}
