package market

import (
	"hash/fnv"
	"math"
	"math/rand"
	"time"
)

const (
	// historyVolatility bounds the noise to ±2% of the trend price
	historyVolatility = 0.02
	// minDailyFactor keeps the trend positive for changes of -99% or worse
	minDailyFactor = 0.01
	// MaxHistoryDays caps the synthesized window
	MaxHistoryDays = 365
)

// SynthesizeHistory builds an hourly SIMULATED series of days*24+1 points
// ending at now with exactly currentPrice. The trend compounds the 24h
// change daily; the noise is seeded from change24h and seedID so the same
// input always yields the same series. Invalid input yields an empty series.
func SynthesizeHistory(currentPrice, change24h float64, seedID string, days int, now time.Time) []PriceHistoryPoint {
	if days <= 0 || !isFinite(currentPrice) || currentPrice <= 0 {
		return []PriceHistoryPoint{}
	}
	if days > MaxHistoryDays {
		days = MaxHistoryDays
	}
	if !isFinite(change24h) {
		change24h = 0
	}

	factor := 1 + change24h/100
	if factor < minDailyFactor {
		factor = minDailyFactor
	}
	startPrice := currentPrice / math.Pow(factor, float64(days))

	rng := rand.New(rand.NewSource(historySeed(change24h, seedID)))
	hours := days * 24
	startTime := now.Add(-time.Duration(hours) * time.Hour)

	points := make([]PriceHistoryPoint, hours+1)
	for i := 0; i <= hours; i++ {
		trend := startPrice * math.Pow(factor, float64(i)/24)
		noise := (rng.Float64()*2 - 1) * historyVolatility * trend
		points[i] = PriceHistoryPoint{
			Timestamp: startTime.Add(time.Duration(i) * time.Hour).UnixMilli(),
			Price:     trend + noise,
		}
	}
	points[hours].Price = currentPrice

	return points
}

func historySeed(change24h float64, seedID string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(seedID))
	return int64(h.Sum64() ^ math.Float64bits(change24h))
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
