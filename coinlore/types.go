package coinlore

// Ticker is a validated price API record. Every field is populated:
// numeric fields default to 0 and strings to placeholders.
type Ticker struct {
	NumericID         string
	ID                string // game asset id
	Symbol            string
	Name              string
	Rank              int
	PriceUSD          float64
	PercentChange1h   float64
	PercentChange24h  float64
	PercentChange7d   float64
	MarketCapUSD      float64
	Volume24          float64
	CirculatingSupply float64
	TotalSupply       float64
	MaxSupply         float64
}

// tickersResponse is the envelope of the list endpoint
type tickersResponse struct {
	Data []map[string]interface{} `json:"data"`
}

// Placeholders for absent string fields
const (
	PlaceholderID     = "unknown"
	PlaceholderSymbol = "UNK"
	PlaceholderName   = "Unknown"
	PlaceholderImage  = "https://via.placeholder.com/32"
)
