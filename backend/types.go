package backend

// PortfolioItem is a held position
type PortfolioItem struct {
	CryptoID        string  `json:"cryptoId"`
	Amount          float64 `json:"amount"`
	AverageBuyPrice float64 `json:"averageBuyPrice"`
}

// User is the signed-in player as reported by the backend
type User struct {
	ID               string          `json:"id"`
	Username         string          `json:"username"`
	Email            string          `json:"email"`
	Avatar           string          `json:"avatar,omitempty"`
	Balance          float64         `json:"balance"`
	Portfolio        []PortfolioItem `json:"portfolio"`
	Rank             *int            `json:"rank,omitempty"`
	ProfitPercentage *float64        `json:"profitPercentage,omitempty"`
	TotalValue       *float64        `json:"totalValue,omitempty"`
	// StartingBalance is reported by backends that track a per-user baseline
	StartingBalance *float64 `json:"startingBalance,omitempty"`
}

// Holding returns the amount held of cryptoID
func (u *User) Holding(cryptoID string) float64 {
	for _, item := range u.Portfolio {
		if item.CryptoID == cryptoID {
			return item.Amount
		}
	}
	return 0
}

// AuthResult is the outcome of login and registration
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// TradeType is buy or sell
type TradeType string

const (
	TradeBuy  TradeType = "buy"
	TradeSell TradeType = "sell"
)

// TradeRequest is the body of a buy or sell submission
type TradeRequest struct {
	CryptoID   string  `json:"cryptoId" validate:"required"`
	CryptoName string  `json:"cryptoName,omitempty"`
	Amount     float64 `json:"amount" validate:"gt=0"`
	Price      float64 `json:"price" validate:"gt=0"`
}

// Transaction is one entry of the trade history
type Transaction struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	CryptoID     string    `json:"cryptoId"`
	CryptoName   string    `json:"cryptoName"`
	CryptoSymbol string    `json:"cryptoSymbol"`
	Type         TradeType `json:"type"`
	Amount       float64   `json:"amount"`
	Price        float64   `json:"price"`
	Date         string    `json:"date"`
}

// PortfolioSnapshot is the server view of the user's holdings
type PortfolioSnapshot struct {
	Balance          float64         `json:"balance"`
	Portfolio        []PortfolioItem `json:"portfolio"`
	PortfolioValue   *float64        `json:"portfolioValue,omitempty"`
	TotalValue       *float64        `json:"totalValue,omitempty"`
	ProfitPercentage *float64        `json:"profitPercentage,omitempty"`
	Rank             *int            `json:"rank,omitempty"`
}

// rawUser accepts both record shapes served by the backend
type rawUser struct {
	MongoID          string          `json:"_id"`
	ID               string          `json:"id"`
	Username         string          `json:"username"`
	Name             string          `json:"name"`
	Email            string          `json:"email"`
	Avatar           string          `json:"avatar"`
	Balance          float64         `json:"balance"`
	Portfolio        []PortfolioItem `json:"portfolio"`
	Rank             *int            `json:"rank"`
	ProfitPercentage *float64        `json:"profitPercentage"`
	TotalValue       *float64        `json:"totalValue"`
	StartingBalance  *float64        `json:"startingBalance"`
}

const defaultUsername = "User"

func (r rawUser) user() User {
	u := User{
		ID:               r.MongoID,
		Username:         r.Username,
		Email:            r.Email,
		Avatar:           r.Avatar,
		Balance:          r.Balance,
		Portfolio:        r.Portfolio,
		Rank:             r.Rank,
		ProfitPercentage: r.ProfitPercentage,
		TotalValue:       r.TotalValue,
		StartingBalance:  r.StartingBalance,
	}
	if u.ID == "" {
		u.ID = r.ID
	}
	if u.Username == "" {
		u.Username = r.Name
	}
	if u.Username == "" {
		u.Username = defaultUsername
	}
	if u.Portfolio == nil {
		u.Portfolio = []PortfolioItem{}
	}
	return u
}

type rawTransaction struct {
	MongoID      string    `json:"_id"`
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	CryptoID     string    `json:"cryptoId"`
	CryptoName   string    `json:"cryptoName"`
	CryptoSymbol string    `json:"cryptoSymbol"`
	Type         TradeType `json:"type"`
	Amount       float64   `json:"amount"`
	Price        float64   `json:"price"`
	Date         string    `json:"date"`
	Timestamp    int64     `json:"timestamp"`
}

// errorBody is the structured failure envelope
type errorBody struct {
	Success *bool  `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Error   string `json:"error"`
}
