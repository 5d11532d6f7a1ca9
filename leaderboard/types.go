// Package leaderboard merges the server standings with the local valuation
// of the signed-in user.
package leaderboard

import "time"

// Entry is one row of the leaderboard
type Entry struct {
	Rank             int     `json:"rank"`
	UserID           string  `json:"userId"`
	Username         string  `json:"username"`
	Avatar           string  `json:"avatar,omitempty"`
	Balance          float64 `json:"balance"`
	PortfolioValue   float64 `json:"portfolioValue"`
	TotalValue       float64 `json:"totalValue"`
	ProfitPercentage float64 `json:"profitPercentage"`
	IsCurrentUser    bool    `json:"isCurrentUser"`
}

// Board is a loaded leaderboard. Degraded marks the built-in standings
// served when the backend could not be reached.
type Board struct {
	Entries   []Entry   `json:"entries"`
	Degraded  bool      `json:"degraded"`
	UpdatedAt time.Time `json:"updatedAt"`
}
