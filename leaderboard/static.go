package leaderboard

type staticEntry struct {
	userID           string
	username         string
	avatar           string
	balance          float64
	profitPercentage float64
}

const avatarBase = "https://randomuser.me/api/portraits/"

var staticStandings = []staticEntry{
	{"user_2", "CryptoWhale", "men/22.jpg", 145750, 45.75},
	{"user_7", "BitcoinBaron", "men/32.jpg", 132680, 32.68},
	{"user_3", "CryptoQueen", "women/15.jpg", 124930, 24.93},
	{"user_1", "TestUser", "men/1.jpg", 112000, 12.0},
	{"user_8", "DeFiDiva", "women/22.jpg", 108450, 8.45},
	{"user_4", "Hodler", "men/44.jpg", 106320, 6.32},
	{"user_9", "SatoshiFan", "men/36.jpg", 103750, 3.75},
	{"user_10", "AltcoinAnnie", "women/36.jpg", 101200, 1.20},
	{"user_5", "TraderPro", "men/50.jpg", 98500, -1.5},
	{"user_11", "TokenTrader", "men/62.jpg", 95800, -4.2},
	{"user_12", "CryptoCadet", "women/48.jpg", 92400, -7.6},
	{"user_13", "BlockchainBob", "men/78.jpg", 89600, -10.4},
	{"user_14", "NFTNelly", "women/76.jpg", 86900, -13.1},
	{"user_15", "MetaMike", "men/91.jpg", 84200, -15.8},
}

// StaticBoard returns the built-in standings used in degraded mode. Nobody
// holds positions there: portfolioValue is 0 and totalValue equals balance.
func StaticBoard() []Entry {
	entries := make([]Entry, 0, len(staticStandings))
	for i, s := range staticStandings {
		entries = append(entries, Entry{
			Rank:             i + 1,
			UserID:           s.userID,
			Username:         s.username,
			Avatar:           avatarBase + s.avatar,
			Balance:          s.balance,
			PortfolioValue:   0,
			TotalValue:       s.balance,
			ProfitPercentage: s.profitPercentage,
		})
	}
	return entries
}
