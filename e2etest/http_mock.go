package e2etest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
)

const (
	// Paths the services are configured with on the mock server
	PriceAPIPath = "/price"
	BackendPath  = "/backend"

	mockToken    = "e2e-token"
	mockEmail    = "alice@example.com"
	mockPassword = "secret"
)

// MockServer plays both the public price API and the game backend
type MockServer struct {
	server *httptest.Server

	mu           sync.Mutex
	Tickers      []map[string]interface{}
	Balance      float64
	Portfolio    map[string]*holding
	Transactions []map[string]interface{}
	PriceAPIDown bool

	priceRequests int32
}

type holding struct {
	Amount          float64 `json:"amount"`
	AverageBuyPrice float64 `json:"averageBuyPrice"`
}

// NewMockServer creates and starts a mock server with one account
func NewMockServer() *MockServer {
	ms := &MockServer{
		Tickers:   defaultTickers(),
		Balance:   10000,
		Portfolio: map[string]*holding{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc(PriceAPIPath+"/tickers/", ms.handleTickers)
	mux.HandleFunc(PriceAPIPath+"/ticker/", ms.handleTicker)
	mux.HandleFunc(BackendPath+"/auth/login", ms.handleLogin)
	mux.HandleFunc(BackendPath+"/auth/me", ms.authenticated(ms.handleMe))
	mux.HandleFunc(BackendPath+"/transactions/buy", ms.authenticated(ms.handleTrade("buy")))
	mux.HandleFunc(BackendPath+"/transactions/sell", ms.authenticated(ms.handleTrade("sell")))
	mux.HandleFunc(BackendPath+"/transactions/history", ms.authenticated(ms.handleHistory))
	mux.HandleFunc(BackendPath+"/users/portfolio", ms.authenticated(ms.handlePortfolio))
	mux.HandleFunc(BackendPath+"/users/leaderboard", ms.authenticated(ms.handleLeaderboard))

	ms.server = httptest.NewServer(mux)
	return ms
}

func (ms *MockServer) GetURL() string {
	return ms.server.URL
}

func (ms *MockServer) Close() {
	ms.server.Close()
}

// PriceRequests returns how many price API calls were served
func (ms *MockServer) PriceRequests() int {
	return int(atomic.LoadInt32(&ms.priceRequests))
}

func (ms *MockServer) SetPriceAPIDown(down bool) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.PriceAPIDown = down
}

func defaultTickers() []map[string]interface{} {
	return []map[string]interface{}{
		{"id": "90", "symbol": "BTC", "name": "Bitcoin", "nameid": "bitcoin", "rank": 1,
			"price_usd": "25000.00", "percent_change_24h": "2.50", "percent_change_1h": "0.10",
			"percent_change_7d": "5.00", "market_cap_usd": "480000000000", "volume24": 12000000000,
			"csupply": "19000000", "tsupply": "19000000", "msupply": "21000000"},
		{"id": "80", "symbol": "ETH", "name": "Ethereum", "nameid": "ethereum", "rank": 2,
			"price_usd": "1500.00", "percent_change_24h": "-1.20", "market_cap_usd": "180000000000",
			"volume24": 6000000000, "csupply": "120000000", "tsupply": "120000000", "msupply": ""},
	}
}

func (ms *MockServer) priceAvailable(w http.ResponseWriter) bool {
	atomic.AddInt32(&ms.priceRequests, 1)
	ms.mu.Lock()
	down := ms.PriceAPIDown
	ms.mu.Unlock()
	if down {
		// 404 is not retried by the fetcher
		http.Error(w, "unavailable", http.StatusNotFound)
		return false
	}
	return true
}

func (ms *MockServer) handleTickers(w http.ResponseWriter, r *http.Request) {
	if !ms.priceAvailable(w) {
		return
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": ms.Tickers})
}

func (ms *MockServer) handleTicker(w http.ResponseWriter, r *http.Request) {
	if !ms.priceAvailable(w) {
		return
	}
	id := r.URL.Query().Get("id")
	ms.mu.Lock()
	defer ms.mu.Unlock()
	for _, t := range ms.Tickers {
		if t["id"] == id {
			writeJSON(w, http.StatusOK, []map[string]interface{}{t})
			return
		}
	}
	writeJSON(w, http.StatusOK, []map[string]interface{}{})
}

func (ms *MockServer) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+mockToken {
			writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "message": "Not authorized"})
			return
		}
		next(w, r)
	}
}

func (ms *MockServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	if body.Email != mockEmail || body.Password != mockPassword {
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "message": "Invalid credentials"})
		return
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    map[string]interface{}{"token": mockToken, "user": ms.userLocked()},
	})
}

func (ms *MockServer) handleMe(w http.ResponseWriter, r *http.Request) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": ms.userLocked()})
}

func (ms *MockServer) handleTrade(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			CryptoID   string  `json:"cryptoId"`
			CryptoName string  `json:"cryptoName"`
			Amount     float64 `json:"amount"`
			Price      float64 `json:"price"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "message": "bad body"})
			return
		}

		ms.mu.Lock()
		defer ms.mu.Unlock()
		cost := body.Amount * body.Price
		h := ms.Portfolio[body.CryptoID]
		switch kind {
		case "buy":
			if cost > ms.Balance {
				writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "code": "INSUFFICIENT_FUNDS", "message": "Insufficient funds"})
				return
			}
			if h == nil {
				h = &holding{}
				ms.Portfolio[body.CryptoID] = h
			}
			h.AverageBuyPrice = (h.Amount*h.AverageBuyPrice + cost) / (h.Amount + body.Amount)
			h.Amount += body.Amount
			ms.Balance -= cost
		case "sell":
			if h == nil || h.Amount < body.Amount {
				writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "message": "Not enough holdings"})
				return
			}
			h.Amount -= body.Amount
			if h.Amount == 0 {
				delete(ms.Portfolio, body.CryptoID)
			}
			ms.Balance += cost
		}

		ms.Transactions = append([]map[string]interface{}{{
			"_id":        "tx" + strings.Repeat("1", len(ms.Transactions)+1),
			"cryptoId":   body.CryptoID,
			"cryptoName": body.CryptoName,
			"type":       kind,
			"amount":     body.Amount,
			"price":      body.Price,
			"timestamp":  1700000000000,
		}}, ms.Transactions...)
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
	}
}

func (ms *MockServer) handleHistory(w http.ResponseWriter, r *http.Request) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": ms.Transactions})
}

func (ms *MockServer) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	user := ms.userLocked()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"balance":   user["balance"],
			"portfolio": user["portfolio"],
		},
	})
}

// SetHoldings changes the account behind the client's back
func (ms *MockServer) SetHoldings(balance float64, holdings map[string]float64) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.Balance = balance
	ms.Portfolio = map[string]*holding{}
	for id, amount := range holdings {
		ms.Portfolio[id] = &holding{Amount: amount, AverageBuyPrice: 1000}
	}
}

func (ms *MockServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": []map[string]interface{}{
			{"rank": 1, "userId": "u9", "username": "whale", "balance": 50000, "portfolioValue": 10000, "profitPercentage": 500},
			{"rank": 2, "_id": "u1", "username": "alice", "balance": ms.Balance, "portfolioValue": 0, "profitPercentage": 0},
		},
	})
}

func (ms *MockServer) userLocked() map[string]interface{} {
	portfolio := []map[string]interface{}{}
	for id, h := range ms.Portfolio {
		portfolio = append(portfolio, map[string]interface{}{
			"cryptoId":        id,
			"amount":          h.Amount,
			"averageBuyPrice": h.AverageBuyPrice,
		})
	}
	return map[string]interface{}{
		"_id":       "u1",
		"username":  "alice",
		"email":     mockEmail,
		"balance":   ms.Balance,
		"portfolio": portfolio,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
