package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/status-im/market-game/backend"
	"github.com/status-im/market-game/trading"
)

// handleTrade submits a buy or sell. Failures carry the user facing message.
func (s *Server) handleTrade(w http.ResponseWriter, r *http.Request) {
	var req backend.TradeRequest
	if err := decodeBody(r, &req); err != nil {
		s.sendError(w, err, "")
		return
	}

	var (
		user backend.User
		err  error
	)
	switch backend.TradeType(mux.Vars(r)["type"]) {
	case backend.TradeBuy:
		user, err = s.trading.Buy(r.Context(), req)
	default:
		user, err = s.trading.Sell(r.Context(), req)
	}
	if err != nil {
		s.sendError(w, err, trading.UserMessage(err))
		return
	}

	s.sendJSONResponse(w, user)
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	history, err := s.trading.History(r.Context())
	if err != nil {
		s.sendError(w, err, "")
		return
	}
	s.sendJSONResponse(w, history)
}
