package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/status-im/market-game/market"
)

// handleMarket serves the top-N list. ids narrows it to the given asset ids,
// search filters by id, name or symbol.
func (s *Server) handleMarket(w http.ResponseWriter, r *http.Request) {
	limit, err := getParamInt(r, "limit", 0)
	if err != nil {
		s.sendError(w, err, "")
		return
	}

	cryptos := s.market.FetchTopCryptos(r.Context(), limit)
	cryptos = filterByIDs(cryptos, splitParamLowercase(getParamLowercase(r, "ids")))
	cryptos = filterBySearch(cryptos, getParamLowercase(r, "search"))

	s.sendJSONResponse(w, cryptos)
}

func (s *Server) handleMarketDetails(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	details, err := s.market.FetchCryptoDetails(r.Context(), id)
	if err != nil {
		s.sendError(w, err, "")
		return
	}
	s.sendJSONResponse(w, details)
}

// handleMarketHistory serves the synthesized chart series
func (s *Server) handleMarketHistory(w http.ResponseWriter, r *http.Request) {
	days, err := getParamInt(r, "days", s.game.HistoryDays)
	if err != nil {
		s.sendError(w, err, "")
		return
	}
	if days > market.MaxHistoryDays {
		days = market.MaxHistoryDays
	}

	id := mux.Vars(r)["id"]
	s.sendJSONResponse(w, map[string]interface{}{
		"id":        id,
		"days":      days,
		"simulated": true,
		"points":    s.market.FetchCryptoPriceHistory(r.Context(), id, days),
	})
}

// handleMarketRefresh drops the cached market data and returns a new
// snapshot. Connected views get the new snapshot without waiting for their
// next poll.
func (s *Server) handleMarketRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.market.ClearCryptoCache(r.Context()); err != nil {
		s.sendError(w, err, "")
		return
	}
	snapshot := s.market.FetchTopCryptos(r.Context(), 0)
	s.hub.RefreshMarket()
	s.sendJSONResponse(w, snapshot)
}

func filterByIDs(cryptos []market.Cryptocurrency, ids []string) []market.Cryptocurrency {
	if len(ids) == 0 {
		return cryptos
	}
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	result := []market.Cryptocurrency{}
	for _, c := range cryptos {
		if _, ok := wanted[strings.ToLower(c.ID)]; ok {
			result = append(result, c)
		}
	}
	return result
}

func filterBySearch(cryptos []market.Cryptocurrency, query string) []market.Cryptocurrency {
	query = strings.TrimSpace(query)
	if query == "" {
		return cryptos
	}

	result := []market.Cryptocurrency{}
	for _, c := range cryptos {
		if strings.Contains(strings.ToLower(c.ID), query) ||
			strings.Contains(strings.ToLower(c.Name), query) ||
			strings.Contains(strings.ToLower(c.Symbol), query) {
			result = append(result, c)
		}
	}
	return result
}
