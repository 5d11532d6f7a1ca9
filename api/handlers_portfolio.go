package api

import (
	"net/http"

	"github.com/status-im/market-game/apperrors"
	"github.com/status-im/market-game/logger"
	"github.com/status-im/market-game/portfolio"
)

const signInToSeePortfolio = "sign in to see your portfolio"

// handlePortfolio values the backend's current holdings. When the backend is
// unreachable the last known user is valued instead.
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	if !s.session.IsAuthenticated() {
		s.sendError(w, apperrors.New(apperrors.KindAuthRequired, signInToSeePortfolio), "")
		return
	}

	if _, err := s.session.RefreshPortfolio(r.Context()); err != nil {
		if apperrors.Is(err, apperrors.KindAuthRequired) {
			s.sendError(w, err, signInToSeePortfolio)
			return
		}
		logger.Get().Warnf("API: using last known portfolio: %v", err)
	}
	user := s.session.CurrentUser()
	if user == nil {
		s.sendError(w, apperrors.New(apperrors.KindAuthRequired, signInToSeePortfolio), "")
		return
	}

	snapshot := s.market.FetchTopCryptos(r.Context(), 0)
	s.sendJSONResponse(w, portfolio.Summarize(*user, snapshot, s.game.StartingBalance))
}

// handleLeaderboard never fails: a backend outage yields the static standings
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	s.sendJSONResponse(w, s.leaderboard.Load(r.Context(), s.session.CurrentUser()))
}
