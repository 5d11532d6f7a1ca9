package api

import (
	"context"
	"net/http"

	"github.com/status-im/market-game/logger"
	"github.com/status-im/market-game/scheduler"
)

// handleWebSocket streams market snapshots and the session to one view. Each connection
// polls on its own schedule, which stops when the view disconnects.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Get().Warnf("API: websocket upgrade failed: %v", err)
		return
	}
	client := s.hub.Add(conn)

	scope := scheduler.NewScope(s.ctx, "ws")
	defer func() {
		scope.Close()
		s.hub.Remove(client)
	}()

	if err := client.Send(Message{Type: MessageSession, Data: s.sessionView()}); err != nil {
		return
	}

	client.pollMarketWith(scope.Every("market", s.game.PollInterval, true, func(ctx context.Context) {
		snapshot := s.market.FetchTopCryptos(ctx, 0)
		if err := client.Send(Message{Type: MessageMarket, Data: snapshot}); err != nil {
			logger.Get().Debugf("API: market push failed: %v", err)
		}
	}))

	// Balance and positions change on the backend; the session event pushes
	// the refreshed user to every view.
	scope.Every("user", s.game.PollInterval, false, func(ctx context.Context) {
		if !s.session.IsAuthenticated() {
			return
		}
		if _, err := s.session.RefreshPortfolio(ctx); err != nil {
			logger.Get().Debugf("API: user refresh failed: %v", err)
		}
	})

	// Reads only detect the disconnect
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
