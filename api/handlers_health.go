package api

import (
	"net/http"
)

// handleHealth reports the price API state and whether a user is signed in
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	priceAPI := "degraded"
	if s.market.Healthy() {
		priceAPI = "up"
	}

	session := "signed_out"
	if s.session.IsAuthenticated() {
		session = "signed_in"
	}

	s.sendJSONResponse(w, map[string]interface{}{
		"status": "ok",
		"services": map[string]string{
			"price_api": priceAPI,
			"session":   session,
		},
	})
}
