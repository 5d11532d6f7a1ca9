package api

import (
	"net/http"

	"github.com/status-im/market-game/backend"
)

// sessionView is what the navigation and profile screens render
type sessionView struct {
	Authenticated bool          `json:"authenticated"`
	Loading       bool          `json:"loading"`
	DarkMode      bool          `json:"darkMode"`
	User          *backend.User `json:"user,omitempty"`
}

type credentials struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type themeRequest struct {
	DarkMode bool `json:"darkMode"`
}

func (s *Server) sessionView() sessionView {
	return sessionView{
		Authenticated: s.session.IsAuthenticated(),
		Loading:       s.session.IsLoading(),
		DarkMode:      s.session.DarkMode(),
		User:          s.session.CurrentUser(),
	}
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	s.sendJSONResponse(w, s.sessionView())
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := decodeBody(r, &body); err != nil {
		s.sendError(w, err, "")
		return
	}
	if _, err := s.session.Login(r.Context(), body.Email, body.Password); err != nil {
		s.sendError(w, err, "")
		return
	}
	s.sendJSONResponse(w, s.sessionView())
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := decodeBody(r, &body); err != nil {
		s.sendError(w, err, "")
		return
	}
	if _, err := s.session.Register(r.Context(), body.Username, body.Email, body.Password); err != nil {
		s.sendError(w, err, "")
		return
	}
	s.sendJSONResponse(w, s.sessionView())
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Logout(r.Context()); err != nil {
		s.sendError(w, err, "")
		return
	}
	s.sendJSONResponse(w, s.sessionView())
}

func (s *Server) handleSessionRefresh(w http.ResponseWriter, r *http.Request) {
	if _, err := s.session.Refresh(r.Context()); err != nil {
		s.sendError(w, err, "")
		return
	}
	s.sendJSONResponse(w, s.sessionView())
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	var body themeRequest
	if err := decodeBody(r, &body); err != nil {
		s.sendError(w, err, "")
		return
	}
	if err := s.session.SetDarkMode(r.Context(), body.DarkMode); err != nil {
		s.sendError(w, err, "")
		return
	}
	s.sendJSONResponse(w, s.sessionView())
}
