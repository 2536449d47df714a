package handler

import (
	"net/http"

	"github.com/google/uuid"
)

// Login handles GET /api/auth/login. It redirects the browser to the Google
// consent screen with a fresh state value for CSRF protection.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	s.stateMu.Lock()
	s.loginState = state
	s.stateMu.Unlock()

	http.Redirect(w, r, s.auth.LoginURL(state), http.StatusFound)
}

// AuthCallback handles GET /api/auth/callback, the OAuth redirect target. It
// verifies the state, exchanges the code, and sends the browser back to the
// app root.
func (s *Server) AuthCallback(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")

	s.stateMu.Lock()
	expected := s.loginState
	s.loginState = ""
	s.stateMu.Unlock()

	if expected == "" || state != expected {
		writeError(w, http.StatusBadRequest, "invalid_state", "login state mismatch, start the login again")
		return
	}
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing_code", "no authorization code in callback")
		return
	}

	if err := s.auth.Exchange(r.Context(), code); err != nil {
		respondError(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// Logout handles POST /api/auth/logout.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.Logout(); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"authenticated": false})
}

// AuthStatus handles GET /api/auth/status.
func (s *Server) AuthStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"authenticated": s.auth.IsAuthenticated(r.Context())})
}
