package http

import (
	"net/http"
	"strings"
	"time"

	"sharkfin/internal/log"
	"sharkfin/internal/session"
)

// handleLogin accepts a backend-issued API token and turns it into a
// session cookie. There is no credential flow here; minting tokens is the
// backend's business.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, r, "login.html", struct{ Error string }{})
	case http.MethodPost:
		s.handleLoginSubmit(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, r, "login.html", struct{ Error string }{Error: "Invalid request format"})
		return
	}

	token := strings.TrimSpace(r.Form.Get("token"))
	if token == "" {
		w.WriteHeader(http.StatusUnprocessableEntity)
		s.render(w, r, "login.html", struct{ Error string }{Error: "Token is required"})
		return
	}
	if session.TokenExpired(token, time.Now()) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		s.render(w, r, "login.html", struct{ Error string }{Error: "Token is already expired"})
		return
	}

	sess, err := s.sessions.Create(r.Context(), token, s.sessionTTL)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "session create failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		s.render(w, r, "login.html", struct{ Error string }{Error: "Could not create session"})
		return
	}

	s.logger.InfoContext(r.Context(), "session created", log.FieldSessionID, sess.ID)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleLogout drops the session and its cached data.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}

	if cookie, err := r.Cookie(sessionCookie); err == nil {
		if err := s.sessions.Delete(r.Context(), cookie.Value); err != nil {
			s.logger.ErrorContext(r.Context(), "session delete failed", "error", err)
		}
		s.invalidateSession(cookie.Value)
	}
	s.clearSession(w, r)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// invalidateSession drops every cache entry keyed under a session.
func (s *Server) invalidateSession(sessionID string) {
	s.catCache.Delete(sessionID)
	s.payeeCache.Delete(sessionID)
	// Range and filter keyed entries cannot be enumerated per session.
	s.dashCache.Purge()
	s.listCache.Purge()
}
