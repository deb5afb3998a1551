package server

import (
	"net/http"

	"github.com/consulago/dashboard-gateway/session"
)

const (
	// sessionCookieName carries the opaque session ID for the dashboard UI
	sessionCookieName = "consular_session"

	// Thirty days; the refresh token inside the session bounds the real
	// lifetime, this only bounds the cookie.
	sessionCookieMaxAge = 30 * 24 * 60 * 60
)

func (s *Server) SetSessionCookie(w http.ResponseWriter, r *http.Request, sessionID string) {
	isSecure := getScheme(r) == "https"

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   sessionCookieMaxAge,
	})
}

func (s *Server) ClearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// currentSession resolves the request's session cookie against the store.
func (s *Server) currentSession(r *http.Request) (string, session.Session, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", session.Session{}, false
	}
	sess, err := s.store.Get(cookie.Value)
	if err != nil {
		return "", session.Session{}, false
	}
	return cookie.Value, sess, true
}
