package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/consulago/dashboard-gateway/auth"
	"github.com/consulago/dashboard-gateway/session"
)

// sessionPayload is what the browser learns about its session. Tokens stay
// server-side; the client only sees the access-token horizon so it knows
// when a refresh is worth requesting.
type sessionPayload struct {
	UserID       string    `json:"userId"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Kind         string    `json:"userType"`
	Role         string    `json:"role"`
	AccessExpiry time.Time `json:"accessTokenExpires,omitzero"`
}

type apiLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type apiError struct {
	Error string `json:"error"`
}

func newSessionPayload(sess session.Session) sessionPayload {
	return sessionPayload{
		UserID:       sess.UserID,
		Email:        sess.Email,
		Name:         sess.Name,
		Kind:         string(sess.Kind),
		Role:         string(sess.Role),
		AccessExpiry: sess.Tokens.AccessExpiry,
	}
}

// APILoginHandler handles POST /api/auth/login with a JSON credential body.
func (s *Server) APILoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req apiLoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid request body"})
			return
		}

		sess, sessionID, err := s.verifier.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			status, message := authErrorStatus(err)
			writeJSON(w, status, apiError{Error: message})
			return
		}

		s.SetSessionCookie(w, r, sessionID)
		writeJSON(w, http.StatusOK, newSessionPayload(sess))
	}
}

// APIRefreshHandler handles POST /api/auth/refresh for the current session.
func (s *Server) APIRefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, _, ok := s.currentSession(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, apiError{Error: auth.NoSessionErr.Error()})
			return
		}

		pair, err := s.refresher.Refresh(r.Context(), sessionID)
		if err != nil {
			if errors.Is(err, auth.RefreshExpiredErr) || errors.Is(err, auth.NoSessionErr) {
				s.ClearSessionCookie(w, r)
			}
			status, message := authErrorStatus(err)
			writeJSON(w, status, apiError{Error: message})
			return
		}

		writeJSON(w, http.StatusOK, map[string]time.Time{"accessTokenExpires": pair.AccessExpiry})
	}
}

// APILogoutHandler handles POST /api/auth/logout. It serves both the page
// logout form (redirect back to login) and fetch callers (204).
func (s *Server) APILogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sessionID, _, ok := s.currentSession(r); ok {
			if err := s.store.Delete(sessionID); err != nil {
				log.Err(err).Msg("failed to delete session on logout")
			}
		}
		s.ClearSessionCookie(w, r)

		if isFormPost(r) {
			loc := s.locales.Resolve(r)
			http.Redirect(w, r, "/"+loc+s.config.GetLoginPath(), http.StatusSeeOther)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// APISessionHandler handles GET /api/auth/session.
func (s *Server) APISessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, sess, ok := s.currentSession(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, apiError{Error: auth.NoSessionErr.Error()})
			return
		}
		writeJSON(w, http.StatusOK, newSessionPayload(sess))
	}
}

func authErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ValidationErr):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, auth.InvalidCredentialsErr):
		return http.StatusUnauthorized, auth.InvalidCredentialsErr.Error()
	case errors.Is(err, auth.NoSessionErr):
		return http.StatusUnauthorized, auth.NoSessionErr.Error()
	case errors.Is(err, auth.RefreshExpiredErr):
		return http.StatusUnauthorized, auth.RefreshExpiredErr.Error()
	case errors.Is(err, auth.ServiceUnavailableErr):
		return http.StatusServiceUnavailable, auth.ServiceUnavailableErr.Error()
	default:
		return http.StatusInternalServerError, "unexpected error"
	}
}

func isFormPost(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") ||
		strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Err(err).Msg("failed to encode JSON response")
	}
}
