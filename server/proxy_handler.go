package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/consulago/dashboard-gateway/auth"
	"github.com/consulago/dashboard-gateway/routes"
)

// ProxyHandler forwards dashboard data requests to the backend with the
// session's bearer access token. A 401 from the backend triggers exactly one
// refresh-then-retry; if the refresh is terminal the session cookie is
// cleared and the client gets a 401 telling it to sign in again.
func (s *Server) ProxyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// /api/auth/* is served by its own handlers; an unknown auth
		// endpoint landing here is a 404, not a proxy call.
		if s.classifier.Classify(r.URL.Path) == routes.APIAuthRoute {
			writeJSON(w, http.StatusNotFound, apiError{Error: "not found"})
			return
		}

		sessionID, sess, ok := s.currentSession(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, apiError{Error: auth.NoSessionErr.Error()})
			return
		}

		backendPath := strings.TrimPrefix(r.URL.Path, "/api")
		if r.URL.RawQuery != "" {
			backendPath += "?" + r.URL.RawQuery
		}

		// Buffer the body so a retry after refresh can resend it.
		var body []byte
		if r.Body != nil {
			var err error
			body, err = io.ReadAll(io.LimitReader(r.Body, 10<<20))
			if err != nil {
				writeJSON(w, http.StatusBadRequest, apiError{Error: "unreadable request body"})
				return
			}
		}

		resp, err := s.backend.Do(r.Context(), r.Method, backendPath, sess.Tokens.AccessToken, bodyReader(body))
		if err != nil {
			writeJSON(w, http.StatusBadGateway, apiError{Error: "backend unavailable"})
			return
		}

		if resp.StatusCode == http.StatusUnauthorized {
			resp.Body.Close()

			pair, refreshErr := s.refresher.Refresh(r.Context(), sessionID)
			if refreshErr != nil {
				if errors.Is(refreshErr, auth.RefreshExpiredErr) || errors.Is(refreshErr, auth.NoSessionErr) {
					s.ClearSessionCookie(w, r)
				}
				status, message := authErrorStatus(refreshErr)
				writeJSON(w, status, apiError{Error: message})
				return
			}

			resp, err = s.backend.Do(r.Context(), r.Method, backendPath, pair.AccessToken, bodyReader(body))
			if err != nil {
				writeJSON(w, http.StatusBadGateway, apiError{Error: "backend unavailable"})
				return
			}
		}
		defer resp.Body.Close()

		copyHeader(w.Header(), resp.Header, "Content-Type")
		copyHeader(w.Header(), resp.Header, "Cache-Control")
		w.WriteHeader(resp.StatusCode)
		if _, err := io.Copy(w, resp.Body); err != nil {
			log.Err(err).Str("path", backendPath).Msg("failed to stream backend response")
		}
	}
}

func bodyReader(body []byte) io.Reader {
	if len(body) == 0 {
		return nil
	}
	return strings.NewReader(string(body))
}

func copyHeader(dst, src http.Header, key string) {
	if value := src.Get(key); value != "" {
		dst.Set(key, value)
	}
}
