package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/consulago/dashboard-gateway/auth"
	"github.com/consulago/dashboard-gateway/routes"
)

// Gate is the route-gating middleware for page routes. Per request it runs,
// in order: classification, the redirect decision, then locale handling.
// The decision is evaluated fresh every time; session presence changes
// between requests and must never be cached.
func (s *Server) Gate() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			classification := s.classifier.Classify(r.URL.Path)
			sessionID, sess, hasSession := s.currentSession(r)

			// Lazy refresh: when the access token is about to lapse, mint a
			// new pair before rendering. A terminal failure clears the
			// session, which the decision below observes as "no session".
			if hasSession && sess.Tokens.ExpiresWithin(time.Now(), s.config.GetRefreshLeeway()) {
				if _, err := s.refresher.Refresh(r.Context(), sessionID); err != nil {
					if errors.Is(err, auth.RefreshExpiredErr) || errors.Is(err, auth.NoSessionErr) {
						s.ClearSessionCookie(w, r)
						hasSession = false
					}
					// On outages the stale token is kept; the API proxy
					// retries the refresh reactively.
				} else if refreshed, getErr := s.store.Get(sessionID); getErr == nil {
					sess = refreshed
				}
			}

			decision := s.policy.Decide(classification, hasSession, r.URL.RequestURI())
			if decision.Redirect {
				http.Redirect(w, r, decision.Location, http.StatusSeeOther)
				return
			}

			// Pass-through with a locale-less URL: append the resolved
			// locale segment. Orthogonal to the auth redirects above and
			// only ever reached once the decision allowed the request.
			prefix := routes.LocalePrefix(r.URL.Path, s.config.GetLocales())
			if prefix == "" {
				http.Redirect(w, r, s.localeTarget(r), http.StatusTemporaryRedirect)
				return
			}

			// The URL's own locale segment wins over cookie and header.
			ctx := context.WithValue(r.Context(), ContextKeyLocale, strings.TrimPrefix(prefix, "/"))
			if hasSession {
				ctx = context.WithValue(ctx, ContextKeySessionID, sessionID)
				ctx = context.WithValue(ctx, ContextKeySession, sess)
			}
			next(w, r.WithContext(ctx))
		}
	}
}

func (s *Server) localeTarget(r *http.Request) string {
	loc := s.locales.Resolve(r)
	uri := r.URL.RequestURI()
	if uri == "/" {
		return "/" + loc
	}
	return "/" + loc + uri
}
