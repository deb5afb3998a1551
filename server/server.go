// Package server wires the gate middleware, the page handlers and the JSON
// auth endpoints of the consular dashboard in front of the backend REST API.
package server

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/consulago/dashboard-gateway/auth"
	"github.com/consulago/dashboard-gateway/backend"
	"github.com/consulago/dashboard-gateway/internal/config"
	"github.com/consulago/dashboard-gateway/locale"
	"github.com/consulago/dashboard-gateway/routes"
	"github.com/consulago/dashboard-gateway/session"
)

type Server struct {
	env        string // Environment (e.g., "DEV", "production")
	mux        *http.ServeMux
	routes     []string
	config     config.Config
	store      session.Store
	verifier   *auth.Verifier
	refresher  *auth.Refresher
	backend    *backend.Client
	classifier *routes.Classifier
	policy     *routes.Policy
	locales    *locale.Resolver
}

func New(cfg config.Config, store session.Store, verifier *auth.Verifier, refresher *auth.Refresher, backendClient *backend.Client) (*Server, error) {
	if store == nil || verifier == nil || refresher == nil || backendClient == nil {
		return nil, errors.New("[Server New] store, verifier, refresher and backend client are required")
	}

	resolver, err := locale.NewResolver(cfg.GetLocales(), cfg.GetDefaultLocale(), cfg.GetLocaleCookieName())
	if err != nil {
		return nil, errors.Wrap(err, "[Server New] locale resolver")
	}

	s := &Server{
		mux:        http.NewServeMux(),
		config:     cfg,
		store:      store,
		verifier:   verifier,
		refresher:  refresher,
		backend:    backendClient,
		classifier: routes.NewClassifier(cfg.GetPublicPaths(), cfg.GetAuthRoutePrefixes(), cfg.GetAPIAuthPrefixes(), cfg.GetLocales()),
		policy:     routes.NewPolicy(cfg.GetLoginPath(), cfg.GetLandingPath(), cfg.GetLocales()),
		locales:    resolver,
	}
	s.env = cfg.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
