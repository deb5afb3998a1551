package config

import "time"

// RoutesConfig is the static route-classification configuration consumed by
// the gate middleware. Public pages use an explicit allow-list; everything
// not matched by one of the lists below is a protected page.
type RoutesConfig interface {
	GetPublicPaths() []string
	GetAuthRoutePrefixes() []string
	GetAPIAuthPrefixes() []string
	GetLoginPath() string
	GetLandingPath() string
	GetRefreshLeeway() time.Duration
}

type Routes struct{}

var _ RoutesConfig = Routes{}

// GetPublicPaths returns pages renderable with or without a session.
func (Routes) GetPublicPaths() []string {
	return []string{"/", "/about", "/contact", "/actualites"}
}

// GetAuthRoutePrefixes returns page prefixes whose purpose is establishing a
// session. A logged-in user is redirected away from these.
func (Routes) GetAuthRoutePrefixes() []string {
	return []string{"/auth"}
}

// GetAPIAuthPrefixes returns the JSON auth endpoints, always passed through.
func (Routes) GetAPIAuthPrefixes() []string {
	return []string{"/api/auth"}
}

func (Routes) GetLoginPath() string {
	return "/auth/login"
}

func (Routes) GetLandingPath() string {
	return "/dashboard"
}

// GetRefreshLeeway is how close to expiry an access token may get before the
// gate middleware refreshes it ahead of the page render.
func (Routes) GetRefreshLeeway() time.Duration {
	return 30 * time.Second
}
