package server

// Route path constants
// All gateway routes are defined here to ensure consistency and prevent typos.
// Page routes are locale-less; the browser-facing URL carries a locale prefix
// that the gate middleware strips before dispatch.
const (
	// Auth pages (logout lives under /api/auth so a logged-in user is not
	// bounced away from it by the gate)
	RouteLogin = "/auth/login"

	// Dashboard pages (protected)
	RouteDashboard = "/dashboard"

	// Public pages
	RouteAbout      = "/about"
	RouteContact    = "/contact"
	RouteActualites = "/actualites"

	// JSON auth API (never gated)
	RouteAPIAuthLogin   = "/api/auth/login"
	RouteAPIAuthRefresh = "/api/auth/refresh"
	RouteAPIAuthLogout  = "/api/auth/logout"
	RouteAPIAuthSession = "/api/auth/session"

	// Backend data proxy
	RouteAPIPrefix = "/api/"
	RouteAPIHealth = "/api/health"
)
