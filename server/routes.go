package server

func (s *Server) initRoutes() {
	// JSON auth API (APIAuthRoute: the gate always passes these through, so
	// they are registered outside it)
	s.RegisterRouteFunc("POST "+RouteAPIAuthLogin, s.APILoginHandler())
	s.RegisterRouteFunc("POST "+RouteAPIAuthRefresh, s.APIRefreshHandler())
	s.RegisterRouteFunc("POST "+RouteAPIAuthLogout, s.APILogoutHandler())
	s.RegisterRouteFunc("GET "+RouteAPIAuthSession, s.APISessionHandler())

	s.RegisterRouteFunc("GET "+RouteAPIHealth, s.HealthHandler())

	// Backend data proxy: every dashboard data fetch (demandeurs, demandes,
	// payments, news, galleries, notifications, settings) goes through here
	// with the session's bearer token attached.
	s.RegisterRouteHandler(RouteAPIPrefix, ChainMiddleware(s.ProxyHandler(), s.APIMiddleware()...))

	// Pages share one catch-all because every page URL may carry a locale
	// segment; dispatch happens after the gate has run and the handler has
	// stripped the prefix.
	s.RegisterRouteHandler("/", ChainMiddleware(s.PageHandler(), s.HTMLMiddleware(s.Gate())...))
}
