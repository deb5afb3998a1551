package routes

import (
	"net/url"
	"strings"
)

// Decision is the outcome of the redirect policy for one request: either a
// redirect to Location or a pass-through into normal rendering.
type Decision struct {
	Redirect bool
	Location string
}

// PassThrough lets the request continue to rendering.
func PassThrough() Decision {
	return Decision{}
}

// RedirectTo sends the browser to the given location.
func RedirectTo(location string) Decision {
	return Decision{Redirect: true, Location: location}
}

// Policy decides, from a classification and session presence, the single
// redirect (or pass-through) for a request. Decide is pure and total and is
// evaluated fresh on every request: session presence changes between
// requests and the decision must never be cached.
type Policy struct {
	loginPath   string
	landingPath string
	locales     []string
}

// NewPolicy creates a Policy redirecting to the given login page and default
// authenticated landing page. Both paths are locale-less; Decide re-applies
// the locale prefix of the incoming request.
func NewPolicy(loginPath, landingPath string, locales []string) *Policy {
	return &Policy{
		loginPath:   loginPath,
		landingPath: landingPath,
		locales:     locales,
	}
}

// Decide implements the gate table:
//
//	APIAuthRoute, any        -> pass through
//	AuthRoute,    session    -> redirect to landing page
//	AuthRoute,    no session -> pass through (render login)
//	Public,       any        -> pass through
//	Protected,    session    -> pass through
//	Protected,    no session -> redirect to login with callbackUrl
//
// requestURI is the original path plus query string; it is preserved in the
// callbackUrl parameter so a successful login can return the user to it.
func (p *Policy) Decide(classification Classification, sessionPresent bool, requestURI string) Decision {
	switch classification {
	case APIAuthRoute:
		return PassThrough()
	case Public:
		return PassThrough()
	case AuthRoute:
		if !sessionPresent {
			return PassThrough()
		}
		return RedirectTo(p.localePrefixOf(requestURI) + p.landingPath)
	default: // Protected
		if sessionPresent {
			return PassThrough()
		}
		login := p.localePrefixOf(requestURI) + p.loginPath
		return RedirectTo(login + "?callbackUrl=" + url.QueryEscape(requestURI))
	}
}

func (p *Policy) localePrefixOf(requestURI string) string {
	path := requestURI
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	return LocalePrefix(path, p.locales)
}
