// Package routes holds the pure route-gating logic: classifying request
// paths and deciding redirects. Nothing in this package performs I/O; the
// server package evaluates these functions fresh on every request.
package routes

import "strings"

// Classification is the gate category of a request path.
type Classification int

const (
	// Public pages render with or without a session.
	Public Classification = iota
	// AuthRoute pages establish a session; a logged-in user is sent away.
	AuthRoute
	// Protected pages require an active session. This is the default for
	// any path not matched by a configured list.
	Protected
	// APIAuthRoute endpoints are the JSON auth API, always passed through.
	APIAuthRoute
)

func (c Classification) String() string {
	switch c {
	case Public:
		return "public"
	case AuthRoute:
		return "auth"
	case Protected:
		return "protected"
	case APIAuthRoute:
		return "api-auth"
	}
	return "unknown"
}

// Classifier assigns a Classification to request paths from static lists.
// Matching is locale-prefix tolerant: /fr/auth/login classifies exactly like
// /auth/login. Public pages use an explicit allow-list; protected is the
// default.
type Classifier struct {
	publicPaths     []string
	authPrefixes    []string
	apiAuthPrefixes []string
	locales         []string
}

// NewClassifier creates a Classifier over the given static lists.
func NewClassifier(publicPaths, authPrefixes, apiAuthPrefixes, locales []string) *Classifier {
	return &Classifier{
		publicPaths:     publicPaths,
		authPrefixes:    authPrefixes,
		apiAuthPrefixes: apiAuthPrefixes,
		locales:         locales,
	}
}

// Classify is pure and total. Precedence when a path matches several lists:
// APIAuthRoute > AuthRoute > Public > Protected.
func (c *Classifier) Classify(path string) Classification {
	stripped := StripLocalePrefix(path, c.locales)

	for _, prefix := range c.apiAuthPrefixes {
		if matchesPrefix(stripped, prefix) {
			return APIAuthRoute
		}
	}
	for _, prefix := range c.authPrefixes {
		if matchesPrefix(stripped, prefix) {
			return AuthRoute
		}
	}
	for _, public := range c.publicPaths {
		if matchesPrefix(stripped, public) {
			return Public
		}
	}
	return Protected
}

// matchesPrefix reports whether path equals prefix or sits below it as a
// directory. "/" matches only the root, never everything.
func matchesPrefix(path, prefix string) bool {
	if prefix == "/" {
		return path == "/"
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// StripLocalePrefix removes a leading locale segment ("/fr/x" -> "/x",
// "/fr" -> "/"). Paths without a locale segment come back unchanged.
func StripLocalePrefix(path string, locales []string) string {
	for _, locale := range locales {
		seg := "/" + locale
		if path == seg {
			return "/"
		}
		if strings.HasPrefix(path, seg+"/") {
			return path[len(seg):]
		}
	}
	return path
}

// LocalePrefix returns the leading locale segment of path ("/fr") or the
// empty string when the path carries none.
func LocalePrefix(path string, locales []string) string {
	for _, locale := range locales {
		seg := "/" + locale
		if path == seg || strings.HasPrefix(path, seg+"/") {
			return seg
		}
	}
	return ""
}
