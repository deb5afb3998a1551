// Package locale resolves the active display locale for a request. It never
// touches auth state; the server runs it only after the redirect policy has
// allowed the request through.
package locale

import (
	"net/http"

	"github.com/pkg/errors"
	"golang.org/x/text/language"
)

// Resolver matches an explicit locale cookie, then the Accept-Language
// header, against the configured locale set, falling back to the default.
type Resolver struct {
	matcher    language.Matcher
	supported  []language.Tag
	names      []string
	cookieName string
}

// NewResolver builds a Resolver for the supported locales. defaultLocale
// must be a member of supported; it wins whenever nothing else matches.
func NewResolver(supported []string, defaultLocale, cookieName string) (*Resolver, error) {
	if len(supported) == 0 {
		return nil, errors.New("[NewResolver] at least one locale is required")
	}

	// The matcher treats its first tag as the fallback, so order the
	// default in front.
	ordered := make([]string, 0, len(supported))
	ordered = append(ordered, defaultLocale)
	for _, name := range supported {
		if name != defaultLocale {
			ordered = append(ordered, name)
		}
	}
	if ordered[0] != defaultLocale || len(ordered) != len(supported) {
		return nil, errors.Errorf("[NewResolver] default locale %q not in supported set", defaultLocale)
	}

	tags := make([]language.Tag, 0, len(ordered))
	for _, name := range ordered {
		tag, err := language.Parse(name)
		if err != nil {
			return nil, errors.Wrapf(err, "[NewResolver] invalid locale %q", name)
		}
		tags = append(tags, tag)
	}

	return &Resolver{
		matcher:    language.NewMatcher(tags),
		supported:  tags,
		names:      ordered,
		cookieName: cookieName,
	}, nil
}

// Resolve returns the configured locale name for the request. Pure given the
// request's cookie and Accept-Language header.
func (r *Resolver) Resolve(req *http.Request) string {
	if cookie, err := req.Cookie(r.cookieName); err == nil && cookie.Value != "" {
		if tag, err := language.Parse(cookie.Value); err == nil {
			if _, index, conf := r.matcher.Match(tag); conf > language.No {
				return r.names[index]
			}
		}
	}

	if header := req.Header.Get("Accept-Language"); header != "" {
		if tags, _, err := language.ParseAcceptLanguage(header); err == nil && len(tags) > 0 {
			if _, index, conf := r.matcher.Match(tags...); conf > language.No {
				return r.names[index]
			}
		}
	}

	return r.names[0]
}

// Default returns the fallback locale name.
func (r *Resolver) Default() string {
	return r.names[0]
}
