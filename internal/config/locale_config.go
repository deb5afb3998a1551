package config

import "strings"

// LocaleConfig is the locale set served by the dashboard. The default comes
// first; every page URL carries one of these as its first segment.
type LocaleConfig interface {
	GetLocales() []string
	GetDefaultLocale() string
	GetLocaleCookieName() string
}

const (
	localesVar          = "LOCALES"
	defaultLocaleVar    = "DEFAULT_LOCALE"
	defaultLocales      = "fr,en"
	defaultLocale       = "fr"
	defaultLocaleCookie = "locale"
)

type Locales struct{}

var _ LocaleConfig = Locales{}

func (Locales) GetLocales() []string {
	raw := GetEnv(localesVar, defaultLocales)
	parts := strings.Split(raw, ",")
	locales := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			locales = append(locales, p)
		}
	}
	if len(locales) == 0 {
		return strings.Split(defaultLocales, ",")
	}
	return locales
}

func (Locales) GetDefaultLocale() string {
	return GetEnv(defaultLocaleVar, defaultLocale)
}

func (Locales) GetLocaleCookieName() string {
	return defaultLocaleCookie
}
