// Package prefs derives the effective locale and theme for a request.
//
// Both preferences live in dedicated cookies and nowhere server-side. They
// are plain UI state: unsigned, unverified, and never consulted by any
// authentication decision.
package prefs

import (
	"net/http"
	"strings"
)

const (
	// LangCookie carries the locale tag.
	LangCookie = "lang"
	// ModeCookie carries the theme.
	ModeCookie = "mode"

	// ThemeLight is the default theme; anything that is not exactly "dark"
	// maps here.
	ThemeLight = "light"
	ThemeDark  = "dark"

	// DefaultLocale is the fallback when no cookie and no usable
	// Accept-Language is present.
	DefaultLocale = "en"
)

// Preferences is the resolved UI state for one request.
type Preferences struct {
	Locale string `json:"locale"`
	Theme  string `json:"theme"`
}

// Resolver validates locale values against a server-approved allow-list.
type Resolver struct {
	locales []string
}

// NewResolver creates a resolver. An empty allow-list falls back to just the
// default locale.
func NewResolver(locales []string) *Resolver {
	if len(locales) == 0 {
		locales = []string{DefaultLocale}
	}
	return &Resolver{locales: locales}
}

// Locales returns the allow-list.
func (p *Resolver) Locales() []string { return p.locales }

// Allowed reports whether the locale tag is on the allow-list.
func (p *Resolver) Allowed(locale string) bool {
	for _, l := range p.locales {
		if l == locale {
			return true
		}
	}
	return false
}

// Resolve derives the preferences for a request. Each cookie is defaulted
// independently; a missing or unapproved locale cookie falls back to the
// Accept-Language header before the default.
func (p *Resolver) Resolve(r *http.Request) Preferences {
	return Preferences{
		Locale: p.resolveLocale(r),
		Theme:  resolveTheme(r),
	}
}

func (p *Resolver) resolveLocale(r *http.Request) string {
	if c, err := r.Cookie(LangCookie); err == nil && p.Allowed(c.Value) {
		return c.Value
	}

	if accept := r.Header.Get("Accept-Language"); accept != "" {
		for _, l := range p.locales {
			if l == DefaultLocale {
				continue
			}
			if strings.Contains(accept, l) {
				return l
			}
		}
	}
	return DefaultLocale
}

func resolveTheme(r *http.Request) string {
	if c, err := r.Cookie(ModeCookie); err == nil && c.Value == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}
