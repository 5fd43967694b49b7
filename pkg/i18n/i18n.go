// Package i18n serves the UI translation bundles. Bundles are flat JSON
// files, one per locale, embedded at build time and loaded once at startup.
package i18n

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
)

// Bundle holds the loaded translations, keyed by locale then message key.
type Bundle struct {
	locales  []string
	fallback string
	messages map[string]map[string]string
}

// Load reads one JSON file per locale from localesFS (locales/<code>.json).
// The first locale in the list is the fallback.
func Load(localesFS fs.FS, locales []string) (*Bundle, error) {
	if len(locales) == 0 {
		return nil, fmt.Errorf("no locales configured")
	}

	b := &Bundle{
		locales:  locales,
		fallback: locales[0],
		messages: make(map[string]map[string]string, len(locales)),
	}
	for _, code := range locales {
		data, err := fs.ReadFile(localesFS, path.Join("locales", code+".json"))
		if err != nil {
			return nil, fmt.Errorf("failed to read locale %s: %w", code, err)
		}
		msgs := make(map[string]string)
		if err := json.Unmarshal(data, &msgs); err != nil {
			return nil, fmt.Errorf("failed to parse locale %s: %w", code, err)
		}
		b.messages[code] = msgs
	}
	return b, nil
}

// Messages returns the full bundle for a locale, falling back to the default
// locale for unknown codes. The returned map must not be mutated.
func (b *Bundle) Messages(locale string) map[string]string {
	if msgs, ok := b.messages[locale]; ok {
		return msgs
	}
	return b.messages[b.fallback]
}

// T translates one key for a locale, falling back to the default locale and
// finally to the key itself.
func (b *Bundle) T(locale, key string) string {
	if msg, ok := b.messages[locale][key]; ok {
		return msg
	}
	if msg, ok := b.messages[b.fallback][key]; ok {
		return msg
	}
	return key
}
