package prefs

import (
	"net/http"

	"github.com/pressleaf/pressleaf/pkg/httputil"
)

// Switch handlers are POST-only and answer with a 303 back to the referring
// page. A body-less GET never flips state, so link prefetching and caches
// cannot toggle anyone's theme.

// SwitchLang sets the lang cookie to the desired value. Values off the
// allow-list are coerced to the default locale rather than rejected.
func (p *Resolver) SwitchLang(w http.ResponseWriter, r *http.Request) {
	lang := httputil.FormOrJSONValue(r, "lang")
	if !p.Allowed(lang) {
		lang = DefaultLocale
	}

	http.SetCookie(w, &http.Cookie{
		Name:  LangCookie,
		Value: lang,
		Path:  "/",
	})
	redirectBack(w, r)
}

// SwitchMode sets the mode cookie to the desired theme; anything other than
// "dark" is coerced to "light".
func (p *Resolver) SwitchMode(w http.ResponseWriter, r *http.Request) {
	mode := httputil.FormOrJSONValue(r, "mode")
	if mode != ThemeDark {
		mode = ThemeLight
	}

	http.SetCookie(w, &http.Cookie{
		Name:  ModeCookie,
		Value: mode,
		Path:  "/",
	})
	redirectBack(w, r)
}

func redirectBack(w http.ResponseWriter, r *http.Request) {
	target := r.Referer()
	if target == "" {
		target = "/"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
