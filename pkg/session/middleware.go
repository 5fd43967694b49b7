package session

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/pressleaf/pressleaf/pkg/contextkeys"
)

// CookieName is the opaque session id cookie.
const CookieName = "sid"

// cookieMaxAge mirrors DefaultTTL in seconds.
const cookieMaxAge = int(DefaultTTL / 1e9)

// EnsureSession guarantees every request carries a session id. Clients
// without a valid session cookie are minted a fresh id with an empty record;
// the id is placed in the request context for the extractor and handlers.
//
// The cookie is intentionally not HttpOnly: the client bootstrap reads
// cookies directly after pure client-side navigation.
func EnsureSession(store Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := ""
			if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
				sid = c.Value
			}

			if sid == "" {
				sid = uuid.NewString()
				// Best effort: the record also materializes lazily on first
				// save, so a store hiccup here is not fatal.
				_ = store.Save(r.Context(), sid, Record{})

				http.SetCookie(w, &http.Cookie{
					Name:     CookieName,
					Value:    sid,
					Path:     "/",
					MaxAge:   cookieMaxAge,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := contextkeys.WithSessionID(r.Context(), sid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
