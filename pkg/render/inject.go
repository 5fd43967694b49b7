package render

import (
	"net/http"

	"github.com/pressleaf/pressleaf/pkg/auth"
	"github.com/pressleaf/pressleaf/pkg/contextkeys"
	"github.com/pressleaf/pressleaf/pkg/credentials"
	"github.com/pressleaf/pressleaf/pkg/prefs"
)

// Injector builds the per-request render Context. Unlike the auth gates it
// never rejects: a missing or invalid token just yields an anonymous context.
type Injector struct {
	extractor *credentials.Extractor
	codec     *auth.Codec
	resolver  *prefs.Resolver
}

// NewInjector wires the credential extractor, token codec and preference
// resolver into a render middleware.
func NewInjector(extractor *credentials.Extractor, codec *auth.Codec, resolver *prefs.Resolver) *Injector {
	return &Injector{extractor: extractor, codec: codec, resolver: resolver}
}

// Inject resolves credentials and preferences and installs a fresh Context
// before calling next. When the resolved token differs from the request's
// token cookie the cookie is refreshed, so a visitor whose session holds a
// token gets it mirrored back to the browser.
func (i *Injector) Inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc := &Context{}

		token, err := i.extractor.Resolve(r.Context(), r)
		if err == nil && token != "" {
			rc.Token = token
			if claims, verr := i.codec.Verify(token); verr == nil {
				rc.Identity = claims
			}
		}

		p := i.resolver.Resolve(r)
		rc.Locale = p.Locale
		rc.Theme = p.Theme

		if rc.Token != "" && cookieToken(r) != rc.Token {
			http.SetCookie(w, &http.Cookie{
				Name:     credentials.TokenCookie,
				Value:    rc.Token,
				Path:     "/",
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := contextkeys.WithRenderContext(r.Context(), rc)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func cookieToken(r *http.Request) string {
	if c, err := r.Cookie(credentials.TokenCookie); err == nil {
		return c.Value
	}
	return ""
}
