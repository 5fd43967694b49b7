package middleware

import (
	"net/http"

	"github.com/pressleaf/pressleaf/pkg/auth"
	"github.com/pressleaf/pressleaf/pkg/contextkeys"
	"github.com/pressleaf/pressleaf/pkg/credentials"
	"github.com/pressleaf/pressleaf/pkg/httputil"
	"github.com/pressleaf/pressleaf/pkg/observability"
)

// authErrorMessage is the one message every rejection carries. Expired,
// malformed, missing and not-admin all look identical to the client.
const authErrorMessage = "authentication error"

// Auth provides the user and admin authorization gates.
type Auth struct {
	extractor  *credentials.Extractor
	codec      *auth.Codec
	adminEmail string
	metrics    *observability.Metrics
}

// NewAuth creates the gates. metrics may be nil in tests.
func NewAuth(extractor *credentials.Extractor, codec *auth.Codec, adminEmail string, metrics *observability.Metrics) *Auth {
	return &Auth{
		extractor:  extractor,
		codec:      codec,
		adminEmail: adminEmail,
		metrics:    metrics,
	}
}

// resolveAndVerify runs the extractor (including any session write-back) to
// completion, then verifies. The ordering matters: the gate must not read a
// token the extractor has not finished reconciling.
func (a *Auth) resolveAndVerify(r *http.Request) (*auth.Claims, string) {
	token, err := a.extractor.Resolve(r.Context(), r)
	if err != nil || token == "" {
		return nil, "missing"
	}
	claims, err := a.codec.Verify(token)
	if err != nil {
		return nil, "invalid"
	}
	return claims, ""
}

func (a *Auth) reject(w http.ResponseWriter, reason string) {
	if a.metrics != nil {
		a.metrics.AuthFailures.WithLabelValues(reason).Inc()
	}
	httputil.WriteUnauthorized(w, authErrorMessage)
}

// RequireUser admits any request with a verifiable token and attaches the
// decoded claims to the request context.
func (a *Auth) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, reason := a.resolveAndVerify(r)
		if claims == nil {
			a.reject(w, reason)
			return
		}
		ctx := contextkeys.WithIdentity(r.Context(), claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin additionally requires the verified email to equal the
// configured administrator email. The rejection is indistinguishable from a
// missing credential — deliberately no separate 403.
func (a *Auth) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, reason := a.resolveAndVerify(r)
		if claims == nil {
			a.reject(w, reason)
			return
		}
		if claims.Email != a.adminEmail {
			a.reject(w, "forbidden")
			return
		}
		ctx := contextkeys.WithIdentity(r.Context(), claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Identity returns the claims attached by a gate, or nil on an ungated path.
func Identity(r *http.Request) *auth.Claims {
	claims, _ := r.Context().Value(contextkeys.IdentityKey).(*auth.Claims)
	return claims
}
