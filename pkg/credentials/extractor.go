package credentials

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/pressleaf/pressleaf/pkg/contextkeys"
	"github.com/pressleaf/pressleaf/pkg/observability"
	"github.com/pressleaf/pressleaf/pkg/session"
)

// TokenCookie is the raw bearer token cookie set at login.
const TokenCookie = "token"

// Source is one credential channel. Lookup returns the token it sees, or ""
// when the channel is empty. Reconcile marks secondary channels whose hits
// must be persisted into the session record.
type Source struct {
	Name      string
	Reconcile bool
	Lookup    func(r *http.Request, rec session.Record) string
}

// DefaultSources returns the extraction order: session record first, then the
// raw token cookie, then the Authorization header. The order is deliberate —
// an established session token is never displaced by a differing cookie.
func DefaultSources() []Source {
	return []Source{
		{
			Name: "session",
			Lookup: func(_ *http.Request, rec session.Record) string {
				return rec.Token
			},
		},
		{
			Name:      "cookie",
			Reconcile: true,
			Lookup: func(r *http.Request, _ session.Record) string {
				c, err := r.Cookie(TokenCookie)
				if err != nil {
					return ""
				}
				return c.Value
			},
		},
		{
			Name:      "header",
			Reconcile: true,
			Lookup: func(r *http.Request, _ session.Record) string {
				return bearerValue(r.Header.Get("Authorization"))
			},
		},
	}
}

// bearerValue normalizes an Authorization header value. A "Bearer " prefix
// (any case) is stripped; a bare token value is accepted as-is.
func bearerValue(header string) string {
	trimmed := strings.TrimSpace(header)
	if trimmed == "" {
		return ""
	}
	if len(trimmed) >= 7 && strings.EqualFold(trimmed[:7], "bearer ") {
		return strings.TrimSpace(trimmed[7:])
	}
	return trimmed
}

// Extractor resolves the authoritative token for a request.
type Extractor struct {
	store   session.Store
	sources []Source
	metrics *observability.Metrics
}

// NewExtractor creates an extractor over the given session store using the
// default source order.
func NewExtractor(store session.Store) *Extractor {
	return &Extractor{store: store, sources: DefaultSources()}
}

// WithMetrics enables the per-channel reconciliation counter. A nil metrics
// value leaves counting off.
func (e *Extractor) WithMetrics(m *observability.Metrics) *Extractor {
	e.metrics = m
	return e
}

// Resolve returns the token in effect for this request, or "" for an
// anonymous request. When the hit comes from a reconciling source the session
// record is updated synchronously before Resolve returns, so callers never
// observe a half-reconciled state.
func (e *Extractor) Resolve(ctx context.Context, r *http.Request) (string, error) {
	sid := contextkeys.GetSessionID(r.Context())

	var rec session.Record
	if sid != "" {
		var err error
		rec, err = e.store.Load(ctx, sid)
		if err != nil {
			return "", fmt.Errorf("failed to load session %s: %w", sid, err)
		}
	}

	for _, src := range e.sources {
		token := strings.TrimSpace(src.Lookup(r, rec))
		if token == "" {
			continue
		}
		if src.Reconcile && sid != "" {
			rec.Token = token
			if err := e.store.Save(ctx, sid, rec); err != nil {
				return "", fmt.Errorf("failed to reconcile token into session %s: %w", sid, err)
			}
			if e.metrics != nil {
				e.metrics.Reconciliations.WithLabelValues(src.Name).Inc()
			}
		}
		return token, nil
	}
	return "", nil
}
