package render

import (
	"net/http"

	"github.com/pressleaf/pressleaf/pkg/auth"
	"github.com/pressleaf/pressleaf/pkg/contextkeys"
)

// Context is the per-request render state. A new value is built for every
// request by Injector; handlers and templates only ever read it.
type Context struct {
	// Token is the resolved credential string, empty for anonymous visitors.
	Token string
	// Identity is the verified claims behind Token, nil when Token is empty
	// or failed verification.
	Identity *auth.Claims
	// Locale is the approved display locale.
	Locale string
	// Theme is "light" or "dark".
	Theme string
}

// Anonymous reports whether the request carries no verified identity.
func (c *Context) Anonymous() bool {
	return c == nil || c.Identity == nil
}

// State is the hydration payload serialized into the page for the client.
// Field names match the cookie names the client bootstrap reads.
type State struct {
	Token string `json:"token"`
	Lang  string `json:"lang"`
	Mode  string `json:"mode"`
	User  string `json:"user,omitempty"`
}

// State builds the hydration payload for this context.
func (c *Context) State() State {
	s := State{Token: c.Token, Lang: c.Locale, Mode: c.Theme}
	if c.Identity != nil {
		s.User = c.Identity.Username
	}
	return s
}

// FromRequest returns the render context installed by Injector, or nil for
// requests outside the render pipeline.
func FromRequest(r *http.Request) *Context {
	if rc, ok := r.Context().Value(contextkeys.RenderKey).(*Context); ok {
		return rc
	}
	return nil
}
