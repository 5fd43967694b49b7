// Package credentials resolves the single authoritative bearer token for an
// inbound request.
//
// Three channels can carry a token — the session record, a raw "token"
// cookie, and the Authorization header — and all three deployment shapes
// (cookie-only browsers, header-only API clients, session-store-only) must
// work at once. The extractor tries an explicit, ordered list of sources and
// takes the first non-empty hit. A token discovered on a secondary channel is
// written back into the session record before it is returned, so later
// middleware and the render layer only ever consult the session path.
package credentials
