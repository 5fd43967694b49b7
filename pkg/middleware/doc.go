// Package middleware provides the authorization gates and the login rate
// limiter.
//
// The gates implement a single-pass state machine per request:
//
//	Unauthenticated -> (resolve + verify ok) -> Authenticated
//	Authenticated   -> (admin predicate ok)  -> Authorized
//
// A failure at any stage is terminal for the request and is surfaced as the
// uniform authentication error; there is no retry and no silent refresh. The
// wrapped handler never runs on failure and never observes a
// partially-resolved identity.
package middleware
