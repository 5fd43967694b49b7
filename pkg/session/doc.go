// Package session provides the durable session store.
//
// A session is an opaque id delivered via cookie, mapping to a small record
// whose only durable field of interest is the current bearer token. Records
// are created transparently on first contact, mutated by login and by
// credential reconciliation, and cleared (token set to "") on logout — the
// record itself is never deleted.
//
// Mutations are whole-record replacements. Concurrent requests sharing a
// session id are not sequenced: last writer wins. That is a documented
// contract of this store, not an accident.
package session
