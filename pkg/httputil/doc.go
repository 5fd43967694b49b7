// Package httputil provides HTTP handler utilities for consistent error
// handling, JSON encoding/decoding, and request plumbing middleware.
//
// Success and error payloads are tagged result types rather than free-form
// maps, so "is this an error" is a type-level question in handler code and a
// stable shape on the wire.
package httputil
