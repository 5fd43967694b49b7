// Package render owns the server-side HTML pipeline.
//
// Every request gets a freshly constructed Context carrying the visitor's
// token, verified identity and display preferences. Nothing about a request
// is stored in package state, so concurrent requests can never observe each
// other's containers.
//
// Rendered pages embed a hydration state object and a small bootstrap script
// that seeds any missing client-side state from cookies in the browser.
package render
