// Package api wires the HTTP surface: the JSON API under /api/v1, the
// preference switch endpoints, static assets and the server-rendered site.
//
// Authorization is two-tier. Personal resources (expenses, notes) require
// any verified identity; CMS writes require the configured admin identity.
// Every rejection is a uniform 401 so probing cannot distinguish a missing
// credential from an insufficient one.
package api
