// ABOUTME: Package documentation for the HTTP layer
// ABOUTME: Describes the two-listener split and the response envelope

// Package server exposes the store over HTTP on two listeners.
//
// The loopback listener carries the full API: catalog and staff CRUD, PIN
// logins, the ticket lifecycle, settings, reports, and stats. The LAN
// listener is a read-only facade for kitchen displays and the owner's
// phone; its mux registers GET routes only, optionally behind bearer
// tokens from the auth package.
//
// Every response body is the same envelope: {"success":true, ...} on
// success, {"success":false,"error":"..."} on failure, with the store's
// sentinel errors mapped to 404/400/401/409. Middleware adds a request ID
// header, one access-log line per request, and panic recovery.
package server
