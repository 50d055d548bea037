// ABOUTME: Package documentation for the client-mode reader
// ABOUTME: Explains when a terminal runs against a remote store

// Package client implements the read side of client mode: a terminal
// configured with mode "client" keeps no store of its own and pulls
// tickets, catalog, and stats from the serving terminal's LAN facade.
//
// The client mirrors the facade exactly: only GET endpoints, no mutation
// calls, and the same envelope contract. When the facade requires bearer
// auth, the client mints its own device token from the shared secret at
// construction time.
package client
