// ABOUTME: Package documentation for LAN device authentication
// ABOUTME: Describes the shared-secret JWT scheme and middleware

// Package auth issues and verifies the bearer tokens used by LAN read
// clients (kitchen displays, the owner's phone).
//
// Tokens are HS256 JWTs signed with the shared secret from the server
// config; the "sub" claim names the device. There is no user database
// behind them: any holder of the secret can mint a token with the health
// command, which fits a single-restaurant LAN where the secret lives in
// one config file.
//
// The HTTP middleware guards the remote listener only. The loopback API
// is unauthenticated; PIN checks for waiters and administrators happen in
// the store, not here.
package auth
