// ABOUTME: Package documentation for the PIN credential codec
// ABOUTME: Explains hashing, verification, and legacy plaintext migration

// Package pin hashes and verifies the 4-digit PINs used by waiters and
// administrators.
//
// Hashes are bcrypt with a randomized salt, so equal PINs never produce
// equal hashes. The bcrypt output is self-describing, which lets the store
// distinguish already-hashed values from legacy plaintext PINs during
// migration via IsHashed and the Credential type.
//
// Verify never returns an error: malformed input, an empty hash, or a
// mismatched PIN all report false.
package pin
