// ABOUTME: One-way hashing and verification of 4-digit staff PINs
// ABOUTME: bcrypt-backed, with prefix detection for migrating legacy plaintext PINs

package pin

import (
	"errors"
	"fmt"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

// Cost is the bcrypt cost factor used for new hashes.
const Cost = 10

// ErrInvalidPIN is returned when a PIN is not exactly four ASCII digits.
var ErrInvalidPIN = errors.New("PIN must be exactly 4 digits")

var (
	pinPattern    = regexp.MustCompile(`^[0-9]{4}$`)
	bcryptPattern = regexp.MustCompile(`^\$2[aby]\$`)
)

// Hash hashes a 4-digit PIN with bcrypt. The salt is randomized, so two
// calls with the same PIN produce different hashes; use Verify to check a
// candidate against a stored hash.
func Hash(p string) (string, error) {
	if !pinPattern.MatchString(p) {
		return "", ErrInvalidPIN
	}
	h, err := bcrypt.GenerateFromPassword([]byte(p), Cost)
	if err != nil {
		return "", fmt.Errorf("hashing PIN: %w", err)
	}
	return string(h), nil
}

// Verify reports whether p matches the stored hash. Malformed or empty
// input is treated as a mismatch, never an error.
func Verify(p, hash string) bool {
	if p == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(p)) == nil
}

// IsHashed reports whether s looks like a bcrypt hash ($2a$, $2b$ or $2y$
// prefix). It exists to detect legacy plaintext PINs at the store migration
// boundary and is not a security check.
func IsHashed(s string) bool {
	return bcryptPattern.MatchString(s)
}

// Credential is a stored PIN value in either plaintext (legacy data) or
// hashed form. The form is decided once, when the value is read from disk;
// after Ensure the value is always a hash and is never re-inspected.
type Credential struct {
	value  string
	hashed bool
}

// ParseCredential classifies a stored PIN value.
func ParseCredential(s string) Credential {
	return Credential{value: s, hashed: IsHashed(s)}
}

// Hashed reports whether the credential is already in hashed form.
func (c Credential) Hashed() bool { return c.hashed }

// Ensure returns the hashed form of the credential, hashing plaintext
// values. The second return reports whether a new hash was computed.
func (c Credential) Ensure() (string, bool, error) {
	if c.hashed {
		return c.value, false, nil
	}
	h, err := Hash(c.value)
	if err != nil {
		return "", false, err
	}
	return h, true, nil
}
