// ABOUTME: Tests for PIN hashing, verification, and plaintext detection
// ABOUTME: Covers round-trips, salt randomization, and malformed input handling

package pin

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash_RoundTrip(t *testing.T) {
	h, err := Hash("1234")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(h, "$2"), "bcrypt output should be self-describing")
	assert.True(t, Verify("1234", h))
	assert.False(t, Verify("4321", h))
}

func TestHash_RandomizedSalt(t *testing.T) {
	h1, err := Hash("0007")
	require.NoError(t, err)
	h2, err := Hash("0007")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2, "two hashes of the same PIN must differ")
	assert.True(t, Verify("0007", h1))
	assert.True(t, Verify("0007", h2))
}

func TestHash_RejectsMalformedPINs(t *testing.T) {
	for _, p := range []string{"", "123", "12345", "12a4", "12.4", "١٢٣٤", " 1234"} {
		_, err := Hash(p)
		assert.ErrorIs(t, err, ErrInvalidPIN, "pin %q", p)
	}
}

func TestVerify_NeverErrors(t *testing.T) {
	h, err := Hash("9999")
	require.NoError(t, err)

	assert.False(t, Verify("", h))
	assert.False(t, Verify("9999", ""))
	assert.False(t, Verify("9999", "not-a-hash"))
	assert.False(t, Verify("abcd", h))
}

func TestIsHashed(t *testing.T) {
	h, err := Hash("1234")
	require.NoError(t, err)

	assert.True(t, IsHashed(h))
	assert.False(t, IsHashed("1234"))
	assert.False(t, IsHashed(""))
	assert.False(t, IsHashed("$1$legacy"))
}

func TestCredential_EnsureHashesPlaintextOnce(t *testing.T) {
	cred := ParseCredential("1234")
	require.False(t, cred.Hashed())

	h, changed, err := cred.Ensure()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, Verify("1234", h))

	// A credential parsed from the hashed value passes through untouched.
	again, changed, err := ParseCredential(h).Ensure()
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, h, again)
}

func TestCredential_EnsureRejectsBadPlaintext(t *testing.T) {
	_, _, err := ParseCredential("not-a-pin").Ensure()
	assert.ErrorIs(t, err, ErrInvalidPIN)
}
