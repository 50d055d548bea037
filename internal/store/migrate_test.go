// ABOUTME: Load-time migration tests for legacy file shapes
// ABOUTME: Covers nextIds, single-admin adminPin, plaintext PINs, counter repair

package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openFile writes raw to a fresh store path and opens it.
func openFile(t *testing.T, raw string) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "restaurante.json")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0644))

	st, err := Open(path, Options{Debounce: time.Hour})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestMigrate_LegacySingleAdminFile(t *testing.T) {
	st := openFile(t, `{
		"data": {
			"products": [{"id": 3, "name": "Taco", "price": 20}],
			"waiters": [{"id": 1, "name": "Pedro", "pin": "5678"}]
		},
		"nextIds": {"products": 4, "waiters": 2},
		"adminPin": "4321"
	}`)

	// The single-admin PIN becomes a primary administrator record.
	admins := st.Admins()
	require.Len(t, admins, 1)
	assert.True(t, admins[0].IsPrimary)
	a, err := st.ValidateAdminPIN("4321")
	require.NoError(t, err)
	assert.Equal(t, "Administrador", a.Name)

	// The plaintext waiter PIN was hashed but still verifies.
	_, err = st.ValidateWaiterPIN(1, "5678")
	assert.NoError(t, err)

	// nextIds carried over as the live counters.
	id, err := st.AddProduct(Product{Name: "Quesadilla", Price: 35})
	require.NoError(t, err)
	assert.Equal(t, int64(4), id)
	wid, err := st.AddWaiter(Waiter{Name: "María"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), wid)
}

func TestMigrate_AlreadyHashedAdminPIN(t *testing.T) {
	st := openFile(t, `{
		"data": {},
		"adminPin": "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
	}`)

	require.Len(t, st.Admins(), 1)
	// That fixture hash is bcrypt("password"), so the default PIN fails.
	_, err := st.ValidateAdminPIN(DefaultPIN)
	assert.ErrorIs(t, err, ErrIncorrectPIN)
}

func TestMigrate_MissingAdminPINGetsDefault(t *testing.T) {
	st := openFile(t, `{"data": {"products": [{"id": 1, "name": "Taco", "price": 20}]}}`)

	a, err := st.ValidateAdminPIN(DefaultPIN)
	require.NoError(t, err)
	assert.True(t, a.IsPrimary)
}

func TestMigrate_UnusableWaiterPINResets(t *testing.T) {
	st := openFile(t, `{
		"data": {"waiters": [
			{"id": 1, "name": "Pedro", "pin": "not-a-pin"},
			{"id": 2, "name": "María", "pin": ""}
		]}
	}`)

	// Mangled or missing PINs fall back to the default instead of locking
	// the waiter out.
	_, err := st.ValidateWaiterPIN(1, DefaultPIN)
	assert.NoError(t, err)
	_, err = st.ValidateWaiterPIN(2, DefaultPIN)
	assert.NoError(t, err)
}

func TestMigrate_CounterRepair(t *testing.T) {
	// Counters lag behind existing ids, as in a hand-restored file.
	st := openFile(t, `{
		"data": {"products": [{"id": 9, "name": "Taco", "price": 20}]},
		"idCounters": {"products": 3}
	}`)

	id, err := st.AddProduct(Product{Name: "Quesadilla", Price: 35})
	require.NoError(t, err)
	assert.Equal(t, int64(10), id, "counter must jump past the max existing id")
}

func TestMigrate_ExistingAdminsUntouched(t *testing.T) {
	st := openFile(t, `{
		"data": {"admins": [
			{"id": 1, "name": "Laura", "pin": "9999", "isPrimary": true},
			{"id": 2, "name": "Diego", "pin": "8888", "isPrimary": false}
		]},
		"adminPin": "4321"
	}`)

	// A populated admin collection wins over the legacy field.
	admins := st.Admins()
	require.Len(t, admins, 2)
	_, err := st.ValidateAdminPIN("4321")
	assert.ErrorIs(t, err, ErrIncorrectPIN)

	// Plaintext admin PINs were hashed in place and still verify.
	a, err := st.ValidateAdminPIN("9999")
	require.NoError(t, err)
	assert.Equal(t, "Laura", a.Name)
	a, err = st.ValidateAdminPIN("8888")
	require.NoError(t, err)
	assert.Equal(t, "Diego", a.Name)
}
