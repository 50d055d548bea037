// ABOUTME: Administrator CRUD and PIN login tests
// ABOUTME: Exercises the never-empty-admins invariant

package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAdmin_RequiresNameAndPIN(t *testing.T) {
	st := setupEmptyStore(t)

	_, err := st.AddAdmin(Admin{Name: "", PIN: "5678"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = st.AddAdmin(Admin{Name: "Carlos", PIN: ""})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = st.AddAdmin(Admin{Name: "Carlos", PIN: "12"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteAdmin_LastOneRejected(t *testing.T) {
	st := setupEmptyStore(t)

	admins := st.Admins()
	require.Len(t, admins, 1)

	// A single remaining administrator cannot be deleted, even via a
	// nonexistent id.
	assert.ErrorIs(t, st.DeleteAdmin(admins[0].ID), ErrLastAdmin)
	assert.ErrorIs(t, st.DeleteAdmin(999), ErrLastAdmin)
}

func TestDeleteAdmin_WithTwoPresent(t *testing.T) {
	st := setupEmptyStore(t)

	id, err := st.AddAdmin(Admin{Name: "Carlos", PIN: "5678"})
	require.NoError(t, err)

	assert.ErrorIs(t, st.DeleteAdmin(999), ErrNotFound)
	require.NoError(t, st.DeleteAdmin(id))
	require.Len(t, st.Admins(), 1)

	// Back to one: the invariant kicks in again.
	assert.ErrorIs(t, st.DeleteAdmin(st.Admins()[0].ID), ErrLastAdmin)
}

func TestValidateAdminPIN(t *testing.T) {
	st := setupEmptyStore(t)

	_, err := st.AddAdmin(Admin{Name: "Carlos", PIN: "5678"})
	require.NoError(t, err)

	a, err := st.ValidateAdminPIN("5678")
	require.NoError(t, err)
	assert.Equal(t, "Carlos", a.Name)

	// The migration-synthesized administrator keeps the default PIN.
	a, err = st.ValidateAdminPIN(DefaultPIN)
	require.NoError(t, err)
	assert.Equal(t, "Administrador", a.Name)
	assert.True(t, a.IsPrimary)

	_, err = st.ValidateAdminPIN("0000")
	assert.ErrorIs(t, err, ErrIncorrectPIN)
}

func TestUpdateAdmin(t *testing.T) {
	st := setupEmptyStore(t)

	id, err := st.AddAdmin(Admin{Name: "Carlos", PIN: "5678"})
	require.NoError(t, err)

	// Empty PIN keeps the credential.
	require.NoError(t, st.UpdateAdmin(id, Admin{Name: "Carlos M.", IsPrimary: true}))
	a, err := st.ValidateAdminPIN("5678")
	require.NoError(t, err)
	assert.Equal(t, "Carlos M.", a.Name)
	assert.True(t, a.IsPrimary)

	require.NoError(t, st.UpdateAdmin(id, Admin{Name: "Carlos M.", PIN: "8765"}))
	_, err = st.ValidateAdminPIN("5678")
	assert.ErrorIs(t, err, ErrIncorrectPIN)
	_, err = st.ValidateAdminPIN("8765")
	assert.NoError(t, err)

	assert.ErrorIs(t, st.UpdateAdmin(999, Admin{Name: "X"}), ErrNotFound)
}

func TestAdmins_StripsPIN(t *testing.T) {
	st := setupEmptyStore(t)

	for _, a := range st.Admins() {
		assert.Empty(t, a.PIN)
	}
}
