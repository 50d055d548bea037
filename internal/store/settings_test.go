// ABOUTME: Settings read and partial-update tests

package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }
func boolptr(b bool) *bool    { return &b }

func TestSettings_Defaults(t *testing.T) {
	st := setupEmptyStore(t)

	got := st.Settings()
	assert.Equal(t, "TAQUERÍA EL SABOR", got.RestaurantName)
	assert.True(t, got.TipEnabled)
}

func TestUpdateSettings_PartialMerge(t *testing.T) {
	st := setupEmptyStore(t)

	got, err := st.UpdateSettings(SettingsPatch{
		RestaurantName: strptr("El Sabor Norte"),
		TipEnabled:     boolptr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, "El Sabor Norte", got.RestaurantName)
	assert.False(t, got.TipEnabled)

	// Untouched fields survive a later patch.
	got, err = st.UpdateSettings(SettingsPatch{Address: strptr("Av. Juárez 12")})
	require.NoError(t, err)
	assert.Equal(t, "El Sabor Norte", got.RestaurantName)
	assert.Equal(t, "Av. Juárez 12", got.Address)
	assert.False(t, got.TipEnabled)
}

func TestUpdateSettings_RejectsBlankName(t *testing.T) {
	st := setupEmptyStore(t)

	_, err := st.UpdateSettings(SettingsPatch{RestaurantName: strptr("   ")})
	assert.ErrorIs(t, err, ErrValidation)

	// Original record untouched.
	assert.Equal(t, "TAQUERÍA EL SABOR", st.Settings().RestaurantName)
}
