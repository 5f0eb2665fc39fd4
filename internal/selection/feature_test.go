package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureRegistryLoadReplacesSet(t *testing.T) {
	r := NewFeatureRegistry()
	r.Load(AreaRegion, []string{"Yangon", "Mandalay", "Bago"})
	require.NoError(t, r.Activate("Yangon"))

	r.Load(AreaBasin, []string{"Ayeyarwady", "Sittaung"})
	assert.Equal(t, AreaBasin, r.Kind())
	assert.Equal(t, []string{"Ayeyarwady", "Sittaung"}, r.IDs())
	assert.Empty(t, r.ActiveIDs(), "loading a new set clears active features")

	assert.ErrorIs(t, r.Activate("Yangon"), ErrNotFound)
}

func TestFeatureRegistryLoadDedups(t *testing.T) {
	r := NewFeatureRegistry()
	r.Load(AreaDistrict, []string{"Hpa-An", "Hpa-An", "Myeik"})
	assert.Equal(t, []string{"Hpa-An", "Myeik"}, r.IDs())
}

func TestFeatureRegistryActivateIsIdempotent(t *testing.T) {
	r := NewFeatureRegistry()
	r.Load(AreaRegion, []string{"Yangon", "Mandalay"})

	require.NoError(t, r.Activate("Yangon"))
	err := r.Activate("Yangon")
	assert.ErrorIs(t, err, ErrAlreadyActive)
	assert.Equal(t, []string{"Yangon"}, r.ActiveIDs(), "double activation must not duplicate")
}

func TestFeatureRegistryActivationOrder(t *testing.T) {
	r := NewFeatureRegistry()
	r.Load(AreaRegion, []string{"Bago", "Mandalay", "Yangon"})

	require.NoError(t, r.Activate("Yangon"))
	require.NoError(t, r.Activate("Bago"))
	require.NoError(t, r.Activate("Mandalay"))
	assert.Equal(t, []string{"Yangon", "Bago", "Mandalay"}, r.ActiveIDs())

	require.NoError(t, r.Deactivate("Bago"))
	assert.Equal(t, []string{"Yangon", "Mandalay"}, r.ActiveIDs())
}

func TestFeatureRegistryDeactivateInactive(t *testing.T) {
	r := NewFeatureRegistry()
	r.Load(AreaRegion, []string{"Yangon"})
	assert.ErrorIs(t, r.Deactivate("Yangon"), ErrNotFound)
	assert.ErrorIs(t, r.Deactivate("nope"), ErrNotFound)
}

func TestFeatureRegistryFailedErrorsAreNoOps(t *testing.T) {
	r := NewFeatureRegistry()
	r.Load(AreaRegion, []string{"Yangon"})
	require.NoError(t, r.Activate("Yangon"))

	fired := 0
	r.OnChange(func() { fired++ })

	_ = r.Activate("Yangon")
	_ = r.Activate("missing")
	_ = r.Deactivate("missing")
	assert.Zero(t, fired, "failed operations must not fire the change hook")
	assert.Equal(t, []string{"Yangon"}, r.ActiveIDs())
}

func TestNameFieldFor(t *testing.T) {
	assert.Equal(t, "ST", NameFieldFor(AreaRegion))
	assert.Equal(t, "ST", NameFieldFor(AreaCountry))
	assert.Equal(t, "DT", NameFieldFor(AreaDistrict))
	assert.Equal(t, "Name", NameFieldFor(AreaBasin))
}

func TestAreaKindQueryValue(t *testing.T) {
	assert.Equal(t, "regions", AreaRegion.QueryValue())
	assert.Equal(t, "districts", AreaDistrict.QueryValue())
	assert.Equal(t, "basins", AreaBasin.QueryValue())
	assert.Equal(t, "country", AreaCountry.QueryValue())
}

func TestParseAreaKind(t *testing.T) {
	for in, want := range map[string]AreaKind{
		"region":    AreaRegion,
		"regions":   AreaRegion,
		"district":  AreaDistrict,
		"districts": AreaDistrict,
		"basin":     AreaBasin,
		"basins":    AreaBasin,
		"country":   AreaCountry,
	} {
		got, err := ParseAreaKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseAreaKind("ocean")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
