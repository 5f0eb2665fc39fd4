package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkerAddFromFormValidation(t *testing.T) {
	r := NewMarkerRegistry()

	cases := []struct{ lat, lng, title string }{
		{"", "96.1", "Yangon"},
		{"16.8", "", "Yangon"},
		{"16.8", "96.1", ""},
		{"north", "96.1", "Yangon"},
		{"16.8", "east", "Yangon"},
		{"NaN", "96.1", "Yangon"},
	}
	for _, c := range cases {
		_, err := r.AddFromForm(c.lat, c.lng, c.title)
		assert.ErrorIs(t, err, ErrInvalidInput, "%+v", c)
	}
	assert.Zero(t, r.Len())

	m, err := r.AddFromForm(" 16.8 ", "96.15", "Yangon")
	require.NoError(t, err)
	assert.Equal(t, 16.8, m.Lat)
	assert.Equal(t, 96.15, m.Lng)
	assert.Equal(t, "Yangon", m.Title)
}

func TestMarkerMapClickDefaultTitle(t *testing.T) {
	r := NewMarkerRegistry()

	m0, err := r.AddFromMapClick(16.8, 96.1, "")
	require.NoError(t, err)
	assert.Equal(t, "0", m0.Title)

	m1, err := r.AddFromMapClick(21.9, 96.0, "Mandalay")
	require.NoError(t, err)
	assert.Equal(t, "Mandalay", m1.Title)

	m2, err := r.AddFromMapClick(19.7, 96.1, "")
	require.NoError(t, err)
	assert.Equal(t, "2", m2.Title)
}

func TestMarkerDefaultTitleUniqueAfterRemoval(t *testing.T) {
	r := NewMarkerRegistry()

	m0, err := r.AddFromMapClick(16.8, 96.1, "")
	require.NoError(t, err)
	m1, err := r.AddFromMapClick(21.9, 96.0, "")
	require.NoError(t, err)
	assert.Equal(t, "1", m1.Title)

	// Removing "0" shrinks the list; the next default must skip past the
	// surviving "1" instead of reusing it.
	require.NoError(t, r.Remove(m0))
	m2, err := r.AddFromMapClick(19.7, 96.1, "")
	require.NoError(t, err)
	assert.Equal(t, "2", m2.Title)
}

func TestMarkerRemoveByIdentity(t *testing.T) {
	r := NewMarkerRegistry()
	a, err := r.AddFromMapClick(16.8, 96.1, "twin")
	require.NoError(t, err)
	b, err := r.AddFromMapClick(16.8, 96.1, "twin")
	require.NoError(t, err)

	require.NoError(t, r.Remove(a))
	assert.Equal(t, []*Marker{b}, r.Markers(), "the other twin survives")

	assert.ErrorIs(t, r.Remove(a), ErrNotFound)
}

func TestMarkerToGeoJSON(t *testing.T) {
	r := NewMarkerRegistry()
	_, err := r.AddFromMapClick(16.8, 96.15, "Yangon")
	require.NoError(t, err)
	_, err = r.AddFromMapClick(21.97, 96.08, "Mandalay")
	require.NoError(t, err)
	_, err = r.AddFromMapClick(19.75, 96.1, "Naypyidaw")
	require.NoError(t, err)

	fc := r.ToGeoJSON()
	require.Len(t, fc.Features, 3)

	titles := make([]string, 0, 3)
	for _, f := range fc.Features {
		titles = append(titles, f.Properties["title"].(string))
	}
	assert.Equal(t, []string{"Yangon", "Mandalay", "Naypyidaw"}, titles)

	assert.Equal(t, "Point", fc.Features[0].Geometry.GeoJSONType())

	raw, err := fc.MarshalJSON()
	require.NoError(t, err)
	// Coordinates travel in GeoJSON [lng, lat] order.
	assert.Contains(t, string(raw), `[96.15,16.8]`)
}
