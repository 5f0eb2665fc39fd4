package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rainmyanmar/rainmap/internal/selection"
)

func writeBoundaries(t *testing.T, dir, file, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "polygons"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "polygons", file), []byte(body), 0644))
}

const regionBoundaries = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"ST": "Yangon"},
     "geometry": {"type": "Polygon", "coordinates": [[[96.0,16.6],[96.3,16.6],[96.3,17.0],[96.0,16.6]]]}},
    {"type": "Feature", "properties": {"ST": "Mandalay"},
     "geometry": {"type": "Polygon", "coordinates": [[[95.8,21.5],[96.3,21.5],[96.3,22.2],[95.8,21.5]]]}},
    {"type": "Feature", "properties": {"OTHER": "nameless"},
     "geometry": {"type": "Polygon", "coordinates": [[[94.0,20.0],[94.5,20.0],[94.5,20.5],[94.0,20.0]]]}}
  ]
}`

func TestBoundaryNames(t *testing.T) {
	dir := t.TempDir()
	writeBoundaries(t, dir, "myanmar_state_region_boundaries.json", regionBoundaries)

	s := NewBoundaryService(dir)
	names, err := s.Names(selection.AreaRegion)
	require.NoError(t, err)
	assert.Equal(t, []string{"Yangon", "Mandalay"}, names, "file order, unnamed features skipped")
}

func TestBoundaryBasinsUseNameProperty(t *testing.T) {
	dir := t.TempDir()
	writeBoundaries(t, dir, "myanmar_basins_boundaries.json", `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"Name": "Ayeyarwady"},
     "geometry": {"type": "Polygon", "coordinates": [[[94.0,18.0],[96.0,18.0],[96.0,24.0],[94.0,18.0]]]}}
  ]
}`)

	s := NewBoundaryService(dir)
	names, err := s.Names(selection.AreaBasin)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ayeyarwady"}, names)
}

func TestBoundaryMissingFile(t *testing.T) {
	s := NewBoundaryService(t.TempDir())
	_, err := s.Names(selection.AreaDistrict)
	assert.Error(t, err)
}

func TestBoundaryCollectionIsCached(t *testing.T) {
	dir := t.TempDir()
	writeBoundaries(t, dir, "myanmar_state_region_boundaries.json", regionBoundaries)

	s := NewBoundaryService(dir)
	first, err := s.Collection(selection.AreaRegion)
	require.NoError(t, err)

	// Removing the file does not invalidate the parsed copy.
	require.NoError(t, os.Remove(filepath.Join(dir, "polygons", "myanmar_state_region_boundaries.json")))
	second, err := s.Collection(selection.AreaRegion)
	require.NoError(t, err)
	assert.Same(t, first, second)
}
