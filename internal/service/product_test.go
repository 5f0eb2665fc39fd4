package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductCatalogDefaults(t *testing.T) {
	s := NewProductService(t.TempDir())

	assert.Equal(t, []string{"CHIRPS", "PERSIANN", "TRMM", "CFSV2", "GLDAS"}, s.Names())

	p, ok := s.Get("CFSV2")
	require.True(t, ok)
	assert.Equal(t, "NOAA/CFSV2/FOR6H", p.Dataset)
	assert.Equal(t, 30000, p.Scale)
	assert.Equal(t, float64(21600), p.Multiply, "6h rate product converts via seconds per sample")

	_, ok = s.Get("MODIS")
	assert.False(t, ok)

	assert.Equal(t, []string{"day", "month", "year"}, s.Timesteps())
	assert.Equal(t, []string{"sum", "mean", "min", "max"}, s.Statistics())
}

func TestProductCatalogOverride(t *testing.T) {
	dir := t.TempDir()
	override := `products:
  - name: CHIRPS
    dataset: UCSB-CHG/CHIRPS/DAILY
    scale: 1000
    multiply: 1
  - name: ERA5
    dataset: ECMWF/ERA5/DAILY
    band: total_precipitation
    scale: 27830
    multiply: 1000
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "products.yaml"), []byte(override), 0644))

	s := NewProductService(dir)
	assert.Equal(t, []string{"CHIRPS", "ERA5"}, s.Names())

	p, ok := s.Get("ERA5")
	require.True(t, ok)
	assert.Equal(t, "total_precipitation", p.Band)
}

func TestProductCatalogBadOverrideFallsBack(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "products.yaml"), []byte(":::"), 0644))

	s := NewProductService(dir)
	assert.Equal(t, []string{"CHIRPS", "PERSIANN", "TRMM", "CFSV2", "GLDAS"}, s.Names())
}

func TestValidateSelection(t *testing.T) {
	s := NewProductService(t.TempDir())

	assert.NoError(t, s.ValidateSelection([]string{"CHIRPS", "TRMM"}, "day", "mean"))
	assert.NoError(t, s.ValidateSelection([]string{"CHIRPS"}, "", ""), "empty options are resolver business, not catalog business")

	assert.Error(t, s.ValidateSelection([]string{"MODIS"}, "day", "mean"))
	assert.Error(t, s.ValidateSelection([]string{"CHIRPS"}, "week", "mean"))
	assert.Error(t, s.ValidateSelection([]string{"CHIRPS"}, "day", "median"))
}
