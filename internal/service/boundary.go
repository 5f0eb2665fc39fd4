package service

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/paulmach/orb/geojson"

	"github.com/rainmyanmar/rainmap/internal/selection"
)

// boundaryFiles maps each feature kind to its GeoJSON file under the
// polygons data directory.
var boundaryFiles = map[selection.AreaKind]string{
	selection.AreaCountry:  "myanmar_country_boundaries.json",
	selection.AreaRegion:   "myanmar_state_region_boundaries.json",
	selection.AreaDistrict: "myanmar_district_boundaries.json",
	selection.AreaBasin:    "myanmar_basins_boundaries.json",
}

// BoundaryService loads the administrative and hydrological boundary sets
// from disk and answers name lookups for the selection autocomplete. Files
// are parsed once and cached.
type BoundaryService struct {
	dataDir string
	mu      sync.RWMutex
	loaded  map[selection.AreaKind]*geojson.FeatureCollection
}

// NewBoundaryService creates a boundary service reading from
// dataDir/polygons.
func NewBoundaryService(dataDir string) *BoundaryService {
	return &BoundaryService{
		dataDir: dataDir,
		loaded:  make(map[selection.AreaKind]*geojson.FeatureCollection),
	}
}

// File returns the on-disk path for a kind's boundary file.
func (s *BoundaryService) File(kind selection.AreaKind) (string, error) {
	name, ok := boundaryFiles[kind]
	if !ok {
		return "", fmt.Errorf("no boundary file for kind %q", kind)
	}
	return filepath.Join(s.dataDir, "polygons", name), nil
}

// Collection returns the parsed FeatureCollection for a kind.
func (s *BoundaryService) Collection(kind selection.AreaKind) (*geojson.FeatureCollection, error) {
	s.mu.RLock()
	fc, ok := s.loaded[kind]
	s.mu.RUnlock()
	if ok {
		return fc, nil
	}

	path, err := s.File(kind)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read boundaries for %s: %w", kind, err)
	}
	fc, err = geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse boundaries for %s: %w", kind, err)
	}

	s.mu.Lock()
	s.loaded[kind] = fc
	s.mu.Unlock()
	return fc, nil
}

// Names returns the feature names of a kind in file order, read from the
// property key that kind uses. Features missing the key are skipped.
func (s *BoundaryService) Names(kind selection.AreaKind) ([]string, error) {
	fc, err := s.Collection(kind)
	if err != nil {
		return nil, err
	}
	field := selection.NameFieldFor(kind)
	names := make([]string, 0, len(fc.Features))
	for _, f := range fc.Features {
		if name, ok := f.Properties[field].(string); ok && name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}
