package selection

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Marker is a user-placed coordinate point.
type Marker struct {
	Lat   float64
	Lng   float64
	Title string
}

// MarkerRegistry holds user-placed markers in insertion order. The list is
// append/remove only; markers are removed by identity so two markers with
// the same position and title are still distinguishable.
type MarkerRegistry struct {
	markers  []*Marker
	onChange func()
}

// NewMarkerRegistry creates an empty marker registry.
func NewMarkerRegistry() *MarkerRegistry {
	return &MarkerRegistry{}
}

// OnChange registers a callback fired after every add/remove.
func (r *MarkerRegistry) OnChange(fn func()) { r.onChange = fn }

func (r *MarkerRegistry) changed() {
	if r.onChange != nil {
		r.onChange()
	}
}

// AddFromForm adds a marker from raw form input. All three fields must be
// non-empty and lat/lng must parse to finite numbers, otherwise
// ErrInvalidInput is returned.
func (r *MarkerRegistry) AddFromForm(lat, lng, title string) (*Marker, error) {
	if strings.TrimSpace(lat) == "" || strings.TrimSpace(lng) == "" || strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: latitude, longitude and title are required", ErrInvalidInput)
	}
	latV, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: latitude %q", ErrInvalidInput, lat)
	}
	lngV, err := strconv.ParseFloat(strings.TrimSpace(lng), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: longitude %q", ErrInvalidInput, lng)
	}
	return r.add(latV, lngV, title)
}

// AddFromMapClick adds a marker from a map click. An empty title defaults
// to the marker's ordinal index at creation time, skipping forward past any
// title a removal left behind so defaults stay unique.
func (r *MarkerRegistry) AddFromMapClick(lat, lng float64, title string) (*Marker, error) {
	if title == "" {
		for n := len(r.markers); ; n++ {
			title = strconv.Itoa(n)
			if !r.titleExists(title) {
				break
			}
		}
	}
	return r.add(lat, lng, title)
}

func (r *MarkerRegistry) titleExists(title string) bool {
	for _, m := range r.markers {
		if m.Title == title {
			return true
		}
	}
	return false
}

func (r *MarkerRegistry) add(lat, lng float64, title string) (*Marker, error) {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return nil, fmt.Errorf("%w: coordinates must be finite", ErrInvalidInput)
	}
	m := &Marker{Lat: lat, Lng: lng, Title: title}
	r.markers = append(r.markers, m)
	r.changed()
	return m, nil
}

// Remove removes a marker by identity. Returns ErrNotFound if the marker is
// not in the registry.
func (r *MarkerRegistry) Remove(m *Marker) error {
	for i, cur := range r.markers {
		if cur == m {
			r.markers = append(r.markers[:i], r.markers[i+1:]...)
			r.changed()
			return nil
		}
	}
	return ErrNotFound
}

// Find returns the first marker matching position and title, or nil.
func (r *MarkerRegistry) Find(lat, lng float64, title string) *Marker {
	for _, m := range r.markers {
		if m.Lat == lat && m.Lng == lng && m.Title == title {
			return m
		}
	}
	return nil
}

// Markers returns the markers in insertion order.
func (r *MarkerRegistry) Markers() []*Marker {
	out := make([]*Marker, len(r.markers))
	copy(out, r.markers)
	return out
}

// Len returns the number of markers.
func (r *MarkerRegistry) Len() int { return len(r.markers) }

// ToGeoJSON exports the markers as a FeatureCollection of Points with
// coordinates in GeoJSON [lng, lat] order. The legacy UI emitted [lat, lng]
// in one variant; that was a bug and is not preserved.
func (r *MarkerRegistry) ToGeoJSON() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, m := range r.markers {
		f := geojson.NewFeature(orb.Point{m.Lng, m.Lat})
		f.Properties["title"] = m.Title
		fc.Append(f)
	}
	return fc
}
