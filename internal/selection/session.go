package selection

import "sync"

// MapView is the map-widget collaborator a Session drives on transitions.
// The web implementation buffers these calls and replays them to the
// browser; tests use a recording fake.
type MapView interface {
	// ClearOverlays removes all remote tile overlay layers.
	ClearOverlays()
	// SetMarkersVisible shows or hides the coordinate markers.
	SetMarkersVisible(visible bool)
	// RevertFeatureStyles resets all boundary features to the unselected
	// style.
	RevertFeatureStyles()
	// HighlightFeature applies the selected style to one feature.
	HighlightFeature(id string)
	// UnhighlightFeature reverts one feature to the unselected style.
	UnhighlightFeature(id string)
}

// NopMapView is a MapView that does nothing.
type NopMapView struct{}

func (NopMapView) ClearOverlays()            {}
func (NopMapView) SetMarkersVisible(bool)    {}
func (NopMapView) RevertFeatureStyles()      {}
func (NopMapView) HighlightFeature(string)   {}
func (NopMapView) UnhighlightFeature(string) {}

// Session is the selection state for one browser session: the feature and
// marker registries, the targeting mode and output type, the shapefile
// link, the status message, and the currently required option panels.
//
// A Session is the explicit replacement for the page-global singleton the
// legacy UI kept. All mutations go through Session methods and are
// serialized by an internal mutex; the generation counter lets callers
// detect that a slow query response no longer matches the selection that
// produced it.
type Session struct {
	mu sync.Mutex

	features *FeatureRegistry
	markers  *MarkerRegistry
	view     MapView

	mode           Mode
	output         OutputType
	overlayEnabled bool
	shapefileLink  string
	status         string
	panels         PanelSet

	generation uint64
	inFlight   bool
}

// NewSession creates a session in the default state: area targeting, graph
// output, nothing selected.
func NewSession(view MapView) *Session {
	if view == nil {
		view = NopMapView{}
	}
	s := &Session{
		features:       NewFeatureRegistry(),
		markers:        NewMarkerRegistry(),
		view:           view,
		mode:           ModeArea,
		output:         OutputGraph,
		overlayEnabled: true,
	}
	s.features.OnChange(s.changedLocked)
	s.markers.OnChange(s.changedLocked)
	s.recomputeLocked()
	return s
}

// changedLocked is the registry change hook. It runs inside Session methods
// that already hold the mutex.
func (s *Session) changedLocked() {
	s.generation++
	s.recomputeLocked()
}

func (s *Session) recomputeLocked() {
	s.panels = Recompute(s.mode, s.output, s.selectionCountLocked())
}

func (s *Session) selectionCountLocked() int {
	switch s.mode {
	case ModeArea:
		return s.features.ActiveCount()
	case ModeCoordinate:
		return s.markers.Len()
	}
	return 0
}

// View returns the map collaborator the session was built with.
func (s *Session) View() MapView { return s.view }

// SetMode switches the targeting mode. Switching to coordinate disables the
// overlay output and forces graph; any other mode re-enables it. The status
// message is cleared, overlay layers are removed, marker visibility and
// feature styling are reset for the new mode, and the option panels are
// recomputed.
func (s *Session) SetMode(mode Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mode = mode
	if mode == ModeCoordinate {
		s.overlayEnabled = false
		s.output = OutputGraph
	} else {
		s.overlayEnabled = true
	}
	s.status = ""
	s.generation++

	s.view.ClearOverlays()
	s.view.SetMarkersVisible(mode == ModeCoordinate)
	s.view.RevertFeatureStyles()
	if mode == ModeArea {
		for _, id := range s.features.ActiveIDs() {
			s.view.HighlightFeature(id)
		}
	}
	s.recomputeLocked()
}

// SetOutputType switches between graph and overlay output and recomputes
// the panels. Overlay is rejected while coordinate targeting is active.
func (s *Session) SetOutputType(t OutputType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t == OutputOverlay && !s.overlayEnabled {
		return ErrInvalidInput
	}
	s.output = t
	s.status = ""
	s.generation++
	s.recomputeLocked()
	return nil
}

// Mode returns the active targeting mode.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// OutputType returns the active output type.
func (s *Session) OutputType() OutputType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.output
}

// OverlayEnabled reports whether the overlay output option is selectable.
func (s *Session) OverlayEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overlayEnabled
}

// Panels returns the currently required option panels.
func (s *Session) Panels() PanelSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.panels
}

// Status returns the current status/error message.
func (s *Session) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// SetStatus records a status/error message.
func (s *Session) SetStatus(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = msg
}

// ShapefileLink returns the user-entered shapefile link.
func (s *Session) ShapefileLink() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shapefileLink
}

// SetShapefileLink records the shapefile link.
func (s *Session) SetShapefileLink(link string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shapefileLink = link
	s.generation++
}

// LoadAreas replaces the loaded boundary feature set. Previous selections,
// including active ones, are discarded and all feature styling is reverted.
func (s *Session) LoadAreas(kind AreaKind, ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.RevertFeatureStyles()
	s.features.Load(kind, ids)
}

// AreaKindLoaded returns the kind of the loaded boundary set.
func (s *Session) AreaKindLoaded() AreaKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.features.Kind()
}

// AreaIDs returns the loaded boundary names, the autocomplete source.
func (s *Session) AreaIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.features.IDs()
}

// ActiveAreaIDs returns the selected boundary names in activation order.
func (s *Session) ActiveAreaIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.features.ActiveIDs()
}

// ActivateArea selects a boundary feature and highlights it on the map.
func (s *Session) ActivateArea(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.features.Activate(id); err != nil {
		return err
	}
	s.view.HighlightFeature(id)
	return nil
}

// DeactivateArea unselects a boundary feature and reverts its styling.
func (s *Session) DeactivateArea(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.features.Deactivate(id); err != nil {
		return err
	}
	s.view.UnhighlightFeature(id)
	return nil
}

// AddMarkerFromForm adds a marker from raw form input.
func (s *Session) AddMarkerFromForm(lat, lng, title string) (*Marker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.markers.AddFromForm(lat, lng, title)
}

// AddMarkerFromClick adds a marker from a map click.
func (s *Session) AddMarkerFromClick(lat, lng float64, title string) (*Marker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.markers.AddFromMapClick(lat, lng, title)
}

// Markers returns the placed markers in insertion order.
func (s *Session) Markers() []*Marker {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.markers.Markers()
}

// RemoveMarker removes a marker by identity.
func (s *Session) RemoveMarker(m *Marker) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.markers.Remove(m)
}

// FindMarker returns the first marker matching position and title, or nil.
func (s *Session) FindMarker(lat, lng float64, title string) *Marker {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.markers.Find(lat, lng, title)
}

// Generation returns the current selection generation. It advances on every
// mutation that could change the query target.
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// BeginQuery marks a query in flight and returns the generation it was
// issued against. A second BeginQuery before EndQuery returns ErrBusy; the
// UI uses this to keep the create buttons single-flight.
func (s *Session) BeginQuery() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return 0, ErrBusy
	}
	s.inFlight = true
	return s.generation, nil
}

// EndQuery clears the in-flight flag and reports whether the response is
// stale: the selection changed while the query was running, so the result
// must be dropped.
func (s *Session) EndQuery(gen uint64) (stale bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	return gen != s.generation
}
