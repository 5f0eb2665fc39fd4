package selection

import (
	"encoding/json"
	"strings"
)

// Options are the option-panel values submitted with a query request.
// Products holds one entry per checked box; a radio panel submits one.
type Options struct {
	Products  []string
	Timestep  string
	Statistic string
}

// QueryTarget is the resolved, serialized selection: everything the
// analysis backend needs to identify what to compute over. It is derived
// on demand and never stored.
type QueryTarget struct {
	// Method mirrors the targeting mode.
	Method Mode
	// Target is the comma-joined active area names, the raw shapefile
	// link, or a GeoJSON FeatureCollection of marker points, depending on
	// Method.
	Target string
	// AreaType is the loaded feature kind. Only set in area mode.
	AreaType AreaKind
	// AreaCount is the number of active areas joined into Target. Only set
	// in area mode; area names may themselves contain commas, so Target is
	// not re-parsed to recover it.
	AreaCount int

	Products  []string
	Timestep  string
	Statistic string
}

// Resolve turns the session's current selection into a QueryTarget, or a
// *ValidationError naming the first thing the user still has to pick. The
// target-specific check runs before the generic option checks, and options
// are only required when their panel is currently shown, so the guidance
// message always names the topmost incomplete input.
func (s *Session) Resolve(opts Options) (*QueryTarget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	qt := &QueryTarget{
		Method:    s.mode,
		Products:  opts.Products,
		Timestep:  opts.Timestep,
		Statistic: opts.Statistic,
	}

	switch s.mode {
	case ModeArea:
		active := s.features.ActiveIDs()
		if len(active) == 0 {
			return nil, validationErr(NoAreaSelected)
		}
		qt.Target = strings.Join(active, ",")
		qt.AreaType = s.features.Kind()
		qt.AreaCount = len(active)
	case ModeCoordinate:
		if s.markers.Len() == 0 {
			return nil, validationErr(NoMarkerPlaced)
		}
		raw, err := json.Marshal(s.markers.ToGeoJSON())
		if err != nil {
			return nil, err
		}
		qt.Target = string(raw)
	case ModeShapefile:
		if strings.TrimSpace(s.shapefileLink) == "" {
			return nil, validationErr(NoShapefileLink)
		}
		qt.Target = s.shapefileLink
	}

	if s.panels.Product && len(opts.Products) == 0 {
		return nil, validationErr(NoProductSelected)
	}
	if s.panels.Timestep && opts.Timestep == "" {
		return nil, validationErr(NoTimestepSelected)
	}
	if s.panels.Statistic && opts.Statistic == "" {
		return nil, validationErr(NoStatisticSelected)
	}
	return qt, nil
}

// ChartTitle is the heading for a graph built from this target. A single
// area is titled by its name; multiple areas compare one product, so the
// product names the chart. Marker and shapefile targets have fixed titles.
func (t *QueryTarget) ChartTitle() string {
	switch t.Method {
	case ModeCoordinate:
		return "Markers"
	case ModeShapefile:
		return "ShapeFile"
	}
	if t.AreaCount > 1 {
		return strings.Join(t.Products, ", ")
	}
	return t.Target
}
