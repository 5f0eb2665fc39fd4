// Package selection holds the server-side selection state for the
// precipitation explorer: which boundary features and markers are chosen,
// which targeting mode and output type are active, which option panels the
// settings UI must show, and how the whole selection serializes into a
// query target for the analysis backend.
package selection

import "fmt"

// AreaKind identifies which boundary feature set is loaded.
type AreaKind string

const (
	AreaCountry  AreaKind = "country"
	AreaRegion   AreaKind = "region"
	AreaDistrict AreaKind = "district"
	AreaBasin    AreaKind = "basin"
)

// Mode is the active targeting method.
type Mode string

const (
	ModeArea       Mode = "area"
	ModeCoordinate Mode = "coordinate"
	ModeShapefile  Mode = "shapefile"
)

// OutputType is what the user wants back: a time-series graph or a map
// tile overlay.
type OutputType string

const (
	OutputGraph   OutputType = "graph"
	OutputOverlay OutputType = "overlay"
)

// NameFieldFor returns the GeoJSON property key that names features of a
// kind. The boundary sets are inconsistent about this: basins carry "Name",
// districts "DT", and the region and country sets both carry "ST".
func NameFieldFor(kind AreaKind) string {
	switch kind {
	case AreaBasin:
		return "Name"
	case AreaDistrict:
		return "DT"
	default:
		return "ST"
	}
}

// QueryValue returns the areaType wire form the analysis backend expects.
// All kinds except country travel in plural form.
func (k AreaKind) QueryValue() string {
	switch k {
	case AreaRegion:
		return "regions"
	case AreaDistrict:
		return "districts"
	case AreaBasin:
		return "basins"
	default:
		return string(k)
	}
}

// ParseAreaKind accepts both the singular kind names and the plural wire
// forms used by the legacy UI radio buttons.
func ParseAreaKind(s string) (AreaKind, error) {
	switch s {
	case "country":
		return AreaCountry, nil
	case "region", "regions":
		return AreaRegion, nil
	case "district", "districts":
		return AreaDistrict, nil
	case "basin", "basins":
		return AreaBasin, nil
	}
	return "", fmt.Errorf("%w: unknown area kind %q", ErrInvalidInput, s)
}

// ParseMode validates a targeting mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeArea, ModeCoordinate, ModeShapefile:
		return Mode(s), nil
	}
	return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, s)
}

// ParseOutputType validates an output type name.
func ParseOutputType(s string) (OutputType, error) {
	switch OutputType(s) {
	case OutputGraph, OutputOverlay:
		return OutputType(s), nil
	}
	return "", fmt.Errorf("%w: unknown output type %q", ErrInvalidInput, s)
}
