package selection

// Panel identifies one option panel in the settings UI.
type Panel string

const (
	PanelProduct   Panel = "product"
	PanelTimestep  Panel = "timestep"
	PanelStatistic Panel = "statistic"
)

// InputKind is how a panel's options are chosen.
type InputKind string

const (
	InputSingle InputKind = "radio"
	InputMulti  InputKind = "checkbox"
)

// PanelSet is the reconciler output: which of the three option panels must
// be present and how the product panel accepts input. The renderer rebuilds
// the whole options container from a PanelSet on every recompute, so a
// stale panel can never survive a mode switch.
type PanelSet struct {
	Product   bool
	Timestep  bool
	Statistic bool
	// ProductInput is only meaningful when Product is true.
	ProductInput InputKind
}

// Contains reports whether a panel is required.
func (p PanelSet) Contains(panel Panel) bool {
	switch panel {
	case PanelProduct:
		return p.Product
	case PanelTimestep:
		return p.Timestep
	case PanelStatistic:
		return p.Statistic
	}
	return false
}

// Required returns the required panels in display order.
func (p PanelSet) Required() []Panel {
	var out []Panel
	if p.Product {
		out = append(out, PanelProduct)
	}
	if p.Timestep {
		out = append(out, PanelTimestep)
	}
	if p.Statistic {
		out = append(out, PanelStatistic)
	}
	return out
}

// Recompute decides the required option panels for a mode/output pair.
// selectionCount is the number of selected areas or placed markers,
// whichever the mode targets.
//
//	graph:   product for every mode, timestep except coordinate, statistic
//	         for every mode
//	overlay: all three for area/shapefile, none for coordinate
//
// The product panel is multi-select for graphs so several products can be
// compared over one target. With more than one target the comparison is
// across targets instead, so the panel degrades to single-select. Overlay
// is always single-select.
func Recompute(mode Mode, output OutputType, selectionCount int) PanelSet {
	var p PanelSet
	switch output {
	case OutputGraph:
		p.Product = true
		p.Timestep = mode != ModeCoordinate
		p.Statistic = true
	case OutputOverlay:
		if mode != ModeCoordinate {
			p.Product = true
			p.Timestep = true
			p.Statistic = true
		}
	}
	if p.Product {
		p.ProductInput = InputSingle
		if output == OutputGraph && selectionCount <= 1 {
			p.ProductInput = InputMulti
		}
	}
	return p
}
