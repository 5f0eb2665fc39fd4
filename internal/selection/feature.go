package selection

// Feature is one selectable boundary polygon. It is a thin wrapper around
// whatever the map widget loaded, so the selection core never touches the
// widget's concrete feature type.
type Feature interface {
	ID() string
	Kind() AreaKind
	Active() bool
	SetActive(bool)
}

// boundaryFeature is the registry's own Feature implementation, used when a
// feature set is loaded from a plain list of names.
type boundaryFeature struct {
	id     string
	kind   AreaKind
	active bool
}

func (f *boundaryFeature) ID() string      { return f.id }
func (f *boundaryFeature) Kind() AreaKind  { return f.kind }
func (f *boundaryFeature) Active() bool    { return f.active }
func (f *boundaryFeature) SetActive(v bool) { f.active = v }

// FeatureRegistry holds the currently loaded boundary feature set and which
// of its features are active. At most one kind is loaded at a time; loading
// a new set discards the previous one, active or not.
type FeatureRegistry struct {
	kind     AreaKind
	features map[string]Feature
	loaded   []string // file order, drives the autocomplete source
	active   []string // activation order
	onChange func()
}

// NewFeatureRegistry creates an empty registry with no feature set loaded.
func NewFeatureRegistry() *FeatureRegistry {
	return &FeatureRegistry{features: make(map[string]Feature)}
}

// OnChange registers a callback fired after every activate/deactivate/load,
// so the option panels can be recomputed when the selection count flips.
func (r *FeatureRegistry) OnChange(fn func()) { r.onChange = fn }

func (r *FeatureRegistry) changed() {
	if r.onChange != nil {
		r.onChange()
	}
}

// Load replaces the loaded feature set with named features of the given
// kind. All active flags are cleared. An empty or nil id list leaves the
// registry loaded-but-empty, which is how a failed boundary fetch lands.
func (r *FeatureRegistry) Load(kind AreaKind, ids []string) {
	r.kind = kind
	r.features = make(map[string]Feature, len(ids))
	r.loaded = r.loaded[:0]
	r.active = r.active[:0]
	for _, id := range ids {
		if _, ok := r.features[id]; ok {
			continue
		}
		r.features[id] = &boundaryFeature{id: id, kind: kind}
		r.loaded = append(r.loaded, id)
	}
	r.changed()
}

// Kind returns the kind of the loaded feature set.
func (r *FeatureRegistry) Kind() AreaKind { return r.kind }

// IDs returns the loaded feature ids in file order.
func (r *FeatureRegistry) IDs() []string {
	out := make([]string, len(r.loaded))
	copy(out, r.loaded)
	return out
}

// Activate marks a feature active and records it at the end of the
// activation order. Activating an already-active feature returns
// ErrAlreadyActive and changes nothing, so the active list never holds
// duplicates.
func (r *FeatureRegistry) Activate(id string) error {
	f, ok := r.features[id]
	if !ok {
		return ErrNotFound
	}
	if f.Active() {
		return ErrAlreadyActive
	}
	f.SetActive(true)
	r.active = append(r.active, id)
	r.changed()
	return nil
}

// Deactivate clears a feature's active flag. Returns ErrNotFound if the
// feature is not currently active.
func (r *FeatureRegistry) Deactivate(id string) error {
	f, ok := r.features[id]
	if !ok || !f.Active() {
		return ErrNotFound
	}
	f.SetActive(false)
	for i, a := range r.active {
		if a == id {
			r.active = append(r.active[:i], r.active[i+1:]...)
			break
		}
	}
	r.changed()
	return nil
}

// ActiveIDs returns the active feature ids in activation order.
func (r *FeatureRegistry) ActiveIDs() []string {
	out := make([]string, len(r.active))
	copy(out, r.active)
	return out
}

// ActiveCount returns the number of active features.
func (r *FeatureRegistry) ActiveCount() int { return len(r.active) }
