package panel

import (
	"sync"

	"github.com/rainmyanmar/rainmap/internal/humastar"
	"github.com/rainmyanmar/rainmap/internal/selection"
)

// MapOp is one map-widget instruction queued for the browser.
type MapOp struct {
	Op string `json:"op"`
	ID string `json:"id,omitempty"`
	// Visible accompanies the set-markers-visible op.
	Visible bool `json:"visible,omitempty"`
}

// MapBridge implements selection.MapView for a server-held session. The
// selection core calls it synchronously during a transition; the ops queue
// up here and the handler that drove the transition flushes them to the
// browser as custom events, where a thin script applies them to the map
// widget.
type MapBridge struct {
	mu  sync.Mutex
	ops []MapOp
}

// NewMapBridge creates an empty bridge.
func NewMapBridge() *MapBridge {
	return &MapBridge{}
}

func (b *MapBridge) push(op MapOp) {
	b.mu.Lock()
	b.ops = append(b.ops, op)
	b.mu.Unlock()
}

func (b *MapBridge) ClearOverlays() { b.push(MapOp{Op: "clear-overlays"}) }

func (b *MapBridge) SetMarkersVisible(visible bool) {
	b.push(MapOp{Op: "set-markers-visible", Visible: visible})
}

func (b *MapBridge) RevertFeatureStyles() { b.push(MapOp{Op: "revert-feature-styles"}) }

func (b *MapBridge) HighlightFeature(id string) { b.push(MapOp{Op: "highlight-feature", ID: id}) }

func (b *MapBridge) UnhighlightFeature(id string) {
	b.push(MapOp{Op: "unhighlight-feature", ID: id})
}

// Drain returns the queued ops and empties the queue.
func (b *MapBridge) Drain() []MapOp {
	b.mu.Lock()
	defer b.mu.Unlock()
	ops := b.ops
	b.ops = nil
	return ops
}

// flushMap dispatches the session's queued map ops to the browser. Sessions
// built without a MapBridge (tests) have nothing to flush.
func flushMap(sse humastar.SSE, sess *selection.Session) {
	bridge, ok := sess.View().(*MapBridge)
	if !ok {
		return
	}
	for _, op := range bridge.Drain() {
		sse.DispatchCustomEvent("map-op", map[string]any{
			"op": op.Op, "id": op.ID, "visible": op.Visible,
		})
	}
}
