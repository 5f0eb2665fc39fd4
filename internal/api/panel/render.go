// Package panel contains the Datastar SSE handlers for the explorer UI:
// targeting mode switches, area and marker selection, shapefile links, and
// the graph/overlay queries. Every mutation re-renders the affected
// fragments server-side and patches them into the page.
package panel

import (
	"bytes"

	"github.com/rainmyanmar/rainmap/internal/humastar"
	"github.com/rainmyanmar/rainmap/internal/selection"
	"github.com/rainmyanmar/rainmap/internal/service"
	"github.com/rainmyanmar/rainmap/internal/templates"
)

// Element selectors patched by the handlers.
const (
	selOptions     = "#options-container"
	selAreaList    = "#area-list"
	selAreaOptions = "#area-datalist"
	selMarkerList  = "#marker-list"
)

// SessionInput carries the browser's session cookie. The viewer page sets
// it before any panel request can fire.
type SessionInput struct {
	SessionID string `cookie:"rainmap_session"`
}

type productOptionsData struct {
	// Input is the input element type: "checkbox" or "radio".
	Input    string
	Products []string
}

type choiceOptionsData struct {
	Values []string
}

type areaRowData struct {
	ID string
}

type markerRowData struct {
	Lat   float64
	Lng   float64
	Title string
}

// renderOptions rebuilds the whole options container from the session's
// current panel set. Rendering from scratch on every recompute is what
// keeps stale panels from surviving a mode switch.
func renderOptions(r *templates.Renderer, catalog *service.ProductService, sess *selection.Session) string {
	var buf bytes.Buffer
	p := sess.Panels()
	if p.Product {
		r.RenderToBuffer(&buf, "product-options", productOptionsData{
			Input:    string(p.ProductInput),
			Products: catalog.Names(),
		})
	}
	if p.Timestep {
		r.RenderToBuffer(&buf, "timestep-options", choiceOptionsData{Values: catalog.Timesteps()})
	}
	if p.Statistic {
		r.RenderToBuffer(&buf, "statistic-options", choiceOptionsData{Values: catalog.Statistics()})
	}
	return buf.String()
}

func renderAreaList(r *templates.Renderer, sess *selection.Session) string {
	ids := sess.ActiveAreaIDs()
	items := make([]any, len(ids))
	for i, id := range ids {
		items[i] = areaRowData{ID: id}
	}
	return humastar.RenderList(r, "area-row", items, "No areas selected", "Pick an area from the search box")
}

func renderAreaOptions(r *templates.Renderer, sess *selection.Session) string {
	ids := sess.AreaIDs()
	opts := make([]humastar.SelectOptionData, len(ids))
	for i, id := range ids {
		opts[i] = humastar.SelectOptionData{Value: id, Label: id}
	}
	var buf bytes.Buffer
	for _, opt := range opts {
		r.RenderToBuffer(&buf, "datalist-option", opt)
	}
	return buf.String()
}

func renderMarkerList(r *templates.Renderer, sess *selection.Session) string {
	markers := sess.Markers()
	items := make([]any, len(markers))
	for i, m := range markers {
		items[i] = markerRowData{Lat: m.Lat, Lng: m.Lng, Title: m.Title}
	}
	return humastar.RenderList(r, "marker-row", items, "No markers placed", "Click the map or enter coordinates")
}

// patchSelection re-renders everything a selection change can touch.
func patchSelection(sse humastar.SSE, r *templates.Renderer, catalog *service.ProductService, sess *selection.Session) {
	sse.Patch(renderOptions(r, catalog, sess), selOptions)
	sse.Patch(renderAreaList(r, sess), selAreaList)
	sse.Patch(renderMarkerList(r, sess), selMarkerList)
	sse.Signals(map[string]any{"error": sess.Status()})
	flushMap(sse, sess)
}
