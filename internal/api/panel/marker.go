package panel

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/rainmyanmar/rainmap/internal/humastar"
	"github.com/rainmyanmar/rainmap/internal/service"
	"github.com/rainmyanmar/rainmap/internal/templates"
)

// MarkerHandler adds and removes coordinate markers.
type MarkerHandler struct {
	humastar.Handler
	sessions *service.SessionService
	catalog  *service.ProductService
}

func NewMarkerHandler(sessions *service.SessionService, catalog *service.ProductService, renderer *templates.Renderer) *MarkerHandler {
	return &MarkerHandler{
		Handler:  humastar.Handler{Renderer: renderer},
		sessions: sessions,
		catalog:  catalog,
	}
}

func (h *MarkerHandler) RegisterRoutes(api huma.API) {
	huma.Post(api, "/ui/markers", h.AddFromForm, huma.OperationTags("panel"))
	huma.Post(api, "/ui/markers/click", h.AddFromClick, huma.OperationTags("panel"))
	huma.Delete(api, "/ui/markers", h.Remove, huma.OperationTags("panel"))
}

type MarkerSignalsInput struct {
	SessionInput
	humastar.SignalsInput
}

// AddFromForm creates a marker from the coordinate entry form. The form
// path is strict: all three fields are required.
func (h *MarkerHandler) AddFromForm(ctx context.Context, input *MarkerSignalsInput) (*huma.StreamResponse, error) {
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}
	sess := h.sessions.Get(input.SessionID)

	return h.Stream(func(sse humastar.SSE) {
		m, err := sess.AddMarkerFromForm(
			signals.String("markerlat"),
			signals.String("markerlng"),
			signals.String("markertitle"),
		)
		if err != nil {
			sse.Error("Fill in latitude, longitude and a title")
			return
		}
		sse.Signals(map[string]any{"markerlat": "", "markerlng": "", "markertitle": "", "error": ""})
		patchSelection(sse, h.Renderer, h.catalog, sess)
		sse.DispatchCustomEvent("marker-added", map[string]any{
			"lat": m.Lat, "lng": m.Lng, "title": m.Title,
		})
		h.sessions.Publish(input.SessionID, "markers", "added", m.Title)
	}), nil
}

// AddFromClick creates a marker from a map click. A missing title falls
// back to the marker's ordinal.
func (h *MarkerHandler) AddFromClick(ctx context.Context, input *MarkerSignalsInput) (*huma.StreamResponse, error) {
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}
	sess := h.sessions.Get(input.SessionID)

	return h.Stream(func(sse humastar.SSE) {
		m, err := sess.AddMarkerFromClick(
			signals.Float("clicklat"),
			signals.Float("clicklng"),
			signals.String("clicktitle"),
		)
		if err != nil {
			sse.Error("Invalid map click")
			return
		}
		patchSelection(sse, h.Renderer, h.catalog, sess)
		sse.DispatchCustomEvent("marker-added", map[string]any{
			"lat": m.Lat, "lng": m.Lng, "title": m.Title,
		})
		h.sessions.Publish(input.SessionID, "markers", "added", m.Title)
	}), nil
}

// Remove deletes the first marker matching position and title, which is
// how markers are identified across the wire.
func (h *MarkerHandler) Remove(ctx context.Context, input *MarkerSignalsInput) (*huma.StreamResponse, error) {
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}
	sess := h.sessions.Get(input.SessionID)

	return h.Stream(func(sse humastar.SSE) {
		lat := signals.Float("removelat")
		lng := signals.Float("removelng")
		title := signals.String("removetitle")

		m := sess.FindMarker(lat, lng, title)
		if m == nil {
			sse.Error("Marker not found")
			return
		}
		if err := sess.RemoveMarker(m); err != nil {
			sse.Error("Marker not found")
			return
		}
		patchSelection(sse, h.Renderer, h.catalog, sess)
		sse.DispatchCustomEvent("marker-removed", map[string]any{
			"lat": m.Lat, "lng": m.Lng, "title": m.Title,
		})
		h.sessions.Publish(input.SessionID, "markers", "removed", m.Title)
	}), nil
}
