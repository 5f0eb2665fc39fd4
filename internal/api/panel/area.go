package panel

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/rainmyanmar/rainmap/internal/humastar"
	"github.com/rainmyanmar/rainmap/internal/selection"
	"github.com/rainmyanmar/rainmap/internal/service"
	"github.com/rainmyanmar/rainmap/internal/templates"
)

// AreaHandler loads boundary sets and activates/deactivates areas.
type AreaHandler struct {
	humastar.Handler
	sessions   *service.SessionService
	boundaries *service.BoundaryService
	catalog    *service.ProductService
}

func NewAreaHandler(sessions *service.SessionService, boundaries *service.BoundaryService, catalog *service.ProductService, renderer *templates.Renderer) *AreaHandler {
	return &AreaHandler{
		Handler:    humastar.Handler{Renderer: renderer},
		sessions:   sessions,
		boundaries: boundaries,
		catalog:    catalog,
	}
}

func (h *AreaHandler) RegisterRoutes(api huma.API) {
	huma.Post(api, "/ui/areas/load/{kind}", h.LoadKind, huma.OperationTags("panel"))
	huma.Post(api, "/ui/areas/activate", h.Activate, huma.OperationTags("panel"))
	huma.Delete(api, "/ui/areas/{id}", h.Deactivate, huma.OperationTags("panel"))
}

type LoadKindInput struct {
	SessionInput
	Kind string `path:"kind" doc:"Boundary kind" enum:"country,regions,districts,basins"`
}

// LoadKind switches the loaded boundary set, e.g. when the user flips the
// regions/districts/basins radio. Active areas from the previous set are
// discarded.
func (h *AreaHandler) LoadKind(ctx context.Context, input *LoadKindInput) (*huma.StreamResponse, error) {
	kind, err := selection.ParseAreaKind(input.Kind)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}
	sess := h.sessions.Get(input.SessionID)

	return h.Stream(func(sse humastar.SSE) {
		names, err := h.boundaries.Names(kind)
		if err != nil {
			// A failed load leaves the registry loaded-but-empty; the
			// previous set must not stay selectable.
			sess.LoadAreas(kind, nil)
			sse.Patch(renderAreaOptions(h.Renderer, sess), selAreaOptions)
			patchSelection(sse, h.Renderer, h.catalog, sess)
			sse.Error("Could not load boundaries")
			return
		}
		sess.LoadAreas(kind, names)
		sse.Patch(renderAreaOptions(h.Renderer, sess), selAreaOptions)
		patchSelection(sse, h.Renderer, h.catalog, sess)
		sse.DispatchCustomEvent("boundaries-changed", map[string]any{"kind": string(kind)})
		h.sessions.Publish(input.SessionID, "areas", "loaded", string(kind))
	}), nil
}

type ActivateAreaInput struct {
	SessionInput
	humastar.SignalsInput
}

// Activate selects the area named in the "areaname" signal, either from
// the search box or from a map polygon click.
func (h *AreaHandler) Activate(ctx context.Context, input *ActivateAreaInput) (*huma.StreamResponse, error) {
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}
	name := signals.String("areaname")
	if name == "" {
		return nil, huma.Error400BadRequest("area name is required")
	}
	sess := h.sessions.Get(input.SessionID)

	return h.Stream(func(sse humastar.SSE) {
		if err := sess.ActivateArea(name); err != nil {
			switch {
			case errors.Is(err, selection.ErrAlreadyActive):
				// Re-selecting an active area is a no-op, not an error.
				sse.Signals(map[string]any{"areaname": ""})
			default:
				sse.Error("Unknown area: " + name)
			}
			flushMap(sse, sess)
			return
		}
		sse.Signals(map[string]any{"areaname": ""})
		patchSelection(sse, h.Renderer, h.catalog, sess)
		h.sessions.Publish(input.SessionID, "areas", "activated", name)
	}), nil
}

type DeactivateAreaInput struct {
	SessionInput
	ID string `path:"id" doc:"Area name to deselect"`
}

func (h *AreaHandler) Deactivate(ctx context.Context, input *DeactivateAreaInput) (*huma.StreamResponse, error) {
	sess := h.sessions.Get(input.SessionID)

	return h.Stream(func(sse humastar.SSE) {
		if err := sess.DeactivateArea(input.ID); err != nil {
			sse.Error("Area is not selected: " + input.ID)
			return
		}
		patchSelection(sse, h.Renderer, h.catalog, sess)
		h.sessions.Publish(input.SessionID, "areas", "deactivated", input.ID)
	}), nil
}
