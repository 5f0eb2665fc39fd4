package panel

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/rainmyanmar/rainmap/internal/humastar"
	"github.com/rainmyanmar/rainmap/internal/service"
	"github.com/rainmyanmar/rainmap/internal/templates"
)

// EventHandler streams selection change events to the UI via SSE, so every
// open tab of a session shows the same panels and lists.
type EventHandler struct {
	humastar.Handler
	sessions *service.SessionService
	catalog  *service.ProductService
}

func NewEventHandler(sessions *service.SessionService, catalog *service.ProductService, renderer *templates.Renderer) *EventHandler {
	return &EventHandler{
		Handler:  humastar.Handler{Renderer: renderer},
		sessions: sessions,
		catalog:  catalog,
	}
}

func (h *EventHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/ui/events", h.Events, huma.OperationTags("panel"))
}

func (h *EventHandler) Events(ctx context.Context, input *SessionInput) (*huma.StreamResponse, error) {
	sess := h.sessions.Get(input.SessionID)

	return h.Stream(func(sse humastar.SSE) {
		// The page ships as an empty shell, so the first frames replay the
		// session's current state: option panels, selection lists, and the
		// mode/output signals. Without this a fresh session would show no
		// panels until the first mutation.
		patchSelection(sse, h.Renderer, h.catalog, sess)
		sse.Patch(renderAreaOptions(h.Renderer, sess), selAreaOptions)
		sse.Signals(map[string]any{
			"mode":           string(sess.Mode()),
			"output":         string(sess.OutputType()),
			"overlayenabled": sess.OverlayEnabled(),
		})

		ch := h.sessions.Subscribe()
		if ch == nil {
			return
		}
		defer h.sessions.Unsubscribe(ch)

		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-ch:
				if ev.Session != input.SessionID {
					continue
				}
				switch ev.Resource {
				case "areas", "markers", "mode", "output":
					patchSelection(sse, h.Renderer, h.catalog, sess)
				}
				sse.DispatchCustomEvent("selection-changed", map[string]any{
					"resource": ev.Resource,
					"action":   ev.Action,
					"id":       ev.ID,
				})
			}
		}
	}), nil
}
