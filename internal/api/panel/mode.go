package panel

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/rainmyanmar/rainmap/internal/humastar"
	"github.com/rainmyanmar/rainmap/internal/selection"
	"github.com/rainmyanmar/rainmap/internal/service"
	"github.com/rainmyanmar/rainmap/internal/templates"
)

// ModeHandler switches the targeting mode and output type.
type ModeHandler struct {
	humastar.Handler
	sessions *service.SessionService
	catalog  *service.ProductService
}

func NewModeHandler(sessions *service.SessionService, catalog *service.ProductService, renderer *templates.Renderer) *ModeHandler {
	return &ModeHandler{
		Handler:  humastar.Handler{Renderer: renderer},
		sessions: sessions,
		catalog:  catalog,
	}
}

func (h *ModeHandler) RegisterRoutes(api huma.API) {
	huma.Post(api, "/ui/mode/{mode}", h.SetMode, huma.OperationTags("panel"))
	huma.Post(api, "/ui/output/{output}", h.SetOutput, huma.OperationTags("panel"))
}

type SetModeInput struct {
	SessionInput
	Mode string `path:"mode" doc:"Targeting mode" enum:"area,coordinate,shapefile"`
}

func (h *ModeHandler) SetMode(ctx context.Context, input *SetModeInput) (*huma.StreamResponse, error) {
	mode, err := selection.ParseMode(input.Mode)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}
	sess := h.sessions.Get(input.SessionID)

	return h.Stream(func(sse humastar.SSE) {
		sess.SetMode(mode)
		patchSelection(sse, h.Renderer, h.catalog, sess)
		sse.Signals(map[string]any{
			"mode":           string(mode),
			"output":         string(sess.OutputType()),
			"overlayenabled": sess.OverlayEnabled(),
		})
		h.sessions.Publish(input.SessionID, "mode", "changed", string(mode))
	}), nil
}

type SetOutputInput struct {
	SessionInput
	Output string `path:"output" doc:"Output type" enum:"graph,overlay"`
}

func (h *ModeHandler) SetOutput(ctx context.Context, input *SetOutputInput) (*huma.StreamResponse, error) {
	output, err := selection.ParseOutputType(input.Output)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}
	sess := h.sessions.Get(input.SessionID)

	return h.Stream(func(sse humastar.SSE) {
		if err := sess.SetOutputType(output); err != nil {
			sse.Error("Overlay is not available for coordinate targeting")
			return
		}
		sse.Patch(renderOptions(h.Renderer, h.catalog, sess), selOptions)
		sse.Signals(map[string]any{"output": string(output), "error": ""})
		h.sessions.Publish(input.SessionID, "output", "changed", string(output))
	}), nil
}
