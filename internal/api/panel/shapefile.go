package panel

import (
	"context"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/rainmyanmar/rainmap/internal/analysis"
	"github.com/rainmyanmar/rainmap/internal/humastar"
	"github.com/rainmyanmar/rainmap/internal/service"
	"github.com/rainmyanmar/rainmap/internal/templates"
)

// ShapefileHandler records and validates external feature-collection links.
type ShapefileHandler struct {
	humastar.Handler
	sessions *service.SessionService
	backend  *analysis.Client
}

func NewShapefileHandler(sessions *service.SessionService, backend *analysis.Client, renderer *templates.Renderer) *ShapefileHandler {
	return &ShapefileHandler{
		Handler:  humastar.Handler{Renderer: renderer},
		sessions: sessions,
		backend:  backend,
	}
}

func (h *ShapefileHandler) RegisterRoutes(api huma.API) {
	huma.Post(api, "/ui/shapefile", h.SetLink, huma.OperationTags("panel"))
	huma.Post(api, "/ui/shapefile/validate", h.Validate, huma.OperationTags("panel"))
}

type ShapefileInput struct {
	SessionInput
	humastar.SignalsInput
}

// SetLink stores the link as typed. Well-formedness is not checked here;
// the remote validation below is the only authority on whether the link
// works.
func (h *ShapefileHandler) SetLink(ctx context.Context, input *ShapefileInput) (*huma.StreamResponse, error) {
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}
	sess := h.sessions.Get(input.SessionID)

	return h.Stream(func(sse humastar.SSE) {
		sess.SetShapefileLink(signals.String("shapefilelink"))
		sse.Signals(map[string]any{"error": ""})
	}), nil
}

// Validate asks the backend whether the stored link resolves to a usable
// feature collection.
func (h *ShapefileHandler) Validate(ctx context.Context, input *ShapefileInput) (*huma.StreamResponse, error) {
	sess := h.sessions.Get(input.SessionID)

	return h.Stream(func(sse humastar.SSE) {
		link := strings.TrimSpace(sess.ShapefileLink())
		if link == "" {
			sse.Error("Add a link retrieved from Google EE API")
			return
		}
		sse.Signals(map[string]any{"validating": true})
		err := h.backend.ValidateShapefile(ctx, link)
		sse.Signals(map[string]any{"validating": false})
		if err != nil {
			sse.Error(analysis.UserMessage(err))
			return
		}
		sse.Success("Shapefile link is valid")
		h.sessions.Publish(input.SessionID, "shapefile", "validated", "")
	}), nil
}
