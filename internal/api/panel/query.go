package panel

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog"

	"github.com/rainmyanmar/rainmap/internal/analysis"
	"github.com/rainmyanmar/rainmap/internal/humastar"
	"github.com/rainmyanmar/rainmap/internal/selection"
	"github.com/rainmyanmar/rainmap/internal/service"
	"github.com/rainmyanmar/rainmap/internal/templates"
)

// QueryHandler turns the current selection into graph and overlay requests.
type QueryHandler struct {
	humastar.Handler
	sessions *service.SessionService
	catalog  *service.ProductService
	backend  *analysis.Client
	log      zerolog.Logger
}

func NewQueryHandler(sessions *service.SessionService, catalog *service.ProductService, backend *analysis.Client, renderer *templates.Renderer, log zerolog.Logger) *QueryHandler {
	return &QueryHandler{
		Handler:  humastar.Handler{Renderer: renderer},
		sessions: sessions,
		catalog:  catalog,
		backend:  backend,
		log:      log,
	}
}

func (h *QueryHandler) RegisterRoutes(api huma.API) {
	huma.Post(api, "/ui/query/graph", h.CreateGraph, huma.OperationTags("panel"))
	huma.Post(api, "/ui/query/overlay", h.CreateOverlay, huma.OperationTags("panel"))
}

type QueryInput struct {
	SessionInput
	humastar.SignalsInput
}

// queryOptions reads the option-panel signals into a resolver input.
func queryOptions(signals humastar.Signals) selection.Options {
	return selection.Options{
		Products:  signals.Strings("products"),
		Timestep:  signals.String("timestep"),
		Statistic: signals.String("statistic"),
	}
}

// resolve runs the single-flight guard, the resolver, and the catalog
// check. It returns the issued generation alongside the target; on any
// failure the in-flight flag is already released and the user message
// sent.
func (h *QueryHandler) resolve(sse humastar.SSE, sess *selection.Session, signals humastar.Signals, loadingSignal string) (selection.QueryTarget, uint64, bool) {
	gen, err := sess.BeginQuery()
	if err != nil {
		sse.Error("Still working on the previous request")
		return selection.QueryTarget{}, 0, false
	}

	opts := queryOptions(signals)
	qt, err := sess.Resolve(opts)
	if err != nil {
		sess.EndQuery(gen)
		msg := analysis.UserMessage(err)
		sess.SetStatus(msg)
		sse.Signals(map[string]any{loadingSignal: false})
		sse.Error(msg)
		return selection.QueryTarget{}, 0, false
	}
	if err := h.catalog.ValidateSelection(opts.Products, opts.Timestep, opts.Statistic); err != nil {
		sess.EndQuery(gen)
		sse.Signals(map[string]any{loadingSignal: false})
		sse.Error(err.Error())
		return selection.QueryTarget{}, 0, false
	}
	return *qt, gen, true
}

func (h *QueryHandler) CreateGraph(ctx context.Context, input *QueryInput) (*huma.StreamResponse, error) {
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}
	sess := h.sessions.Get(input.SessionID)

	return h.Stream(func(sse humastar.SSE) {
		sse.Signals(map[string]any{"graphloading": true})

		qt, gen, ok := h.resolve(sse, sess, signals, "graphloading")
		if !ok {
			return
		}

		req := analysis.Request{
			StartDate: signals.String("startdate"),
			EndDate:   signals.String("enddate"),
			Target:    qt,
		}
		data, err := h.backend.Graph(ctx, req)
		stale := sess.EndQuery(gen)
		sse.Signals(map[string]any{"graphloading": false})
		if err != nil {
			h.log.Warn().Err(err).Str("target", qt.Target).Msg("graph request failed")
			sse.Error(analysis.UserMessage(err))
			return
		}
		if stale {
			h.log.Debug().Str("target", qt.Target).Msg("dropping stale graph response")
			return
		}

		sse.Signals(map[string]any{"error": "", "charttitle": qt.ChartTitle()})
		sse.DispatchCustomEvent("draw-graph", map[string]any{
			"title": qt.ChartTitle(),
			"data":  [][]any(data),
		})
		h.sessions.Publish(input.SessionID, "graph", "created", qt.Target)
	}), nil
}

type legendData struct {
	Min float64
	Max float64
}

func (h *QueryHandler) CreateOverlay(ctx context.Context, input *QueryInput) (*huma.StreamResponse, error) {
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}
	sess := h.sessions.Get(input.SessionID)

	return h.Stream(func(sse humastar.SSE) {
		sse.Signals(map[string]any{"overlayloading": true})

		qt, gen, ok := h.resolve(sse, sess, signals, "overlayloading")
		if !ok {
			return
		}

		req := analysis.Request{
			StartDate: signals.String("startdate"),
			EndDate:   signals.String("enddate"),
			Target:    qt,
		}
		info, err := h.backend.Overlay(ctx, req)
		stale := sess.EndQuery(gen)
		sse.Signals(map[string]any{"overlayloading": false})
		if err != nil {
			h.log.Warn().Err(err).Str("target", qt.Target).Msg("overlay request failed")
			sse.Error(analysis.UserMessage(err))
			return
		}
		if stale {
			h.log.Debug().Str("target", qt.Target).Msg("dropping stale overlay response")
			return
		}

		sse.Signals(map[string]any{"error": "", "downloadurl": info.DownloadURL})
		sse.Patch(h.Renderer.MustRender("legend", legendData{Min: info.Min, Max: info.Max}), "#legend")
		sse.DispatchCustomEvent("draw-overlay", map[string]any{
			"mapid": info.MapID,
			"token": info.Token,
			"max":   info.Max,
			"min":   info.Min,
		})
		h.sessions.Publish(input.SessionID, "overlay", "created", qt.Target)
	}), nil
}
