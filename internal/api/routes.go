// Package api defines the Huma API routes and handlers.
package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/rainmyanmar/rainmap/internal/analysis"
	"github.com/rainmyanmar/rainmap/internal/selection"
	"github.com/rainmyanmar/rainmap/internal/service"
)

// Services holds the service dependencies for API handlers.
type Services struct {
	Boundary *service.BoundaryService
	Product  *service.ProductService
	Sessions *service.SessionService
}

// Types

type KindInput struct {
	Kind string `path:"kind" doc:"Boundary kind" enum:"country,regions,districts,basins" example:"regions"`
}

type NamesBody struct {
	Kind  string   `json:"kind" doc:"Boundary kind"`
	Field string   `json:"field" doc:"GeoJSON property the names come from"`
	Names []string `json:"names" doc:"Feature names in file order"`
}

type CatalogBody struct {
	Products   []service.Product `json:"products" doc:"Available datasets"`
	Timesteps  []string          `json:"timesteps" doc:"Aggregation periods"`
	Statistics []string          `json:"statistics" doc:"Reduction methods"`
}

type HealthBody struct {
	Status   string `json:"status" doc:"Health status" example:"ok"`
	Version  string `json:"version" doc:"API version" example:"1.0.0"`
	Sessions int    `json:"sessions" doc:"Live selection sessions"`
}

// APIHandler holds all REST API handlers. Methods named Register* are
// auto-discovered by huma.AutoRegister.
type APIHandler struct {
	svc *Services
}

func NewAPIHandler(svc *Services) *APIHandler {
	return &APIHandler{svc: svc}
}

// RegisterHealth registers health check routes.
func (h *APIHandler) RegisterHealth(api huma.API) {
	huma.Get(api, "/health", h.GetHealth, huma.OperationTags("health"))
}

// RegisterCatalog registers the product/timestep/statistic catalog route.
func (h *APIHandler) RegisterCatalog(api huma.API) {
	huma.Get(api, "/api/v1/catalog", h.GetCatalog, huma.OperationTags("catalog"))
}

// RegisterAreas registers boundary name listing routes.
func (h *APIHandler) RegisterAreas(api huma.API) {
	huma.Get(api, "/api/v1/areas/{kind}", h.GetAreaNames, huma.OperationTags("areas"))
}

// RegisterExport registers the CSV download route.
func (h *APIHandler) RegisterExport(api huma.API) {
	huma.Post(api, "/api/v1/export/csv", h.ExportCSV, huma.OperationTags("export"))
}

// Handlers

func (h *APIHandler) GetHealth(ctx context.Context, input *struct{}) (*struct{ Body HealthBody }, error) {
	body := HealthBody{Status: "ok", Version: "1.0.0"}
	if h.svc != nil && h.svc.Sessions != nil {
		body.Sessions = h.svc.Sessions.Len()
	}
	return &struct{ Body HealthBody }{Body: body}, nil
}

func (h *APIHandler) GetCatalog(ctx context.Context, input *struct{}) (*struct{ Body CatalogBody }, error) {
	if h.svc == nil || h.svc.Product == nil {
		return nil, huma.Error503ServiceUnavailable("catalog not available")
	}
	return &struct{ Body CatalogBody }{Body: CatalogBody{
		Products:   h.svc.Product.List(),
		Timesteps:  h.svc.Product.Timesteps(),
		Statistics: h.svc.Product.Statistics(),
	}}, nil
}

func (h *APIHandler) GetAreaNames(ctx context.Context, input *KindInput) (*struct{ Body NamesBody }, error) {
	if h.svc == nil || h.svc.Boundary == nil {
		return nil, huma.Error503ServiceUnavailable("boundaries not available")
	}
	kind, err := selection.ParseAreaKind(input.Kind)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}
	names, err := h.svc.Boundary.Names(kind)
	if err != nil {
		return nil, huma.Error404NotFound("boundary set not found: " + input.Kind)
	}
	return &struct{ Body NamesBody }{Body: NamesBody{
		Kind:  string(kind),
		Field: selection.NameFieldFor(kind),
		Names: names,
	}}, nil
}

type ExportCSVInput struct {
	Body struct {
		Data analysis.ChartData `json:"data" required:"true" doc:"Chart data: header row plus value rows"`
	}
}

type ExportCSVOutput struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

// ExportCSV turns chart data back into a downloadable table-data.csv, the
// same file the chart's save button produces.
func (h *APIHandler) ExportCSV(ctx context.Context, input *ExportCSVInput) (*ExportCSVOutput, error) {
	if len(input.Body.Data) == 0 {
		return nil, huma.Error400BadRequest("no chart data to export")
	}
	return &ExportCSVOutput{
		ContentType:        "text/csv",
		ContentDisposition: `attachment; filename="table-data.csv"`,
		Body:               []byte(input.Body.Data.CSV()),
	}, nil
}
