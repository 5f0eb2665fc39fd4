package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
)

type InfoHandler struct {
	dataDir     string
	analysisURL string
	dbOK        bool
}

func NewInfoHandler(dataDir, analysisURL string, dbOK bool) *InfoHandler {
	return &InfoHandler{dataDir: dataDir, analysisURL: analysisURL, dbOK: dbOK}
}

func (h *InfoHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/api/v1/info", h.GetInfo, huma.OperationTags("health"))
}

type InfoBody struct {
	Name     string   `json:"name" doc:"Service name"`
	Version  string   `json:"version" doc:"Service version"`
	DataDir  string   `json:"data_dir" doc:"Data directory path"`
	Backend  string   `json:"backend" doc:"Analysis backend URL"`
	DB       bool     `json:"db" doc:"Whether database is available"`
	Features []string `json:"features" doc:"Available features"`
}

func (h *InfoHandler) GetInfo(ctx context.Context, input *struct{}) (*struct{ Body InfoBody }, error) {
	return &struct{ Body InfoBody }{Body: InfoBody{
		Name:     "rainmap",
		Version:  "0.1.0",
		DataDir:  h.dataDir,
		Backend:  h.analysisURL,
		DB:       h.dbOK,
		Features: []string{"graphs", "overlays", "shapefile-links", "duckdb"},
	}}, nil
}
