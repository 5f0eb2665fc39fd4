package api

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rainmyanmar/rainmap/internal/service"
)

func newTestAPI(t *testing.T) humatest.TestAPI {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "polygons"), 0755))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "polygons", "myanmar_state_region_boundaries.json"),
		[]byte(`{"type":"FeatureCollection","features":[
			{"type":"Feature","properties":{"ST":"Yangon"},
			 "geometry":{"type":"Polygon","coordinates":[[[96.0,16.6],[96.3,16.6],[96.3,17.0],[96.0,16.6]]]}},
			{"type":"Feature","properties":{"ST":"Mandalay"},
			 "geometry":{"type":"Polygon","coordinates":[[[95.8,21.5],[96.3,21.5],[96.3,22.2],[95.8,21.5]]]}}
		]}`), 0644))

	_, testAPI := humatest.New(t)
	huma.AutoRegister(testAPI, NewAPIHandler(&Services{
		Boundary: service.NewBoundaryService(dir),
		Product:  service.NewProductService(dir),
		Sessions: service.NewSessionService(nil, nil),
	}))
	return testAPI
}

func TestGetHealth(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	var body HealthBody
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
}

func TestGetCatalog(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Get("/api/v1/catalog")
	require.Equal(t, http.StatusOK, resp.Code)

	var body CatalogBody
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Len(t, body.Products, 5)
	assert.Equal(t, "CHIRPS", body.Products[0].Name)
	assert.Equal(t, []string{"day", "month", "year"}, body.Timesteps)
	assert.Equal(t, []string{"sum", "mean", "min", "max"}, body.Statistics)
}

func TestGetAreaNames(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Get("/api/v1/areas/regions")
	require.Equal(t, http.StatusOK, resp.Code)

	var body NamesBody
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "region", body.Kind)
	assert.Equal(t, "ST", body.Field)
	assert.Equal(t, []string{"Yangon", "Mandalay"}, body.Names)
}

func TestGetAreaNamesMissingSet(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Get("/api/v1/areas/basins")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestExportCSV(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Post("/api/v1/export/csv", map[string]any{
		"data": [][]any{
			{"Date", "Yangon"},
			{"2020-01-01", 4.2},
		},
	})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "text/csv", resp.Header().Get("Content-Type"))
	assert.Contains(t, resp.Header().Get("Content-Disposition"), "table-data.csv")
	assert.Equal(t, "\"Date\",\"Yangon\"\r\n\"2020-01-01\",4.2", resp.Body.String())
}

func TestExportCSVEmpty(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Post("/api/v1/export/csv", map[string]any{"data": [][]any{}})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
