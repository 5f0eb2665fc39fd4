// Package server wires the HTTP surface: the Huma REST API, the Datastar
// panel handlers, the legacy analysis proxy endpoints, and static files.
package server

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/rs/zerolog"

	"github.com/rainmyanmar/rainmap/internal/analysis"
	"github.com/rainmyanmar/rainmap/internal/api"
	"github.com/rainmyanmar/rainmap/internal/api/panel"
	"github.com/rainmyanmar/rainmap/internal/db"
	"github.com/rainmyanmar/rainmap/internal/selection"
	"github.com/rainmyanmar/rainmap/internal/service"
	"github.com/rainmyanmar/rainmap/internal/templates"
)

// sessionCookie names the browser cookie that keys selection sessions.
const sessionCookie = "rainmap_session"

// Config holds the server configuration.
type Config struct {
	Host        string
	Port        string
	DataDir     string
	WebDir      string // Path to web/ directory for static files and templates
	AnalysisURL string // Base URL of the Earth Engine analysis backend
	Log         zerolog.Logger
}

// Server is the rainmap HTTP server.
type Server struct {
	config   Config
	mux      *http.ServeMux
	humaAPI  huma.API
	db       *sql.DB
	services *api.Services
	renderer *templates.Renderer
	backend  *analysis.Client
	log      zerolog.Logger
}

// New creates a new rainmap server.
func New(cfg Config) *Server {
	mux := http.NewServeMux()

	// Create Huma API with humago (pure stdlib) adapter
	humaConfig := huma.DefaultConfig("rainmap API", "1.0.0")
	humaConfig.Info.Description = "Precipitation and evapotranspiration explorer for Myanmar: boundary selection, graph and overlay queries."
	humaConfig.Servers = []*huma.Server{
		{URL: fmt.Sprintf("http://%s:%s", cfg.Host, cfg.Port), Description: "Local server"},
	}
	// Disable $schema property in responses (cleaner JSON)
	humaConfig.CreateHooks = []func(huma.Config) huma.Config{}
	humaConfig.Transformers = append(humaConfig.Transformers, api.LinkTransformer())

	humaAPI := humago.New(mux, humaConfig)

	bus := service.NewEventBus()
	services := &api.Services{
		Boundary: service.NewBoundaryService(cfg.DataDir),
		Product:  service.NewProductService(cfg.DataDir),
		Sessions: service.NewSessionService(func() selection.MapView {
			return panel.NewMapBridge()
		}, bus),
	}

	// Initialize template renderer for panel SSE handlers
	var renderer *templates.Renderer
	if cfg.WebDir != "" {
		fragmentsDir := filepath.Join(cfg.WebDir, "templates", "fragments")
		if r, err := templates.New(fragmentsDir); err == nil {
			renderer = r
			cfg.Log.Info().Str("dir", fragmentsDir).Msg("loaded fragment templates")
		} else {
			cfg.Log.Warn().Err(err).Str("dir", fragmentsDir).Msg("fragment templates unavailable")
		}
	}

	s := &Server{
		config:   cfg,
		mux:      mux,
		humaAPI:  humaAPI,
		services: services,
		renderer: renderer,
		backend:  analysis.New(cfg.AnalysisURL, cfg.Log),
		log:      cfg.Log,
	}

	// Initialize DuckDB and ingest the boundary sets for SQL inspection.
	// The explorer works without it; only /api/v1/tables and /api/v1/query
	// need the database.
	conn, err := db.Get(db.Config{
		DataDir: cfg.DataDir,
		DBName:  "rainmap",
	})
	if err == nil {
		s.db = conn
		s.ingestBoundaries()
	} else {
		cfg.Log.Warn().Err(err).Msg("duckdb unavailable")
	}

	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Close closes server resources.
func (s *Server) Close() error {
	return db.Close()
}

// OpenAPI returns the generated API description.
func (s *Server) OpenAPI() *huma.OpenAPI {
	return s.humaAPI.OpenAPI()
}

func (s *Server) ingestBoundaries() {
	for _, kind := range []selection.AreaKind{
		selection.AreaCountry, selection.AreaRegion,
		selection.AreaDistrict, selection.AreaBasin,
	} {
		path, err := s.services.Boundary.File(kind)
		if err != nil {
			continue
		}
		if err := db.IngestBoundary(s.db, string(kind), path); err != nil {
			s.log.Warn().Err(err).Str("kind", string(kind)).Msg("boundary ingest skipped")
		}
	}
}

func (s *Server) routes() {
	// Huma REST API routes (OpenAPI-documented JSON endpoints)
	huma.AutoRegister(s.humaAPI, api.NewAPIHandler(s.services))
	api.NewInfoHandler(s.config.DataDir, s.config.AnalysisURL, s.db != nil).RegisterRoutes(s.humaAPI)
	api.NewDBHandler(s.db).RegisterRoutes(s.humaAPI)

	// Datastar panel SSE routes
	if s.renderer != nil {
		panel.NewModeHandler(s.services.Sessions, s.services.Product, s.renderer).RegisterRoutes(s.humaAPI)
		panel.NewAreaHandler(s.services.Sessions, s.services.Boundary, s.services.Product, s.renderer).RegisterRoutes(s.humaAPI)
		panel.NewMarkerHandler(s.services.Sessions, s.services.Product, s.renderer).RegisterRoutes(s.humaAPI)
		panel.NewShapefileHandler(s.services.Sessions, s.backend, s.renderer).RegisterRoutes(s.humaAPI)
		panel.NewQueryHandler(s.services.Sessions, s.services.Product, s.backend, s.renderer, s.log).RegisterRoutes(s.humaAPI)
		panel.NewEventHandler(s.services.Sessions, s.services.Product, s.renderer).RegisterRoutes(s.humaAPI)
	}

	// Legacy analysis endpoints, kept for old bookmarks and scripts. They
	// answer with the backend's raw JSON shapes.
	s.mux.HandleFunc("/graph", s.handleGraph)
	s.mux.HandleFunc("/overlay", s.handleOverlay)
	s.mux.HandleFunc("/shapefile", s.handleShapefile)

	// Static files: app assets from the web dir, boundary polygons from
	// the data dir.
	if s.config.WebDir != "" {
		staticDir := filepath.Join(s.config.WebDir, "static")
		s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	}
	polygonsDir := filepath.Join(s.config.DataDir, "polygons")
	s.mux.Handle("/static/polygons/", http.StripPrefix("/static/polygons/", http.FileServer(http.Dir(polygonsDir))))

	// Page routes
	s.mux.HandleFunc("/", s.handleIndex)
}

// legacyRequest rebuilds an analysis request from legacy query-string
// parameters, exactly as the old UI sent them.
func legacyRequest(r *http.Request) analysis.Request {
	q := r.URL.Query()
	req := analysis.Request{
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
		Target: selection.QueryTarget{
			Method:    selection.Mode(q.Get("method")),
			Target:    q.Get("target"),
			Timestep:  q.Get("timestep"),
			Statistic: q.Get("statistic"),
		},
	}
	if p := q.Get("product"); p != "" {
		req.Target.Products = []string{p}
	}
	if kind, err := selection.ParseAreaKind(q.Get("areaType")); err == nil {
		req.Target.AreaType = kind
	}
	return req
}

func writeJSONError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"error": analysis.UserMessage(err)})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	data, err := s.backend.Graph(r.Context(), legacyRequest(r))
	if err != nil {
		writeJSONError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func (s *Server) handleOverlay(w http.ResponseWriter, r *http.Request) {
	info, err := s.backend.Overlay(r.Context(), legacyRequest(r))
	if err != nil {
		writeJSONError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(info)
}

func (s *Server) handleShapefile(w http.ResponseWriter, r *http.Request) {
	if err := s.backend.ValidateShapefile(r.Context(), r.URL.Query().Get("link")); err != nil {
		writeJSONError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"success": "true"})
}

// handleIndex serves the explorer page and makes sure the browser carries
// a session cookie before the first panel request fires.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if _, err := r.Cookie(sessionCookie); err != nil {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    s.services.Sessions.NewID(),
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	if s.config.WebDir == "" {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"service": "rainmap",
			"status":  "running",
		})
		return
	}
	http.ServeFile(w, r, filepath.Join(s.config.WebDir, "templates", "viewer.html"))
}
