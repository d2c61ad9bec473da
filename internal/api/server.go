package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/dgallion1/sheetdeck/internal/config"
	"github.com/dgallion1/sheetdeck/internal/pipeline"
)

// Server is the HTTP API server for sheetdeck.
type Server struct {
	router    chi.Router
	converter *pipeline.Converter
	log       *slog.Logger
	cfg       config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(conv *pipeline.Converter, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		converter: conv,
		log:       log,
		cfg:       cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))
	r.Use(corsPolicy(s.cfg.AllowedOrigins).Handler)

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.cfg.SheetdeckAPIKey != "" {
			r.Use(AuthMiddleware(s.cfg.SheetdeckAPIKey, s.log))
		}

		r.Post("/api/convert", s.handleConvert)
		r.Post("/api/analyze", s.handleAnalyze)
		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func corsPolicy(origins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodDelete, http.MethodOptions, http.MethodPatch,
		},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Authorization", "Content-Type", "Content-Disposition", "X-Conversion-ID"},
		AllowCredentials: true,
		MaxAge:           3600,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
