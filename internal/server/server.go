package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jmccallister93/take-action/internal/engine"
	"github.com/jmccallister93/take-action/internal/store"
)

// Server is the take-action HTTP API. It is the boundary the UI calls: it
// validates input shapes here and hands pre-validated values to the engine,
// which does not re-validate.
type Server struct {
	db      *store.DB
	engine  *engine.Engine
	router  chi.Router
	version string
	started time.Time
}

// New creates a new Server over the given store and engine.
func New(db *store.DB, eng *engine.Engine, version string) *Server {
	s := &Server{
		db:      db,
		engine:  eng,
		version: version,
		started: time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Get("/sheet", s.handleGetSheet)
		r.Post("/categories", s.handleAddCategory)
		r.Patch("/categories/{categoryID}", s.handleUpdateCategory)
		r.Delete("/categories/{categoryID}", s.handleDeleteCategory)
		r.Post("/categories/{categoryID}/stats", s.handleAddStat)
		r.Delete("/categories/{categoryID}/stats/{statName}", s.handleDeleteStat)
		r.Post("/categories/{categoryID}/stats/{statName}/points", s.handleUpdateStat)

		r.Get("/log", s.handleGetLog)
		r.Post("/activities", s.handleLogActivity)
		r.Patch("/activities/{entryID}", s.handleEditActivity)
		r.Delete("/activities/{entryID}", s.handleDeleteActivity)

		r.Get("/decay", s.handleGetDecaySettings)
		r.Post("/decay", s.handleAddDecaySetting)
		r.Post("/decay/evaluate", s.handleEvaluate)
		r.Patch("/decay/{categoryID}/{statName}", s.handleUpdateDecaySetting)
		r.Delete("/decay/{categoryID}/{statName}", s.handleRemoveDecaySetting)
		r.Get("/decay/{categoryID}/{statName}/countdown", s.handleCountdown)
	})

	r.Handle("/metrics", promhttp.Handler())

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbOK := true
	if err := s.db.Ping(); err != nil {
		dbOK = false
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"db":      dbOK,
		"db_path": s.db.Path,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

func notFound(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": msg})
}
