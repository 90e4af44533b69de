package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jmccallister93/take-action/internal/decay"
	"github.com/jmccallister93/take-action/internal/ledger"
)

// --- character sheet ---

func (s *Server) handleGetSheet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": s.engine.Ledger().Categories(),
	})
}

func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string          `json:"name"`
		Description string          `json:"description"`
		Score       int             `json:"score"`
		Icon        string          `json:"icon"`
		Gradient    ledger.Gradient `json:"gradient"`
		Stats       []ledger.Stat   `json:"stats"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json")
		return
	}
	if req.Name == "" {
		badRequest(w, "name required")
		return
	}

	id := s.engine.AddCategory(ledger.CategoryData{
		Name:        req.Name,
		Description: req.Description,
		Score:       req.Score,
		Icon:        req.Icon,
		Gradient:    req.Gradient,
		Stats:       req.Stats,
	})
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        *string          `json:"name"`
		Description *string          `json:"description"`
		Score       *int             `json:"score"`
		Icon        *string          `json:"icon"`
		Gradient    *ledger.Gradient `json:"gradient"`
		Stats       *[]ledger.Stat   `json:"stats"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json")
		return
	}

	s.engine.UpdateCategory(chi.URLParam(r, "categoryID"), ledger.CategoryUpdate{
		Name:        req.Name,
		Description: req.Description,
		Score:       req.Score,
		Icon:        req.Icon,
		Gradient:    req.Gradient,
		Stats:       req.Stats,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	s.engine.DeleteCategory(chi.URLParam(r, "categoryID"))
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAddStat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json")
		return
	}
	if req.Name == "" {
		badRequest(w, "name required")
		return
	}

	s.engine.AddStat(chi.URLParam(r, "categoryID"), req.Name)
	writeJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
}

func (s *Server) handleDeleteStat(w http.ResponseWriter, r *http.Request) {
	s.engine.DeleteStat(chi.URLParam(r, "categoryID"), chi.URLParam(r, "statName"))
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleUpdateStat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Delta int `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json")
		return
	}

	s.engine.UpdateStat(chi.URLParam(r, "categoryID"), chi.URLParam(r, "statName"), req.Delta)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- activity log ---

func (s *Server) handleGetLog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"entries": s.engine.Ledger().Entries(),
	})
}

func (s *Server) handleLogActivity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Description string   `json:"description"`
		CategoryID  string   `json:"categoryId"`
		TargetStats []string `json:"targetStats"`
		Points      int      `json:"points"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json")
		return
	}
	if req.Description == "" {
		badRequest(w, "description required")
		return
	}
	if req.CategoryID == "" {
		badRequest(w, "categoryId required")
		return
	}

	entry := s.engine.LogActivity(req.Description, req.CategoryID, req.TargetStats, req.Points)
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleEditActivity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Description *string   `json:"description"`
		CategoryID  *string   `json:"categoryId"`
		TargetStats *[]string `json:"targetStats"`
		Points      *int      `json:"points"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json")
		return
	}
	if req.Description != nil && *req.Description == "" {
		badRequest(w, "description cannot be empty")
		return
	}

	entry, ok := s.engine.EditActivity(chi.URLParam(r, "entryID"), ledger.EntryUpdate{
		Description: req.Description,
		CategoryID:  req.CategoryID,
		TargetStats: req.TargetStats,
		Points:      req.Points,
	})
	if !ok {
		notFound(w, "activity not found")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleDeleteActivity(w http.ResponseWriter, r *http.Request) {
	s.engine.DeleteActivity(chi.URLParam(r, "entryID"))
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- decay settings ---

func (s *Server) handleGetDecaySettings(w http.ResponseWriter, r *http.Request) {
	sched := s.engine.Decay()
	settings := make([]*decay.Setting, 0)
	for _, key := range sched.Keys() {
		if set, ok := sched.Get(key.CategoryID, key.StatName); ok {
			settings = append(settings, set)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"settings": settings})
}

func (s *Server) handleAddDecaySetting(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CategoryID string `json:"categoryId"`
		StatName   string `json:"statName"`
		Points     int    `json:"points"`
		Interval   string `json:"interval"`
		Enabled    bool   `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json")
		return
	}
	if req.CategoryID == "" || req.StatName == "" {
		badRequest(w, "categoryId and statName required")
		return
	}
	if req.Points <= 0 {
		badRequest(w, "points must be positive")
		return
	}
	interval, err := time.ParseDuration(req.Interval)
	if err != nil || interval <= 0 {
		badRequest(w, "interval must be a positive duration like \"72h\"")
		return
	}

	s.engine.AddDecaySetting(decay.Setting{
		CategoryID: req.CategoryID,
		StatName:   req.StatName,
		Points:     req.Points,
		Interval:   interval,
		Enabled:    req.Enabled,
	})
	writeJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
}

func (s *Server) handleUpdateDecaySetting(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Points   *int    `json:"points"`
		Interval *string `json:"interval"`
		Enabled  *bool   `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json")
		return
	}

	upd := decay.SettingUpdate{Points: req.Points, Enabled: req.Enabled}
	if req.Points != nil && *req.Points <= 0 {
		badRequest(w, "points must be positive")
		return
	}
	if req.Interval != nil {
		interval, err := time.ParseDuration(*req.Interval)
		if err != nil || interval <= 0 {
			badRequest(w, "interval must be a positive duration like \"72h\"")
			return
		}
		upd.Interval = &interval
	}

	key := decay.Key(chi.URLParam(r, "categoryID"), chi.URLParam(r, "statName"))
	if !s.engine.UpdateDecaySetting(key, upd) {
		notFound(w, "decay setting not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRemoveDecaySetting(w http.ResponseWriter, r *http.Request) {
	s.engine.RemoveDecaySetting(decay.Key(chi.URLParam(r, "categoryID"), chi.URLParam(r, "statName")))
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCountdown(w http.ResponseWriter, r *http.Request) {
	cd, ok := s.engine.TimeUntilNextDecay(chi.URLParam(r, "categoryID"), chi.URLParam(r, "statName"))
	if !ok {
		notFound(w, "no enabled decay setting for stat")
		return
	}
	writeJSON(w, http.StatusOK, cd)
}

// --- evaluation ---

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	removed := s.engine.EvaluateNow()
	writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}
