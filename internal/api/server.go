// Package api serves read-only HTTP access to a grouping catalog: run
// listings as JSON plus rendered chart pages for operators.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/lumen-data/multiphase/internal/catalog"
	"github.com/lumen-data/multiphase/internal/grouping"
	"github.com/lumen-data/multiphase/internal/model"
	"github.com/lumen-data/multiphase/internal/report"
	"github.com/lumen-data/multiphase/internal/version"
)

// Server exposes a grouping catalog over HTTP. The model is optional;
// chart pages that need aperture geometry report an error without one.
type Server struct {
	db    *catalog.DB
	model *model.Model
}

// NewServer creates a server over the catalog. Pass a nil model when
// only the JSON API and sweep charts are needed.
func NewServer(db *catalog.DB, m *model.Model) *Server {
	return &Server{db: db, model: m}
}

// RegisterRoutes registers the API and chart routes on the provided mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/runs", s.handleListRuns)
	mux.HandleFunc("/api/runs/", s.handleRunDetail)
	mux.HandleFunc("/charts/groups", s.handleGroupChart)
	mux.HandleFunc("/charts/sweep", s.handleSweepChart)
	mux.HandleFunc("/", s.handleStatus)
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// handleHealth handles the health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status": "ok", "service": "multiphase", "version": "%s", "timestamp": "%s"}`, version.Version, time.Now().UTC().Format(time.RFC3339))
}

// handleStatus handles the main status page endpoint
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html")

	modelStatus := "not loaded (group charts unavailable)"
	if s.model != nil {
		modelStatus = fmt.Sprintf("%s (%d rooms)", s.model.Identifier, len(s.model.Rooms))
	}

	fmt.Fprintf(w, `
<!DOCTYPE html>
<html>
<head><title>Multiphase Catalog</title></head>
<body>
	<h1>Multiphase Catalog</h1>
	<p>Model: %s</p>
	<ul>
		<li><a href="/health">Health check</a></li>
		<li><a href="/api/runs">Run listing (JSON)</a></li>
		<li>/api/runs/{id} &mdash; run detail with groups, light paths and sweep points</li>
		<li>/charts/groups?run={id} &mdash; aperture group charts</li>
		<li>/charts/sweep?run={id} &mdash; threshold sweep chart</li>
		<li><a href="/debug/db-stats">Catalog stats</a></li>
	</ul>
</body>
</html>`, modelStatus)
}

// handleListRuns returns recent runs, newest first.
// Query params:
//
//	limit (optional, default 50)
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n <= 0 {
			s.writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("invalid 'limit' parameter: %q", l))
			return
		}
		limit = n
	}

	runs, err := s.db.Runs(limit)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("list runs: %v", err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"runs":  runs,
		"count": len(runs),
	})
}

// handleRunDetail returns one run with its groups, light paths and
// sweep points.
func (s *Server) handleRunDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/runs/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	run, err := s.db.GetRun(id)
	if err != nil {
		s.writeJSONError(w, http.StatusNotFound, err.Error())
		return
	}

	groups, err := s.db.GroupsForRun(id)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("load groups: %v", err))
		return
	}
	lightPaths, err := s.db.LightPathsForRun(id)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("load light paths: %v", err))
		return
	}
	sweepPoints, err := s.db.SweepPointsForRun(id)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("load sweep points: %v", err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"run":          run,
		"groups":       groups,
		"light_paths":  lightPaths,
		"sweep_points": sweepPoints,
	})
}

// handleGroupChart renders the aperture group charts for a run. Needs a
// loaded model for aperture positions.
func (s *Server) handleGroupChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	runID := r.URL.Query().Get("run")
	if runID == "" {
		s.writeJSONError(w, http.StatusBadRequest, "missing 'run' parameter")
		return
	}
	if s.model == nil {
		s.writeJSONError(w, http.StatusServiceUnavailable, "no model loaded; restart serve with -model to enable group charts")
		return
	}

	groups, err := s.db.GroupsForRun(runID)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("load groups: %v", err))
		return
	}
	if len(groups) == 0 {
		s.writeJSONError(w, http.StatusNotFound, fmt.Sprintf("run %s has no groups", runID))
		return
	}

	// Headers go out before rendering; render errors can only be logged
	// by the caller's wrapper at this point.
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = report.WriteGroupPage(w, s.model, groupRecords(groups), "Aperture groups "+runID)
}

// handleSweepChart renders the threshold sweep chart for a run.
func (s *Server) handleSweepChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	runID := r.URL.Query().Get("run")
	if runID == "" {
		s.writeJSONError(w, http.StatusBadRequest, "missing 'run' parameter")
		return
	}

	points, err := s.db.SweepPointsForRun(runID)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("load sweep points: %v", err))
		return
	}
	if len(points) == 0 {
		s.writeJSONError(w, http.StatusNotFound, fmt.Sprintf("run %s has no sweep points", runID))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = report.WriteSweepChart(w, points, "Threshold sweep "+runID)
}

func groupRecords(groups []catalog.Group) []grouping.GroupRecord {
	records := make([]grouping.GroupRecord, len(groups))
	for i, g := range groups {
		records[i] = grouping.GroupRecord{Identifier: g.Identifier, Apertures: g.Apertures}
	}
	return records
}
