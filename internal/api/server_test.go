package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-data/multiphase/internal/catalog"
	"github.com/lumen-data/multiphase/internal/geom"
	"github.com/lumen-data/multiphase/internal/model"
)

func apiModel() *model.Model {
	window := func(id string, x float64) *model.Aperture {
		return &model.Aperture{
			Identifier: id,
			Geometry: model.Geometry{Boundary: []geom.Point3{
				{X: x, Y: 0, Z: 0}, {X: x + 1, Y: 0, Z: 0}, {X: x + 1, Y: 0, Z: 1}, {X: x, Y: 0, Z: 1},
			}},
			BoundaryCondition: model.BoundaryCondition{Type: model.BoundaryOutdoors},
		}
	}
	return &model.Model{
		Identifier: "model_1",
		Rooms: []*model.Room{{
			Identifier: "room_a",
			Faces: []*model.Face{{
				Identifier:        "wall_a",
				FaceType:          model.FaceTypeWall,
				Geometry:          model.Geometry{Boundary: []geom.Point3{{X: 0, Y: 0, Z: 0}, {X: 4, Y: 0, Z: 0}, {X: 4, Y: 0, Z: 3}, {X: 0, Y: 0, Z: 3}}},
				BoundaryCondition: model.BoundaryCondition{Type: model.BoundaryOutdoors},
				Apertures:         []*model.Aperture{window("ap_0", 0), window("ap_1", 2)},
			}},
		}},
	}
}

// setupTestServer builds a server over a fresh catalog seeded with one
// run carrying groups, light paths and sweep points.
func setupTestServer(t *testing.T, m *model.Model) (*Server, string) {
	t.Helper()

	db, err := catalog.NewDB(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	run := &catalog.Run{
		ModelIdentifier: "model_1",
		Method:          catalog.MethodViewFactor,
		RoomBased:       true,
		Threshold:       0.001,
		GroupCount:      2,
		ApertureCount:   2,
	}
	require.NoError(t, db.InsertRun(run))
	groups := []catalog.Group{
		{Identifier: "Room_A_ApertureGroup_0", RoomIdentifier: "room_a", Apertures: []string{"ap_0"}},
		{Identifier: "Room_A_ApertureGroup_1", RoomIdentifier: "room_a", Apertures: []string{"ap_1"}},
	}
	require.NoError(t, db.InsertGroups(run.ID, groups))
	require.NoError(t, db.InsertLightPaths(run.ID, "room_a", [][]string{{"Room_A_ApertureGroup_0"}}))
	points := []catalog.SweepPoint{{Threshold: 0.001, GroupCount: 2}, {Threshold: 0.01, GroupCount: 1}}
	require.NoError(t, db.InsertSweepPoints(run.ID, points))

	return NewServer(db, m), run.ID
}

func serveRequest(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestHandleHealth(t *testing.T) {
	s, _ := setupTestServer(t, nil)
	w := serveRequest(t, s, http.MethodGet, "/health")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status": "ok"`)
	assert.Contains(t, w.Body.String(), `"version"`)
}

func TestHandleStatus(t *testing.T) {
	s, _ := setupTestServer(t, apiModel())

	w := serveRequest(t, s, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "model_1")

	w = serveRequest(t, s, http.MethodGet, "/no-such-page")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleListRuns(t *testing.T) {
	s, runID := setupTestServer(t, nil)

	w := serveRequest(t, s, http.MethodGet, "/api/runs")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Runs  []catalog.Run `json:"runs"`
		Count int           `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Runs, 1)
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, runID, resp.Runs[0].ID)

	w = serveRequest(t, s, http.MethodGet, "/api/runs?limit=zero")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serveRequest(t, s, http.MethodPost, "/api/runs")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHandleRunDetail(t *testing.T) {
	s, runID := setupTestServer(t, nil)

	w := serveRequest(t, s, http.MethodGet, "/api/runs/"+runID)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Run         catalog.Run          `json:"run"`
		Groups      []catalog.Group      `json:"groups"`
		LightPaths  []catalog.LightPath  `json:"light_paths"`
		SweepPoints []catalog.SweepPoint `json:"sweep_points"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, runID, resp.Run.ID)
	assert.Len(t, resp.Groups, 2)
	assert.Len(t, resp.LightPaths, 1)
	assert.Len(t, resp.SweepPoints, 2)

	w = serveRequest(t, s, http.MethodGet, "/api/runs/no-such-run")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleGroupChart(t *testing.T) {
	s, runID := setupTestServer(t, apiModel())

	w := serveRequest(t, s, http.MethodGet, "/charts/groups?run="+runID)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Aperture groups "+runID)

	w = serveRequest(t, s, http.MethodGet, "/charts/groups")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleGroupChart_NoModel(t *testing.T) {
	s, runID := setupTestServer(t, nil)

	w := serveRequest(t, s, http.MethodGet, "/charts/groups?run="+runID)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "no model loaded")
}

func TestHandleSweepChart(t *testing.T) {
	s, runID := setupTestServer(t, nil)

	w := serveRequest(t, s, http.MethodGet, "/charts/sweep?run="+runID)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "RMSE threshold")

	w = serveRequest(t, s, http.MethodGet, "/charts/sweep?run=no-such-run")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
