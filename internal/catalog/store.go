package catalog

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Grouping methods recorded on a run.
const (
	MethodViewFactor  = "view_factor"
	MethodOrientation = "orientation"
	MethodLightPath   = "light_path"
	MethodSweep       = "sweep"
)

// Run is one execution of the grouping pipeline over a model.
type Run struct {
	ID              string    `json:"id"`
	ModelIdentifier string    `json:"model_identifier"`
	Method          string    `json:"method"`
	RoomBased       bool      `json:"room_based"`
	Threshold       float64   `json:"threshold"`
	GroupCount      int       `json:"group_count"`
	ApertureCount   int       `json:"aperture_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// Group is one aperture group of a run. RoomIdentifier is empty for
// model-wide runs.
type Group struct {
	Identifier     string   `json:"identifier"`
	RoomIdentifier string   `json:"room_identifier,omitempty"`
	Apertures      []string `json:"apertures"`
}

// LightPath is one recorded light path for a room.
type LightPath struct {
	RoomIdentifier string   `json:"room_identifier"`
	Position       int      `json:"position"`
	Path           []string `json:"path"`
}

// SweepPoint is one threshold sample of a clustering sweep.
type SweepPoint struct {
	Threshold    float64 `json:"threshold"`
	GroupCount   int     `json:"group_count"`
	LargestGroup int     `json:"largest_group"`
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.New().String()
}

// InsertRun persists a run record. If the ID is empty a UUID is
// generated; if CreatedAt is zero the current time is used.
func (db *DB) InsertRun(run *Run) error {
	if run.ID == "" {
		run.ID = NewRunID()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	err := retryOnBusy(func() error {
		_, err := db.Exec(`
			INSERT INTO grouping_runs (
				id, model_identifier, method, room_based, threshold,
				group_count, aperture_count, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, run.ModelIdentifier, run.Method, run.RoomBased, run.Threshold,
			run.GroupCount, run.ApertureCount, run.CreatedAt.UTC().Format(time.RFC3339),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", run.ID, err)
	}
	return nil
}

// GetRun returns the run with the given ID.
func (db *DB) GetRun(id string) (*Run, error) {
	row := db.QueryRow(`
		SELECT id, model_identifier, method, room_based, threshold,
		       group_count, aperture_count, created_at
		FROM grouping_runs WHERE id = ?`, id)

	run, err := scanRun(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("query run %s: %w", id, err)
	}
	return run, nil
}

// Runs returns the most recent runs, newest first.
func (db *DB) Runs(limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.Query(`
		SELECT id, model_identifier, method, room_based, threshold,
		       group_count, aperture_count, created_at
		FROM grouping_runs
		ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

func scanRun(scan func(...interface{}) error) (*Run, error) {
	var (
		run       Run
		roomBased int
		createdAt string
	)
	if err := scan(
		&run.ID, &run.ModelIdentifier, &run.Method, &roomBased, &run.Threshold,
		&run.GroupCount, &run.ApertureCount, &createdAt,
	); err != nil {
		return nil, err
	}
	run.RoomBased = roomBased != 0
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("bad created_at %q: %w", createdAt, err)
	}
	run.CreatedAt = t
	return &run, nil
}

// InsertGroups persists a run's aperture groups in one transaction,
// one row per group membership so SQL can query by aperture.
func (db *DB) InsertGroups(runID string, groups []Group) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin group insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO aperture_groups (
			run_id, group_identifier, room_identifier, aperture_identifier, position
		) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare group insert: %w", err)
	}
	defer stmt.Close()

	for _, g := range groups {
		for pos, ap := range g.Apertures {
			if _, err := stmt.Exec(runID, g.Identifier, nullStr(g.RoomIdentifier), ap, pos); err != nil {
				return fmt.Errorf("inserting group %s: %w", g.Identifier, err)
			}
		}
	}

	return tx.Commit()
}

// GroupsForRun returns a run's groups with their members, in insertion
// order.
func (db *DB) GroupsForRun(runID string) ([]Group, error) {
	rows, err := db.Query(`
		SELECT group_identifier, room_identifier, aperture_identifier
		FROM aperture_groups
		WHERE run_id = ?
		ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query groups for run %s: %w", runID, err)
	}
	defer rows.Close()

	var (
		groups []Group
		index  = map[string]int{}
	)
	for rows.Next() {
		var (
			gid  string
			room sql.NullString
			ap   string
		)
		if err := rows.Scan(&gid, &room, &ap); err != nil {
			return nil, fmt.Errorf("scan group row: %w", err)
		}
		i, ok := index[gid]
		if !ok {
			i = len(groups)
			index[gid] = i
			groups = append(groups, Group{Identifier: gid, RoomIdentifier: room.String})
		}
		groups[i].Apertures = append(groups[i].Apertures, ap)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return groups, nil
}

// InsertLightPaths persists a room's light paths in traversal order.
// Each path is stored as a JSON array of group identifiers.
func (db *DB) InsertLightPaths(runID, roomID string, paths [][]string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin light path insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO light_paths (run_id, room_identifier, position, path)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare light path insert: %w", err)
	}
	defer stmt.Close()

	for pos, path := range paths {
		encoded, err := json.Marshal(path)
		if err != nil {
			return fmt.Errorf("encoding light path: %w", err)
		}
		if _, err := stmt.Exec(runID, roomID, pos, string(encoded)); err != nil {
			return fmt.Errorf("inserting light path for room %s: %w", roomID, err)
		}
	}

	return tx.Commit()
}

// LightPathsForRun returns every stored light path of a run, ordered by
// room then traversal position.
func (db *DB) LightPathsForRun(runID string) ([]LightPath, error) {
	rows, err := db.Query(`
		SELECT room_identifier, position, path
		FROM light_paths
		WHERE run_id = ?
		ORDER BY room_identifier, position`, runID)
	if err != nil {
		return nil, fmt.Errorf("query light paths for run %s: %w", runID, err)
	}
	defer rows.Close()

	var paths []LightPath
	for rows.Next() {
		var (
			lp      LightPath
			encoded string
		)
		if err := rows.Scan(&lp.RoomIdentifier, &lp.Position, &encoded); err != nil {
			return nil, fmt.Errorf("scan light path: %w", err)
		}
		if err := json.Unmarshal([]byte(encoded), &lp.Path); err != nil {
			return nil, fmt.Errorf("decoding light path: %w", err)
		}
		paths = append(paths, lp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return paths, nil
}

// InsertSweepPoints persists the samples of a threshold sweep.
func (db *DB) InsertSweepPoints(runID string, points []SweepPoint) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin sweep insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO sweep_points (run_id, threshold, group_count, largest_group)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare sweep insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		if _, err := stmt.Exec(runID, p.Threshold, p.GroupCount, p.LargestGroup); err != nil {
			return fmt.Errorf("inserting sweep point: %w", err)
		}
	}

	return tx.Commit()
}

// SweepPointsForRun returns a run's sweep samples ordered by threshold.
func (db *DB) SweepPointsForRun(runID string) ([]SweepPoint, error) {
	rows, err := db.Query(`
		SELECT threshold, group_count, largest_group
		FROM sweep_points
		WHERE run_id = ?
		ORDER BY threshold`, runID)
	if err != nil {
		return nil, fmt.Errorf("query sweep points for run %s: %w", runID, err)
	}
	defer rows.Close()

	var points []SweepPoint
	for rows.Next() {
		var p SweepPoint
		if err := rows.Scan(&p.Threshold, &p.GroupCount, &p.LargestGroup); err != nil {
			return nil, fmt.Errorf("scan sweep point: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return points, nil
}

// nullStr converts an empty string to NULL for nullable columns.
func nullStr(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// isSQLiteBusy reports whether an error is a transient SQLITE_BUSY
// lock error worth retrying.
func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// retryOnBusy runs fn, retrying with backoff while the database reports
// a transient lock. Non-busy errors are returned immediately.
func retryOnBusy(fn func() error) error {
	const maxAttempts = 5
	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err = fn(); err == nil || !isSQLiteBusy(err) {
			return err
		}
		time.Sleep(time.Duration(attempt+1) * 50 * time.Millisecond)
	}
	return err
}
