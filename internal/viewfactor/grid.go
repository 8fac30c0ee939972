// Package viewfactor prepares the sensor grids the external rfluxmtx run
// consumes and turns its output matrix back into per-aperture mean
// view-factor vectors. The ray trace itself happens outside this module;
// these are the bookends around it.
package viewfactor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/lumen-data/multiphase/internal/fsutil"
	"github.com/lumen-data/multiphase/internal/geom"
	"github.com/lumen-data/multiphase/internal/model"
)

// SensorOffset lifts sensors off the aperture plane along the normal so
// rays do not originate inside the glazing surface.
const SensorOffset = 0.001

// Sensor is one position and direction row of a Radiance pts file.
type Sensor struct {
	Pos geom.Point3
	Dir geom.Vector3
}

// ApertureSensors records how many consecutive sensors belong to one
// aperture. Order matters: the rfluxmtx output is split back into
// apertures by walking these counts in sequence.
type ApertureSensors struct {
	Identifier  string `json:"identifier"`
	SensorCount int    `json:"sensor_count"`
}

// Grid is the joined sensor grid for a set of apertures.
type Grid struct {
	Sensors []Sensor
	Counts  []ApertureSensors
}

// BuildGrid meshes each aperture at the given spacing and joins the
// results into one grid, sensors offset along each aperture's normal and
// aimed with it. An aperture too small for the spacing contributes a
// single sensor at its center, so every aperture has at least one row.
func BuildGrid(apertures []*model.Aperture, spacing float64) (*Grid, error) {
	if len(apertures) == 0 {
		return nil, fmt.Errorf("no apertures to grid")
	}
	if spacing <= 0 {
		return nil, fmt.Errorf("grid spacing must be positive, got %v", spacing)
	}

	g := &Grid{}
	for _, ap := range apertures {
		n := ap.Normal()
		if n.IsZero() {
			return nil, fmt.Errorf("aperture %q has a degenerate boundary", ap.Identifier)
		}
		pts := geom.GridPoints(ap.Geometry.Boundary, spacing)
		if len(pts) == 0 {
			pts = []geom.Point3{ap.Center()}
		}
		offset := n.Scale(SensorOffset)
		for _, p := range pts {
			g.Sensors = append(g.Sensors, Sensor{Pos: p.Add(offset), Dir: n})
		}
		g.Counts = append(g.Counts, ApertureSensors{
			Identifier:  ap.Identifier,
			SensorCount: len(pts),
		})
	}
	return g, nil
}

// WritePts writes the grid in Radiance sensor format, one
// "x y z dx dy dz" row per sensor.
func (g *Grid) WritePts(fsys fsutil.FileSystem, path string) error {
	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output folder: %w", err)
	}
	w, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create sensor file: %w", err)
	}
	for _, s := range g.Sensors {
		if _, err := fmt.Fprintf(w, "%f %f %f %f %f %f\n",
			s.Pos.X, s.Pos.Y, s.Pos.Z, s.Dir.X, s.Dir.Y, s.Dir.Z); err != nil {
			w.Close()
			return fmt.Errorf("failed to write sensor file: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close sensor file: %w", err)
	}
	return nil
}

// WriteCounts writes the per-aperture sensor counts sidecar the
// postprocess step needs to split the matrix.
func (g *Grid) WriteCounts(fsys fsutil.FileSystem, path string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g.Counts); err != nil {
		return fmt.Errorf("failed to encode sensor counts: %w", err)
	}
	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output folder: %w", err)
	}
	if err := fsys.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write sensor counts: %w", err)
	}
	return nil
}

// ReadCounts loads a sensor counts sidecar.
func ReadCounts(fsys fsutil.FileSystem, path string) ([]ApertureSensors, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sensor counts: %w", err)
	}
	var counts []ApertureSensors
	if err := json.Unmarshal(data, &counts); err != nil {
		return nil, fmt.Errorf("failed to parse sensor counts: %w", err)
	}
	for i, c := range counts {
		if c.Identifier == "" || c.SensorCount < 1 {
			return nil, fmt.Errorf("sensor counts entry %d is malformed", i)
		}
	}
	return counts, nil
}
