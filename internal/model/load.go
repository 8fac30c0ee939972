package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Load reads and parses a model JSON file, then validates it. The
// returned model is safe to hand to the grouping and light-path code.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a model from JSON and validates it.
func Parse(data []byte) (*Model, error) {
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse model JSON: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model: %w", err)
	}
	return &m, nil
}

// Validate checks the structural rules the pipeline relies on: unique
// identifiers, resolvable Surface boundary conditions, no apertures on
// air-boundary faces, and non-degenerate geometry.
func (m *Model) Validate() error {
	if m.Identifier == "" {
		return fmt.Errorf("model identifier is empty")
	}

	rooms := make(map[string]bool, len(m.Rooms))
	for _, r := range m.Rooms {
		if r.Identifier == "" {
			return fmt.Errorf("room with empty identifier")
		}
		if rooms[r.Identifier] {
			return fmt.Errorf("duplicate room identifier %q", r.Identifier)
		}
		rooms[r.Identifier] = true
	}

	seen := make(map[string]bool)
	for _, r := range m.Rooms {
		for _, f := range r.Faces {
			if f.Identifier == "" {
				return fmt.Errorf("room %q: face with empty identifier", r.Identifier)
			}
			if seen[f.Identifier] {
				return fmt.Errorf("duplicate face identifier %q", f.Identifier)
			}
			seen[f.Identifier] = true

			if err := checkBoundary(f.BoundaryCondition, rooms); err != nil {
				return fmt.Errorf("face %q: %w", f.Identifier, err)
			}
			if len(f.Geometry.Boundary) < 3 {
				return fmt.Errorf("face %q: boundary has %d vertices, need at least 3",
					f.Identifier, len(f.Geometry.Boundary))
			}
			if f.FaceType == FaceTypeAirBoundary && (len(f.Apertures) > 0 || len(f.Doors) > 0) {
				return fmt.Errorf("air boundary face %q carries apertures or doors", f.Identifier)
			}

			for _, a := range f.Apertures {
				if a.Identifier == "" {
					return fmt.Errorf("face %q: aperture with empty identifier", f.Identifier)
				}
				if seen[a.Identifier] {
					return fmt.Errorf("duplicate aperture identifier %q", a.Identifier)
				}
				seen[a.Identifier] = true
				if err := checkBoundary(a.BoundaryCondition, rooms); err != nil {
					return fmt.Errorf("aperture %q: %w", a.Identifier, err)
				}
				if len(a.Geometry.Boundary) < 3 || a.Normal().IsZero() {
					return fmt.Errorf("aperture %q: degenerate boundary", a.Identifier)
				}
			}
			for _, d := range f.Doors {
				if d.Identifier == "" {
					return fmt.Errorf("face %q: door with empty identifier", f.Identifier)
				}
				if seen[d.Identifier] {
					return fmt.Errorf("duplicate door identifier %q", d.Identifier)
				}
				seen[d.Identifier] = true
				if err := checkBoundary(d.BoundaryCondition, rooms); err != nil {
					return fmt.Errorf("door %q: %w", d.Identifier, err)
				}
				if len(d.Geometry.Boundary) < 3 {
					return fmt.Errorf("door %q: degenerate boundary", d.Identifier)
				}
			}
		}
	}
	return nil
}

// checkBoundary verifies a Surface condition resolves to a known room.
func checkBoundary(bc BoundaryCondition, rooms map[string]bool) error {
	if !bc.IsSurface() {
		return nil
	}
	adj, ok := bc.AdjacentRoom()
	if !ok {
		return fmt.Errorf("surface boundary condition without objects")
	}
	if !rooms[adj] {
		return fmt.Errorf("surface boundary condition names unknown room %q", adj)
	}
	return nil
}
