// Package lightpath traces the sequences of dynamic aperture groups that
// daylight crosses between the exterior and a given room, walking the
// room adjacency graph through interior apertures, doors, and air
// boundaries.
package lightpath

import (
	"fmt"
	"slices"

	"github.com/lumen-data/multiphase/internal/grouping"
	"github.com/lumen-data/multiphase/internal/model"
)

// FromRoom returns every distinct light path that reaches the room with
// the given identifier. Each path lists group identifiers from the room
// outward to the exterior element that terminates it; apertures and
// doors without a dynamic group contribute staticName (grouping's static
// sentinel when empty).
//
// Traversal crosses Surface boundary conditions into adjacent rooms. A
// crossed aperture or door extends the path only when its group differs
// from the path's current tail, so runs of same-group crossings collapse
// to one segment; air-boundary faces cross without contributing a
// segment at all. A per-branch visited set keeps cyclic room adjacency
// from recursing forever while still allowing different branches to pass
// through the same intermediate room. Identical paths are reported once,
// in first-appearance order; distinct paths carry no canonical order.
func FromRoom(m *model.Model, roomID, staticName string) ([][]string, error) {
	room, ok := m.RoomByIdentifier(roomID)
	if !ok {
		return nil, fmt.Errorf("room %q not found in model", roomID)
	}
	if staticName == "" {
		staticName = grouping.StaticName
	}

	t := &tracer{model: m, static: staticName}
	visited := map[string]bool{roomID: true}
	t.walk(room, nil, visited)
	return t.paths, nil
}

type tracer struct {
	model  *model.Model
	static string
	paths  [][]string
}

// walk visits one room on the current branch, following every aperture,
// door, and air-boundary face.
func (t *tracer) walk(room *model.Room, prefix []string, visited map[string]bool) {
	for _, f := range room.Faces {
		if f.FaceType == model.FaceTypeAirBoundary {
			// Fully open boundary: light passes with no group segment.
			if f.BoundaryCondition.IsSurface() {
				t.cross(f.BoundaryCondition, prefix, visited)
			}
			continue
		}
		for _, a := range f.Apertures {
			t.element(a.BoundaryCondition, a.DynamicGroupIdentifier, prefix, visited)
		}
		for _, d := range f.Doors {
			t.element(d.BoundaryCondition, d.DynamicGroupIdentifier, prefix, visited)
		}
	}
}

// element handles one aperture or door on the current branch.
func (t *tracer) element(bc model.BoundaryCondition, group string, prefix []string, visited map[string]bool) {
	gid := group
	if gid == "" {
		gid = t.static
	}
	switch {
	case bc.IsOutdoors():
		t.record(extend(prefix, gid))
	case bc.IsSurface():
		next := prefix
		if len(prefix) == 0 || prefix[len(prefix)-1] != gid {
			next = extend(prefix, gid)
		}
		t.cross(bc, next, visited)
	}
}

// cross follows a Surface boundary condition into the adjacent room
// unless this branch already passed through it. The visited entry is
// removed on return so sibling branches may still route through the
// room.
func (t *tracer) cross(bc model.BoundaryCondition, prefix []string, visited map[string]bool) {
	adjID, ok := bc.AdjacentRoom()
	if !ok || visited[adjID] {
		return
	}
	adj, ok := t.model.RoomByIdentifier(adjID)
	if !ok {
		return
	}
	visited[adjID] = true
	t.walk(adj, prefix, visited)
	delete(visited, adjID)
}

// record stores a completed path unless an identical one was already
// found.
func (t *tracer) record(path []string) {
	for _, p := range t.paths {
		if slices.Equal(p, path) {
			return
		}
	}
	t.paths = append(t.paths, path)
}

// extend copies prefix with gid appended. Branches share prefixes, so
// plain append aliasing is not safe here.
func extend(prefix []string, gid string) []string {
	out := make([]string, len(prefix)+1)
	copy(out, prefix)
	out[len(prefix)] = gid
	return out
}
