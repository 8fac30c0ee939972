// Package model holds the room/face/aperture representation the grouping
// pipeline operates on: a simplified building model with boundary
// conditions, loaded from JSON, with the derived accessors the clustering
// and light-path code needs.
package model

import (
	"encoding/json"

	"github.com/lumen-data/multiphase/internal/geom"
)

// Face types. AirBoundary faces separate rooms without blocking light and
// are treated as fully open during light-path traversal.
const (
	FaceTypeWall        = "Wall"
	FaceTypeFloor       = "Floor"
	FaceTypeRoofCeiling = "RoofCeiling"
	FaceTypeAirBoundary = "AirBoundary"
)

// Boundary condition types.
const (
	BoundaryOutdoors  = "Outdoors"
	BoundaryGround    = "Ground"
	BoundarySurface   = "Surface"
	BoundaryAdiabatic = "Adiabatic"
)

// Model is the root of a loaded building model.
type Model struct {
	Identifier  string  `json:"identifier"`
	DisplayName string  `json:"display_name,omitempty"`
	Units       string  `json:"units,omitempty"`
	Rooms       []*Room `json:"rooms"`
}

// Room is an enclosed volume bounded by faces.
type Room struct {
	Identifier  string  `json:"identifier"`
	DisplayName string  `json:"display_name,omitempty"`
	Faces       []*Face `json:"faces"`
}

// Face is one planar boundary of a room. Apertures and doors punched into
// the face carry their own geometry and boundary conditions.
type Face struct {
	Identifier        string            `json:"identifier"`
	FaceType          string            `json:"face_type"`
	Geometry          Geometry          `json:"geometry"`
	BoundaryCondition BoundaryCondition `json:"boundary_condition"`
	Apertures         []*Aperture       `json:"apertures,omitempty"`
	Doors             []*Door           `json:"doors,omitempty"`
}

// Aperture is a transparent opening in a face. DynamicGroupIdentifier is
// the aperture group assignment; empty means the aperture belongs to the
// static set.
type Aperture struct {
	Identifier             string            `json:"identifier"`
	DisplayName            string            `json:"display_name,omitempty"`
	Geometry               Geometry          `json:"geometry"`
	BoundaryCondition      BoundaryCondition `json:"boundary_condition"`
	DynamicGroupIdentifier string            `json:"dynamic_group_identifier,omitempty"`
}

// Door is an opaque or glazed operable opening in a face. Doors
// participate in light-path traversal the same way apertures do.
type Door struct {
	Identifier             string            `json:"identifier"`
	DisplayName            string            `json:"display_name,omitempty"`
	Geometry               Geometry          `json:"geometry"`
	BoundaryCondition      BoundaryCondition `json:"boundary_condition"`
	DynamicGroupIdentifier string            `json:"dynamic_group_identifier,omitempty"`
}

// BoundaryCondition describes what lies on the other side of a face,
// aperture, or door. For Surface conditions the last entry of Objects
// names the adjacent room.
type BoundaryCondition struct {
	Type    string   `json:"type"`
	Objects []string `json:"boundary_condition_objects,omitempty"`
}

// IsOutdoors reports whether the condition faces the outdoors.
func (bc BoundaryCondition) IsOutdoors() bool { return bc.Type == BoundaryOutdoors }

// IsSurface reports whether the condition faces another room's surface.
func (bc BoundaryCondition) IsSurface() bool { return bc.Type == BoundarySurface }

// AdjacentRoom returns the room on the other side of a Surface condition.
// The second return is false for non-Surface conditions or malformed
// object lists.
func (bc BoundaryCondition) AdjacentRoom() (string, bool) {
	if bc.Type != BoundarySurface || len(bc.Objects) == 0 {
		return "", false
	}
	return bc.Objects[len(bc.Objects)-1], true
}

// Geometry holds the planar boundary of a face, aperture, or door.
// Vertices serialize as [x, y, z] triplets.
type Geometry struct {
	Boundary []geom.Point3
}

type geometryWire struct {
	Boundary [][3]float64 `json:"boundary"`
}

// MarshalJSON implements json.Marshaler.
func (g Geometry) MarshalJSON() ([]byte, error) {
	w := geometryWire{Boundary: make([][3]float64, len(g.Boundary))}
	for i, p := range g.Boundary {
		w.Boundary[i] = [3]float64{p.X, p.Y, p.Z}
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler.
func (g *Geometry) UnmarshalJSON(data []byte) error {
	var w geometryWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	g.Boundary = make([]geom.Point3, len(w.Boundary))
	for i, c := range w.Boundary {
		g.Boundary[i] = geom.Point3{X: c[0], Y: c[1], Z: c[2]}
	}
	return nil
}

// Name returns the display name, falling back to the identifier when no
// display name was set.
func (r *Room) Name() string {
	if r.DisplayName != "" {
		return r.DisplayName
	}
	return r.Identifier
}

// Normal returns the unit normal of the aperture plane.
func (a *Aperture) Normal() geom.Vector3 {
	return geom.NewellNormal(a.Geometry.Boundary)
}

// Center returns the vertex mean of the aperture boundary.
func (a *Aperture) Center() geom.Point3 {
	return geom.Center(a.Geometry.Boundary)
}

// Area returns the aperture area.
func (a *Aperture) Area() float64 {
	return geom.Area(a.Geometry.Boundary)
}

// ExteriorApertures returns the room's apertures with Outdoors boundary
// conditions, in face and aperture declaration order.
func (r *Room) ExteriorApertures() []*Aperture {
	var out []*Aperture
	for _, f := range r.Faces {
		for _, a := range f.Apertures {
			if a.BoundaryCondition.IsOutdoors() {
				out = append(out, a)
			}
		}
	}
	return out
}

// RoomByIdentifier looks a room up by its identifier.
func (m *Model) RoomByIdentifier(id string) (*Room, bool) {
	for _, r := range m.Rooms {
		if r.Identifier == id {
			return r, true
		}
	}
	return nil, false
}

// Apertures returns every aperture in the model in declaration order.
func (m *Model) Apertures() []*Aperture {
	var out []*Aperture
	for _, r := range m.Rooms {
		for _, f := range r.Faces {
			out = append(out, f.Apertures...)
		}
	}
	return out
}

// ApertureByIdentifier looks an aperture up by its identifier.
func (m *Model) ApertureByIdentifier(id string) (*Aperture, bool) {
	for _, a := range m.Apertures() {
		if a.Identifier == id {
			return a, true
		}
	}
	return nil, false
}

// RoomApertures pairs a room with its exterior apertures. The grouping
// pipeline consumes these in model declaration order.
type RoomApertures struct {
	RoomIdentifier string
	RoomName       string
	Apertures      []*Aperture
}

// ExteriorAperturesByRoom returns the per-room exterior aperture index in
// model declaration order, skipping rooms with no exterior apertures.
func ExteriorAperturesByRoom(m *Model) []RoomApertures {
	var out []RoomApertures
	for _, r := range m.Rooms {
		aps := r.ExteriorApertures()
		if len(aps) == 0 {
			continue
		}
		out = append(out, RoomApertures{
			RoomIdentifier: r.Identifier,
			RoomName:       r.Name(),
			Apertures:      aps,
		})
	}
	return out
}
