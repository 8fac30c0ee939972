// Package geom provides the minimal 3D vector and polygon math used by the
// aperture grouping pipeline: normals, centers, in-plane gridding, and the
// tolerance comparisons that orientation grouping depends on.
package geom

import "math"

// Point3 is a location in 3D Cartesian space, in model units (meters).
type Point3 struct {
	X, Y, Z float64
}

// Vector3 is a direction or displacement in 3D Cartesian space.
type Vector3 struct {
	X, Y, Z float64
}

// Add returns the point translated by v.
func (p Point3) Add(v Vector3) Point3 {
	return Point3{p.X + v.X, p.Y + v.Y, p.Z + v.Z}
}

// Sub returns the displacement from o to p.
func (p Point3) Sub(o Point3) Vector3 {
	return Vector3{p.X - o.X, p.Y - o.Y, p.Z - o.Z}
}

// DistanceTo returns the Euclidean distance between p and o.
func (p Point3) DistanceTo(o Point3) float64 {
	return p.Sub(o).Length()
}

// Add returns the component-wise sum of v and o.
func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns the component-wise difference of v and o.
func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v multiplied by s.
func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of v and o.
func (v Vector3) Dot(o Vector3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the cross product of v and o.
func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// Length returns the Euclidean length of v.
func (v Vector3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalize returns v scaled to unit length. A zero vector normalizes to
// the zero vector; callers that care should check IsZero first.
func (v Vector3) Normalize() Vector3 {
	l := v.Length()
	if l == 0 {
		return Vector3{}
	}
	return v.Scale(1 / l)
}

// IsZero reports whether all components of v are exactly zero.
func (v Vector3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// IsEquivalent reports whether v and o match component-wise within tol.
// This is the comparison orientation grouping uses: two unit normals are
// the "same facing" when every component differs by at most tol.
func (v Vector3) IsEquivalent(o Vector3, tol float64) bool {
	return math.Abs(v.X-o.X) <= tol &&
		math.Abs(v.Y-o.Y) <= tol &&
		math.Abs(v.Z-o.Z) <= tol
}
