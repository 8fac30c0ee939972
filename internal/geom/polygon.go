package geom

import "math"

// NewellNormal computes the unit normal of a planar polygon using the
// Newell method, which stays stable for slightly non-planar or concave
// boundaries. Returns the zero vector for degenerate (collinear or
// too-short) vertex lists.
func NewellNormal(verts []Point3) Vector3 {
	if len(verts) < 3 {
		return Vector3{}
	}
	var n Vector3
	for i, cur := range verts {
		next := verts[(i+1)%len(verts)]
		n.X += (cur.Y - next.Y) * (cur.Z + next.Z)
		n.Y += (cur.Z - next.Z) * (cur.X + next.X)
		n.Z += (cur.X - next.X) * (cur.Y + next.Y)
	}
	return n.Normalize()
}

// Center returns the vertex mean of the polygon. For the convex quads that
// make up typical aperture boundaries this matches the area centroid
// closely enough for grouping purposes.
func Center(verts []Point3) Point3 {
	if len(verts) == 0 {
		return Point3{}
	}
	var sx, sy, sz float64
	for _, v := range verts {
		sx += v.X
		sy += v.Y
		sz += v.Z
	}
	inv := 1 / float64(len(verts))
	return Point3{sx * inv, sy * inv, sz * inv}
}

// Area returns the area of a planar polygon, computed from the magnitude
// of the unnormalized Newell vector.
func Area(verts []Point3) float64 {
	if len(verts) < 3 {
		return 0
	}
	var n Vector3
	for i, cur := range verts {
		next := verts[(i+1)%len(verts)]
		n.X += (cur.Y - next.Y) * (cur.Z + next.Z)
		n.Y += (cur.Z - next.Z) * (cur.X + next.X)
		n.Z += (cur.X - next.X) * (cur.Y + next.Y)
	}
	return n.Length() / 2
}

// PlaneBasis returns two unit vectors spanning the plane perpendicular to
// normal. The pairing is deterministic for a given normal so grid layouts
// are reproducible across runs.
func PlaneBasis(normal Vector3) (u, v Vector3) {
	n := normal.Normalize()
	// Pick the world axis least aligned with the normal as the seed.
	seed := Vector3{X: 1}
	if math.Abs(n.X) > math.Abs(n.Y) && math.Abs(n.X) > math.Abs(n.Z) {
		seed = Vector3{Y: 1}
	}
	u = seed.Cross(n).Normalize()
	v = n.Cross(u)
	return u, v
}

// GridPoints samples a planar polygon with a square grid of the given
// spacing and returns the cell centers that fall inside the boundary, in
// row-major scan order. Spacing must be positive; a non-positive spacing
// or a degenerate polygon yields nil.
func GridPoints(verts []Point3, spacing float64) []Point3 {
	if spacing <= 0 || len(verts) < 3 {
		return nil
	}
	n := NewellNormal(verts)
	if n.IsZero() {
		return nil
	}
	u, v := PlaneBasis(n)
	origin := verts[0]

	// Project the boundary into plane coordinates.
	poly := make([][2]float64, len(verts))
	minU, maxU := math.Inf(1), math.Inf(-1)
	minV, maxV := math.Inf(1), math.Inf(-1)
	for i, p := range verts {
		d := p.Sub(origin)
		pu, pv := d.Dot(u), d.Dot(v)
		poly[i] = [2]float64{pu, pv}
		minU, maxU = math.Min(minU, pu), math.Max(maxU, pu)
		minV, maxV = math.Min(minV, pv), math.Max(maxV, pv)
	}

	var pts []Point3
	for y := minV + spacing/2; y < maxV; y += spacing {
		for x := minU + spacing/2; x < maxU; x += spacing {
			if pointInPolygon(x, y, poly) {
				pts = append(pts, origin.Add(u.Scale(x)).Add(v.Scale(y)))
			}
		}
	}
	return pts
}

// pointInPolygon applies the even-odd ray casting rule in 2D plane
// coordinates. Points exactly on an edge may land on either side; grid
// centers are offset by half a spacing so this does not matter in
// practice.
func pointInPolygon(x, y float64, poly [][2]float64) bool {
	inside := false
	j := len(poly) - 1
	for i := range poly {
		xi, yi := poly[i][0], poly[i][1]
		xj, yj := poly[j][0], poly[j][1]
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
		j = i
	}
	return inside
}
