package geom

import (
	"math"
	"testing"
)

const floatTol = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= floatTol
}

func vecAlmostEqual(a, b Vector3) bool {
	return almostEqual(a.X, b.X) && almostEqual(a.Y, b.Y) && almostEqual(a.Z, b.Z)
}

func TestVector3_BasicOps(t *testing.T) {
	a := Vector3{1, 2, 3}
	b := Vector3{4, -5, 6}

	if got := a.Add(b); !vecAlmostEqual(got, Vector3{5, -3, 9}) {
		t.Errorf("Add: got %+v", got)
	}
	if got := a.Sub(b); !vecAlmostEqual(got, Vector3{-3, 7, -3}) {
		t.Errorf("Sub: got %+v", got)
	}
	if got := a.Scale(2); !vecAlmostEqual(got, Vector3{2, 4, 6}) {
		t.Errorf("Scale: got %+v", got)
	}
	if got := a.Dot(b); !almostEqual(got, 4-10+18) {
		t.Errorf("Dot: got %f", got)
	}
	if got := (Vector3{1, 0, 0}).Cross(Vector3{0, 1, 0}); !vecAlmostEqual(got, Vector3{0, 0, 1}) {
		t.Errorf("Cross: got %+v", got)
	}
	if got := (Vector3{3, 4, 0}).Length(); !almostEqual(got, 5) {
		t.Errorf("Length: got %f", got)
	}
}

func TestVector3_Normalize(t *testing.T) {
	n := Vector3{0, 0, 10}.Normalize()
	if !vecAlmostEqual(n, Vector3{0, 0, 1}) {
		t.Errorf("expected unit +Z, got %+v", n)
	}
	if got := (Vector3{}).Normalize(); !got.IsZero() {
		t.Errorf("zero vector should normalize to zero, got %+v", got)
	}
}

func TestVector3_IsEquivalent(t *testing.T) {
	tests := []struct {
		name string
		a, b Vector3
		tol  float64
		want bool
	}{
		{"identical", Vector3{1, 0, 0}, Vector3{1, 0, 0}, 0.05, true},
		{"within tolerance", Vector3{1, 0, 0}, Vector3{0.96, 0.04, 0}, 0.05, true},
		{"one component out", Vector3{1, 0, 0}, Vector3{1, 0.06, 0}, 0.05, false},
		{"opposite", Vector3{1, 0, 0}, Vector3{-1, 0, 0}, 0.05, false},
		// 0.5 is exactly representable, so the boundary comparison is exact.
		{"exactly at tolerance", Vector3{1, 0, 0}, Vector3{0.5, 0, 0}, 0.5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.IsEquivalent(tt.b, tt.tol); got != tt.want {
				t.Errorf("IsEquivalent(%+v, %+v, %f) = %v, want %v", tt.a, tt.b, tt.tol, got, tt.want)
			}
			// The comparison is symmetric.
			if got := tt.b.IsEquivalent(tt.a, tt.tol); got != tt.want {
				t.Errorf("IsEquivalent is not symmetric for %+v, %+v", tt.a, tt.b)
			}
		})
	}
}

func TestPoint3_SubAndDistance(t *testing.T) {
	p := Point3{1, 2, 3}
	q := Point3{1, 2, 8}
	if got := p.Sub(q); !vecAlmostEqual(got, Vector3{0, 0, -5}) {
		t.Errorf("Sub: got %+v", got)
	}
	if got := p.DistanceTo(q); !almostEqual(got, 5) {
		t.Errorf("DistanceTo: got %f", got)
	}
}
