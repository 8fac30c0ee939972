// Package grouping implements the aperture grouping core: RMSE distance
// matrices over mean view-factor vectors, complete-linkage agglomerative
// clustering with a deterministic tie-break, the orientation and
// vertical-tolerance policies, and the naming of the resulting groups.
package grouping

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Sentinel fills distance matrix diagonals so a cluster is never merged
// with itself. It exceeds any legitimate RMSE (view factors live in
// [0, 1]) and any usable threshold.
const Sentinel = 9999

// RMSEMatrix builds the square distance matrix over a set of equal-length
// view-factor vectors: entry (i, j) is the root-mean-square error between
// vectors i and j. The result is symmetric with a zero diagonal; the
// clusterer installs the sentinel itself.
//
// At least two vectors are required (a single aperture skips clustering
// entirely), and every vector must be non-empty and the same length.
func RMSEMatrix(vectors [][]float64) ([][]float64, error) {
	n := len(vectors)
	if n < 2 {
		return nil, fmt.Errorf("need at least 2 vectors to build a distance matrix, got %d", n)
	}
	l := len(vectors[0])
	if l == 0 {
		return nil, fmt.Errorf("view-factor vectors are empty")
	}
	for i, v := range vectors {
		if len(v) != l {
			return nil, fmt.Errorf("vector %d has length %d, want %d", i, len(v), l)
		}
	}

	scale := 1 / math.Sqrt(float64(l))
	d := make([][]float64, n)
	for i := range d {
		d[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			// RMSE is the L2 distance scaled by 1/sqrt(len).
			rmse := floats.Distance(vectors[i], vectors[j], 2) * scale
			d[i][j] = rmse
			d[j][i] = rmse
		}
	}
	return d, nil
}

// VerticalDistanceMatrix builds the elevation distance matrix used by
// vertical-tolerance refinement: entry (i, j) is |z_i - z_j|.
func VerticalDistanceMatrix(zs []float64) [][]float64 {
	n := len(zs)
	d := make([][]float64, n)
	for i := range d {
		d[i] = make([]float64, n)
		for j := range d[i] {
			d[i][j] = math.Abs(zs[i] - zs[j])
		}
	}
	return d
}
