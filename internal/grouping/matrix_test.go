package grouping

import (
	"math"
	"math/rand"
	"testing"
)

func TestRMSEMatrix_KnownValues(t *testing.T) {
	vectors := [][]float64{
		{0, 0},
		{1, 1},
		{0, 0},
	}
	d, err := RMSEMatrix(vectors)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// RMSE between (0,0) and (1,1) is sqrt((1+1)/2) = 1.
	if math.Abs(d[0][1]-1) > 1e-12 {
		t.Errorf("d[0][1] = %f, want 1", d[0][1])
	}
	if d[0][2] != 0 {
		t.Errorf("identical vectors should have zero distance, got %f", d[0][2])
	}
	for i := range d {
		if d[i][i] != 0 {
			t.Errorf("diagonal entry %d = %f, want 0 before clustering", i, d[i][i])
		}
	}
}

func TestRMSEMatrix_Symmetry(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	n, l := 8, 16
	vectors := make([][]float64, n)
	for i := range vectors {
		vectors[i] = make([]float64, l)
		for k := range vectors[i] {
			vectors[i][k] = rng.Float64()
		}
	}

	d, err := RMSEMatrix(vectors)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if d[i][j] != d[j][i] {
				t.Errorf("d[%d][%d] = %v but d[%d][%d] = %v", i, j, d[i][j], j, i, d[j][i])
			}
			if d[i][j] < 0 {
				t.Errorf("negative distance d[%d][%d] = %v", i, j, d[i][j])
			}
		}
	}
}

func TestRMSEMatrix_MatchesDirectFormula(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	vectors := make([][]float64, 5)
	for i := range vectors {
		vectors[i] = make([]float64, 9)
		for k := range vectors[i] {
			vectors[i][k] = rng.Float64()
		}
	}

	d, err := RMSEMatrix(vectors)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range vectors {
		for j := range vectors {
			var sum float64
			for k := range vectors[i] {
				e := vectors[i][k] - vectors[j][k]
				sum += e * e
			}
			want := math.Sqrt(sum / float64(len(vectors[i])))
			if math.Abs(d[i][j]-want) > 1e-12 {
				t.Errorf("d[%d][%d] = %v, want %v", i, j, d[i][j], want)
			}
		}
	}
}

func TestRMSEMatrix_Errors(t *testing.T) {
	tests := []struct {
		name    string
		vectors [][]float64
	}{
		{"no vectors", nil},
		{"one vector", [][]float64{{1, 2}}},
		{"empty vectors", [][]float64{{}, {}}},
		{"length mismatch", [][]float64{{1, 2}, {1, 2, 3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := RMSEMatrix(tt.vectors); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestVerticalDistanceMatrix(t *testing.T) {
	d := VerticalDistanceMatrix([]float64{0, 1.5, 0.2})
	want := [][]float64{
		{0, 1.5, 0.2},
		{1.5, 0, 1.3},
		{0.2, 1.3, 0},
	}
	for i := range want {
		for j := range want[i] {
			if math.Abs(d[i][j]-want[i][j]) > 1e-12 {
				t.Errorf("d[%d][%d] = %v, want %v", i, j, d[i][j], want[i][j])
			}
		}
	}
}
