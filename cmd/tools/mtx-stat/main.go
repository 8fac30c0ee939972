package main

import (
	"flag"
	"fmt"
	"log"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/lumen-data/multiphase/internal/fsutil"
	"github.com/lumen-data/multiphase/internal/grouping"
	"github.com/lumen-data/multiphase/internal/viewfactor"
)

func main() {
	var mtxPath string
	var countsPath string
	var pairCount int

	flag.StringVar(&mtxPath, "mtx", "", "path to the aperture view-factor matrix")
	flag.StringVar(&countsPath, "counts", "", "path to the sensor counts JSON")
	flag.IntVar(&pairCount, "pairs", 10, "number of closest aperture pairs to print")
	flag.Parse()

	if mtxPath == "" || countsPath == "" {
		log.Fatal("both -mtx and -counts are required")
	}

	fsys := fsutil.OSFileSystem{}
	counts, err := viewfactor.ReadCounts(fsys, countsPath)
	if err != nil {
		log.Fatalf("read counts: %v", err)
	}
	vectors, err := viewfactor.MeanViewFactors(fsys, mtxPath, counts)
	if err != nil {
		log.Fatalf("read matrix: %v", err)
	}

	fmt.Printf("%d apertures, %d patches per vector\n\n", len(vectors.IDs), len(vectors.Vectors[0]))
	fmt.Printf("%-30s  %8s  %10s  %10s  %10s\n", "aperture", "sensors", "mean", "min", "max")
	for i, id := range vectors.IDs {
		v := vectors.Vectors[i]
		fmt.Printf("%-30s  %8d  %10.6f  %10.6f  %10.6f\n",
			id, counts[i].SensorCount, stat.Mean(v, nil), floats.Min(v), floats.Max(v))
	}

	pairs, err := closestPairs(vectors, pairCount)
	if err != nil {
		log.Fatalf("failed to rank pairs: %v", err)
	}
	if len(pairs) == 0 {
		fmt.Println("\nNothing to compare - the matrix covers a single aperture")
		return
	}

	fmt.Println("\nClosest aperture pairs by RMSE:")
	for _, p := range pairs {
		fmt.Printf("  %-30s  %-30s  %.8f\n", p.a, p.b, p.rmse)
	}
	fmt.Printf("\nPairs with RMSE below the threshold merge (default %g)\n", grouping.DefaultThreshold)
}

type aperturePair struct {
	a, b string
	rmse float64
}

// closestPairs ranks all aperture pairs by RMSE, ascending, and keeps
// the first k.
func closestPairs(vectors *viewfactor.VectorSet, k int) ([]aperturePair, error) {
	if len(vectors.IDs) < 2 {
		return nil, nil
	}
	dist, err := grouping.RMSEMatrix(vectors.Vectors)
	if err != nil {
		return nil, err
	}

	var pairs []aperturePair
	for i := range dist {
		for j := i + 1; j < len(dist); j++ {
			pairs = append(pairs, aperturePair{a: vectors.IDs[i], b: vectors.IDs[j], rmse: dist[i][j]})
		}
	}
	sort.Slice(pairs, func(a, b int) bool { return pairs[a].rmse < pairs[b].rmse })
	if k > 0 && k < len(pairs) {
		pairs = pairs[:k]
	}
	return pairs, nil
}
