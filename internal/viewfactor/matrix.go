package viewfactor

import (
	"bufio"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/lumen-data/multiphase/internal/fsutil"
)

// VectorSet holds the mean view-factor vector per aperture, ordered. The
// order follows the sensor counts the grid was built with, which keeps
// distance matrices reproducible.
type VectorSet struct {
	IDs     []string
	Vectors [][]float64
}

// Map returns the id-to-vector lookup the grouping policies consume.
func (s *VectorSet) Map() map[string][]float64 {
	out := make(map[string][]float64, len(s.IDs))
	for i, id := range s.IDs {
		out[id] = s.Vectors[i]
	}
	return out
}

// ReadMatrix parses an rfluxmtx irradiance matrix into per-sensor rows
// of view factors. Every row of RGB triplets keeps one channel (each
// third value) divided by pi; lines whose token count is not divisible
// by three (headers, comments) are skipped. All kept rows must agree on
// patch count.
func ReadMatrix(fsys fsutil.FileSystem, path string) ([][]float64, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open matrix file: %w", err)
	}
	defer f.Close()

	var rows [][]float64
	sc := bufio.NewScanner(f)
	// Rows can hold thousands of sky patches.
	sc.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || len(fields)%3 != 0 {
			continue
		}
		row := make([]float64, 0, len(fields)/3)
		for i := 0; i < len(fields); i += 3 {
			v, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return nil, fmt.Errorf("matrix line %d: bad value %q: %w", lineNo, fields[i], err)
			}
			row = append(row, v/math.Pi)
		}
		if len(rows) > 0 && len(row) != len(rows[0]) {
			return nil, fmt.Errorf("matrix line %d has %d patches, want %d",
				lineNo, len(row), len(rows[0]))
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read matrix file: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("matrix file %s holds no sensor rows", path)
	}
	return rows, nil
}

// SplitByAperture slices the sensor rows into consecutive per-aperture
// blocks using the grid's sensor counts.
func SplitByAperture(rows [][]float64, counts []ApertureSensors) ([][][]float64, error) {
	total := 0
	for _, c := range counts {
		total += c.SensorCount
	}
	if total != len(rows) {
		return nil, fmt.Errorf("matrix has %d sensor rows but counts require %d", len(rows), total)
	}

	blocks := make([][][]float64, len(counts))
	offset := 0
	for i, c := range counts {
		blocks[i] = rows[offset : offset+c.SensorCount]
		offset += c.SensorCount
	}
	return blocks, nil
}

// PatchMeans reduces one aperture's sensor rows to the mean view factor
// per sky patch.
func PatchMeans(block [][]float64) []float64 {
	if len(block) == 0 {
		return nil
	}
	patches := len(block[0])
	means := make([]float64, patches)
	col := make([]float64, len(block))
	for k := 0; k < patches; k++ {
		for i, row := range block {
			col[i] = row[k]
		}
		means[k] = stat.Mean(col, nil)
	}
	return means
}

// MeanViewFactors reads a matrix file and reduces it to one mean vector
// per aperture, ordered by the counts.
func MeanViewFactors(fsys fsutil.FileSystem, path string, counts []ApertureSensors) (*VectorSet, error) {
	rows, err := ReadMatrix(fsys, path)
	if err != nil {
		return nil, err
	}
	blocks, err := SplitByAperture(rows, counts)
	if err != nil {
		return nil, err
	}

	set := &VectorSet{
		IDs:     make([]string, len(counts)),
		Vectors: make([][]float64, len(counts)),
	}
	for i, c := range counts {
		set.IDs[i] = c.Identifier
		set.Vectors[i] = PatchMeans(blocks[i])
	}
	return set, nil
}
