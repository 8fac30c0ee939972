package grouping

import (
	"math/rand"
	"reflect"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// threeApertures is the worked three-aperture example: apertures 0 and 1
// are close (0.2), aperture 2 is far from both.
var threeApertures = [][]float64{
	{0, 0.2, 0.8},
	{0.2, 0, 0.9},
	{0.8, 0.9, 0},
}

func ids(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = string(rune('a' + i))
	}
	return out
}

func TestAgglomerate_ThreeApertureExample(t *testing.T) {
	nodes, err := Agglomerate(threeApertures, ids(3), 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	groups := FlattenGroups(nodes)
	want := [][]int{{0, 1}, {2}}
	if diff := cmp.Diff(want, groups); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}
}

func TestAgglomerate_CompleteLinkageBlocksChain(t *testing.T) {
	// 0-1 are close and 1-2 are close, but 0-2 are far. Complete linkage
	// must refuse the second merge because the cluster-to-cluster
	// distance is the maximum pairwise distance.
	d := [][]float64{
		{0, 0.1, 0.9},
		{0.1, 0, 0.15},
		{0.9, 0.15, 0},
	}
	nodes, err := Agglomerate(d, ids(3), 0.2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	groups := FlattenGroups(nodes)
	want := [][]int{{0, 1}, {2}}
	if diff := cmp.Diff(want, groups); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}
}

func TestAgglomerate_NothingMerges(t *testing.T) {
	nodes, err := Agglomerate(threeApertures, ids(3), 0.1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(nodes) != 3 {
		t.Fatalf("expected 3 singleton groups, got %d", len(nodes))
	}
	for i, n := range nodes {
		if !n.IsLeaf() || n.Index != i {
			t.Errorf("group %d is not the singleton leaf %d", i, i)
		}
	}
}

func TestAgglomerate_ThresholdIsExclusive(t *testing.T) {
	// The merge condition is strictly less-than: a pair at exactly the
	// threshold must not merge.
	nodes, err := Agglomerate(threeApertures, ids(3), 0.2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(nodes) != 3 {
		t.Errorf("distance equal to threshold merged anyway: %d groups", len(nodes))
	}
}

func TestAgglomerate_AllMerge(t *testing.T) {
	nodes, err := Agglomerate(threeApertures, ids(3), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(nodes) != 1 {
		t.Fatalf("expected a single group, got %d", len(nodes))
	}
	leaves := nodes[0].Leaves()
	sort.Ints(leaves)
	if !reflect.DeepEqual(leaves, []int{0, 1, 2}) {
		t.Errorf("single group misses members: %v", leaves)
	}
}

func TestAgglomerate_SingleItem(t *testing.T) {
	nodes, err := Agglomerate([][]float64{{0}}, []string{"only"}, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(nodes) != 1 || !nodes[0].IsLeaf() || nodes[0].Index != 0 {
		t.Errorf("single item should survive as one leaf, got %+v", nodes)
	}
}

func TestAgglomerate_Empty(t *testing.T) {
	nodes, err := Agglomerate(nil, nil, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if nodes != nil {
		t.Errorf("expected nil for empty input, got %v", nodes)
	}
}

func TestAgglomerate_InputErrors(t *testing.T) {
	if _, err := Agglomerate(threeApertures, ids(2), 0.5); err == nil {
		t.Error("expected error for identifier count mismatch")
	}
	ragged := [][]float64{{0, 1}, {1}}
	if _, err := Agglomerate(ragged, ids(2), 0.5); err == nil {
		t.Error("expected error for ragged matrix")
	}
}

func TestAgglomerate_DoesNotMutateInput(t *testing.T) {
	d := [][]float64{
		{0, 0.2, 0.8},
		{0.2, 0, 0.9},
		{0.8, 0.9, 0},
	}
	if _, err := Agglomerate(d, ids(3), 0.5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(threeApertures, d); diff != "" {
		t.Errorf("input matrix was mutated (-want +got):\n%s", diff)
	}
}

func TestAgglomerate_ThresholdRefinement(t *testing.T) {
	// Raising the threshold only continues the same merge sequence, so
	// every group at a low threshold must be contained in a group at any
	// higher threshold.
	rng := rand.New(rand.NewSource(11))
	n := 10
	vectors := make([][]float64, n)
	for i := range vectors {
		vectors[i] = make([]float64, 12)
		for k := range vectors[i] {
			vectors[i][k] = rng.Float64()
		}
	}
	d, err := RMSEMatrix(vectors)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	thresholds := []float64{0.05, 0.1, 0.2, 0.3, 0.5}
	var prev [][]int
	for _, th := range thresholds {
		nodes, err := Agglomerate(d, ids(n), th)
		if err != nil {
			t.Fatalf("threshold %v: %v", th, err)
		}
		groups := FlattenGroups(nodes)
		assertPartition(t, groups, n)
		if prev != nil {
			if len(groups) > len(prev) {
				t.Errorf("group count grew from %d to %d when threshold rose to %v",
					len(prev), len(groups), th)
			}
			for _, g := range prev {
				if !containedInOne(g, groups) {
					t.Errorf("group %v at lower threshold split apart at threshold %v", g, th)
				}
			}
		}
		prev = groups
	}
}

// assertPartition checks every index in [0, n) appears in exactly one
// group.
func assertPartition(t *testing.T, groups [][]int, n int) {
	t.Helper()
	seen := make(map[int]int)
	for _, g := range groups {
		for _, idx := range g {
			seen[idx]++
		}
	}
	if len(seen) != n {
		t.Errorf("partition covers %d of %d items", len(seen), n)
	}
	for idx, count := range seen {
		if count != 1 {
			t.Errorf("item %d appears %d times", idx, count)
		}
	}
}

// containedInOne reports whether every member of g lands in a single
// group of groups.
func containedInOne(g []int, groups [][]int) bool {
	owner := make(map[int]int)
	for gi, grp := range groups {
		for _, idx := range grp {
			owner[idx] = gi
		}
	}
	want := owner[g[0]]
	for _, idx := range g[1:] {
		if owner[idx] != want {
			return false
		}
	}
	return true
}

func TestAgglomerate_PermutationStability(t *testing.T) {
	// With ties present, the identifier tie-break must keep the produced
	// partition independent of input ordering.
	names := []string{"n", "e", "s", "w", "c", "k"}
	n := len(names)
	rng := rand.New(rand.NewSource(3))
	// Distances drawn from a tiny value set force frequent ties.
	values := []float64{0.1, 0.2, 0.3}
	base := make([][]float64, n)
	for i := range base {
		base[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := values[rng.Intn(len(values))]
			base[i][j] = v
			base[j][i] = v
		}
	}

	want := canonicalPartition(t, base, names, 0.25)
	for trial := 0; trial < 20; trial++ {
		perm := rng.Perm(n)
		pd := make([][]float64, n)
		pids := make([]string, n)
		for i, pi := range perm {
			pids[i] = names[pi]
			pd[i] = make([]float64, n)
			for j, pj := range perm {
				pd[i][j] = base[pi][pj]
			}
		}
		got := canonicalPartition(t, pd, pids, 0.25)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("trial %d: partition depends on input order (-want +got):\n%s", trial, diff)
		}
	}
}

// canonicalPartition clusters and renders the result as sorted groups of
// sorted identifiers so partitions compare independently of order.
func canonicalPartition(t *testing.T, d [][]float64, names []string, threshold float64) [][]string {
	t.Helper()
	nodes, err := Agglomerate(d, names, threshold)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var out [][]string
	for _, g := range FlattenGroups(nodes) {
		grp := make([]string, len(g))
		for k, idx := range g {
			grp[k] = names[idx]
		}
		sort.Strings(grp)
		out = append(out, grp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

func TestNode_Leaves(t *testing.T) {
	leaf := &Node{Index: 4}
	if got := leaf.Leaves(); !reflect.DeepEqual(got, []int{4}) {
		t.Errorf("leaf Leaves = %v, want [4]", got)
	}

	// ((0, 1), (2, 3)) flattens depth-first left to right.
	tree := &Node{
		Left:  &Node{Left: &Node{Index: 0}, Right: &Node{Index: 1}},
		Right: &Node{Left: &Node{Index: 2}, Right: &Node{Index: 3}},
	}
	want := []int{0, 1, 2, 3}
	if got := tree.Leaves(); !reflect.DeepEqual(got, want) {
		t.Errorf("Leaves = %v, want %v", got, want)
	}
	// Repeat traversals are stable.
	if got := tree.Leaves(); !reflect.DeepEqual(got, want) {
		t.Errorf("second Leaves = %v, want %v", got, want)
	}

	var nilNode *Node
	if got := nilNode.Leaves(); got != nil {
		t.Errorf("nil node Leaves = %v, want nil", got)
	}
}
