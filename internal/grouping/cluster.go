package grouping

import "fmt"

// Node is one node of the binary merge tree the clusterer produces:
// either a leaf holding an item index, or an internal node pairing the
// two clusters it merged.
type Node struct {
	Index int // item index, valid only for leaves
	Left  *Node
	Right *Node
}

// IsLeaf reports whether n holds a single item.
func (n *Node) IsLeaf() bool { return n.Left == nil }

// Leaves returns the item indices under n in depth-first order. The walk
// uses an explicit stack so deeply nested merge trees cannot overflow the
// goroutine stack.
func (n *Node) Leaves() []int {
	if n == nil {
		return nil
	}
	var out []int
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur.IsLeaf() {
			out = append(out, cur.Index)
			continue
		}
		// Push right first so the left subtree pops first.
		stack = append(stack, cur.Right, cur.Left)
	}
	return out
}

// Agglomerate runs complete-linkage agglomerative clustering over a
// distance matrix and returns the surviving merge trees in input
// position order.
//
// The matrix is copied into a fixed working arena with a liveness mask;
// the caller's matrix is never modified, so one matrix can serve several
// thresholds (as the sweep command does). Diagonal entries are set to the
// sentinel in the arena. The loop merges the globally closest pair while
// that distance is strictly below threshold and more than one cluster
// remains. On a merge the surviving row and column take the pairwise
// maximum of the two clusters' distances to every other live cluster, so
// clusters only merge while every member-to-member distance stays under
// threshold.
//
// When several pairs tie for the global minimum the merge picks the pair
// whose smallest member identifier sorts first, breaking remaining ties
// by the other side's smallest member identifier. This keeps the produced
// partition independent of input ordering.
func Agglomerate(dist [][]float64, ids []string, threshold float64) ([]*Node, error) {
	n := len(dist)
	if n != len(ids) {
		return nil, fmt.Errorf("distance matrix is %dx%d but %d identifiers given", n, n, len(ids))
	}
	for i, row := range dist {
		if len(row) != n {
			return nil, fmt.Errorf("distance matrix row %d has %d columns, want %d", i, len(row), n)
		}
	}
	if n == 0 {
		return nil, nil
	}

	// Working arena: a copy of the matrix with the diagonal sentinel
	// installed, a liveness mask instead of physical row removal, and per
	// cluster the lexicographically smallest member identifier for the
	// tie-break.
	d := make([][]float64, n)
	for i := range dist {
		d[i] = append([]float64(nil), dist[i]...)
		d[i][i] = Sentinel
	}
	live := make([]bool, n)
	clusters := make([]*Node, n)
	minID := make([]string, n)
	for i := range live {
		live[i] = true
		clusters[i] = &Node{Index: i}
		minID[i] = ids[i]
	}

	remaining := n
	for remaining > 1 {
		i, j, min := closestPair(d, live, minID)
		if min >= threshold {
			break
		}

		// Merge j into i: the surviving cluster keeps the lower arena
		// index so output order tracks input order.
		clusters[i] = &Node{Left: clusters[i], Right: clusters[j]}
		if minID[j] < minID[i] {
			minID[i] = minID[j]
		}
		for k := 0; k < n; k++ {
			if !live[k] || k == i {
				continue
			}
			if d[j][k] > d[i][k] {
				d[i][k] = d[j][k]
				d[k][i] = d[j][k]
			}
		}
		live[j] = false
		remaining--
	}

	out := make([]*Node, 0, remaining)
	for i, ok := range live {
		if ok {
			out = append(out, clusters[i])
		}
	}
	return out, nil
}

// closestPair scans the live upper triangle for the global minimum and
// applies the identifier tie-break among equal minima. Returns arena
// indices with i < j.
func closestPair(d [][]float64, live []bool, minID []string) (int, int, float64) {
	bi, bj := -1, -1
	best := 0.0
	for i := range d {
		if !live[i] {
			continue
		}
		for j := i + 1; j < len(d); j++ {
			if !live[j] {
				continue
			}
			v := d[i][j]
			switch {
			case bi < 0 || v < best:
				best, bi, bj = v, i, j
			case v == best:
				// Equal minima: order each candidate pair by identifier
				// and compare.
				lo1, hi1 := orderedPair(minID[bi], minID[bj])
				lo2, hi2 := orderedPair(minID[i], minID[j])
				if lo2 < lo1 || (lo2 == lo1 && hi2 < hi1) {
					bi, bj = i, j
				}
			}
		}
	}
	return bi, bj, best
}

func orderedPair(a, b string) (lo, hi string) {
	if a < b {
		return a, b
	}
	return b, a
}

// FlattenGroups resolves merge trees into flat index groups, preserving
// the clusterer's output order.
func FlattenGroups(nodes []*Node) [][]int {
	out := make([][]int, len(nodes))
	for i, n := range nodes {
		out[i] = n.Leaves()
	}
	return out
}
