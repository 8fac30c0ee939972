package grouping

import (
	"fmt"

	"github.com/lumen-data/multiphase/internal/geom"
	"github.com/lumen-data/multiphase/internal/model"
)

// Default thresholds and tolerances for the grouping policies.
const (
	// DefaultThreshold is the view-factor RMSE below which apertures
	// merge into one group.
	DefaultThreshold = 0.001
	// DefaultOrientationTolerance is the component-wise normal tolerance
	// for orientation grouping.
	DefaultOrientationTolerance = 0.05
)

// Options control the grouping policies. A zero VerticalTolerance (or
// any non-positive value) disables vertical refinement.
type Options struct {
	Threshold            float64
	RoomBased            bool
	OrientationTolerance float64
	VerticalTolerance    float64
}

// DefaultOptions returns room-based view-factor grouping defaults.
func DefaultOptions() Options {
	return Options{
		Threshold:            DefaultThreshold,
		RoomBased:            true,
		OrientationTolerance: DefaultOrientationTolerance,
	}
}

// Group is a flat set of apertures that operate as one dynamic unit.
type Group []*model.Aperture

// RoomGroups pairs one room with the groups produced for it.
type RoomGroups struct {
	RoomIdentifier string
	RoomName       string
	Groups         []Group
}

// Result is the outcome of a grouping policy before naming. Exactly one
// of ByRoom or Global is populated, matching RoomBased.
type Result struct {
	RoomBased bool
	ByRoom    []RoomGroups
	Global    []Group
}

// Grouper applies a grouping policy to a model's exterior apertures.
type Grouper struct {
	opts Options
}

// NewGrouper creates a grouper with the given options.
func NewGrouper(opts Options) *Grouper {
	return &Grouper{opts: opts}
}

// ByViewFactor clusters apertures by the RMSE between their mean
// view-factor vectors. Room-based mode builds and clusters one distance
// matrix per room so groups never span rooms; global mode clusters all
// apertures at once. Rooms with a single aperture skip clustering and
// yield a singleton group.
func (g *Grouper) ByViewFactor(index []model.RoomApertures, vectors map[string][]float64) (*Result, error) {
	if len(index) == 0 {
		return nil, fmt.Errorf("no exterior apertures to group")
	}

	if g.opts.RoomBased {
		res := &Result{RoomBased: true}
		for _, ra := range index {
			groups, err := g.clusterVectors(ra.Apertures, vectors)
			if err != nil {
				return nil, fmt.Errorf("room %q: %w", ra.RoomIdentifier, err)
			}
			res.ByRoom = append(res.ByRoom, RoomGroups{
				RoomIdentifier: ra.RoomIdentifier,
				RoomName:       ra.RoomName,
				Groups:         groups,
			})
		}
		return res, nil
	}

	groups, err := g.clusterVectors(flattenIndex(index), vectors)
	if err != nil {
		return nil, err
	}
	return &Result{Global: groups}, nil
}

// clusterVectors runs the agglomerative clusterer over one scope of
// apertures, then applies vertical refinement if enabled.
func (g *Grouper) clusterVectors(aps []*model.Aperture, vectors map[string][]float64) ([]Group, error) {
	if len(aps) == 0 {
		return nil, fmt.Errorf("no apertures to group")
	}
	if len(aps) == 1 {
		return g.refineVertical([]Group{{aps[0]}})
	}

	vecs := make([][]float64, len(aps))
	ids := make([]string, len(aps))
	for i, ap := range aps {
		v, ok := vectors[ap.Identifier]
		if !ok {
			return nil, fmt.Errorf("no view-factor vector for aperture %q", ap.Identifier)
		}
		vecs[i] = v
		ids[i] = ap.Identifier
	}

	dist, err := RMSEMatrix(vecs)
	if err != nil {
		return nil, err
	}
	nodes, err := Agglomerate(dist, ids, g.opts.Threshold)
	if err != nil {
		return nil, err
	}

	groups := make([]Group, 0, len(nodes))
	for _, idxs := range FlattenGroups(nodes) {
		grp := make(Group, len(idxs))
		for k, idx := range idxs {
			grp[k] = aps[idx]
		}
		groups = append(groups, grp)
	}
	return g.refineVertical(groups)
}

// ByOrientation groups apertures whose outward normals are equivalent
// within the orientation tolerance. The first aperture establishes a
// group; each later aperture joins the first group whose representative
// normal matches, else starts a new group. Assignment follows input
// order with no sorting.
func (g *Grouper) ByOrientation(index []model.RoomApertures) (*Result, error) {
	if len(index) == 0 {
		return nil, fmt.Errorf("no exterior apertures to group")
	}
	tol := g.opts.OrientationTolerance

	if g.opts.RoomBased {
		res := &Result{RoomBased: true}
		for _, ra := range index {
			groups, err := g.refineVertical(groupByNormal(ra.Apertures, tol))
			if err != nil {
				return nil, fmt.Errorf("room %q: %w", ra.RoomIdentifier, err)
			}
			res.ByRoom = append(res.ByRoom, RoomGroups{
				RoomIdentifier: ra.RoomIdentifier,
				RoomName:       ra.RoomName,
				Groups:         groups,
			})
		}
		return res, nil
	}

	groups, err := g.refineVertical(groupByNormal(flattenIndex(index), tol))
	if err != nil {
		return nil, err
	}
	return &Result{Global: groups}, nil
}

// groupByNormal is the orientation policy for one scope of apertures.
// Group representatives are the normals of each group's first aperture.
func groupByNormal(aps []*model.Aperture, tol float64) []Group {
	var normals []geom.Vector3
	var groups []Group
	for _, ap := range aps {
		n := ap.Normal()
		joined := false
		for i, rep := range normals {
			if n.IsEquivalent(rep, tol) {
				groups[i] = append(groups[i], ap)
				joined = true
				break
			}
		}
		if !joined {
			normals = append(normals, n)
			groups = append(groups, Group{ap})
		}
	}
	return groups
}

// refineVertical re-clusters each group by aperture center elevation with
// the vertical tolerance as threshold, splitting groups whose members sit
// on different levels. Disabled when the tolerance is not positive.
func (g *Grouper) refineVertical(groups []Group) ([]Group, error) {
	if g.opts.VerticalTolerance <= 0 {
		return groups, nil
	}
	var out []Group
	for _, grp := range groups {
		if len(grp) == 1 {
			out = append(out, grp)
			continue
		}
		zs := make([]float64, len(grp))
		ids := make([]string, len(grp))
		for i, ap := range grp {
			zs[i] = ap.Center().Z
			ids[i] = ap.Identifier
		}
		nodes, err := Agglomerate(VerticalDistanceMatrix(zs), ids, g.opts.VerticalTolerance)
		if err != nil {
			return nil, err
		}
		for _, idxs := range FlattenGroups(nodes) {
			sub := make(Group, len(idxs))
			for k, idx := range idxs {
				sub[k] = grp[idx]
			}
			out = append(out, sub)
		}
	}
	return out, nil
}

// flattenIndex concatenates the per-room aperture lists in model order.
func flattenIndex(index []model.RoomApertures) []*model.Aperture {
	var out []*model.Aperture
	for _, ra := range index {
		out = append(out, ra.Apertures...)
	}
	return out
}
