package residual

import (
	"fmt"

	"github.com/tomldh/dpct/graphstore"
)

// StateError reports an internal contract violation discovered while
// refreshing a base arc's residual state: negative flow, or flow above
// capacity.
type StateError struct {
	Arc   graphstore.ArcID
	Field string
	Value int
}

func (e *StateError) Error() string {
	return fmt.Sprintf("residual: arc %d: invalid %s=%d", e.Arc, e.Field, e.Value)
}

// EnableAll enables every residual arc, then re-disables the division
// option for every mitosis parent. Called once at the start of a solve.
//
// A division arc and its duplicate's out-arcs only become usable once the
// parent has actually received its one unit of in-flow (see
// tracking.applyDivisionReadiness); leaving them enabled from the start
// would let a cheap division path be taken before the parent itself was
// ever detected, double-counting the parent's ungrounded appearance cost.
func (g *Graph) EnableAll() {
	for _, s := range g.state {
		s.enabled = true
	}

	for _, pair := range g.fg.ParentDuplicatePairs() {
		in, _ := g.store.InArcs(pair.Duplicate)
		for _, id := range in {
			g.EnableBase(id, false)
		}
		out, _ := g.store.OutArcs(pair.Duplicate)
		for _, id := range out {
			g.EnableBase(id, false)
		}
	}
}

// Enable sets the enabled bit of a single residual arc.
func (g *Graph) Enable(ref ArcRef) {
	if s, ok := g.state[ref]; ok {
		s.enabled = true
	}
}

// Disable clears the enabled bit of a single residual arc.
func (g *Graph) Disable(ref ArcRef) {
	if s, ok := g.state[ref]; ok {
		s.enabled = false
	}
}

// EnableBase enables or disables both residual arcs of a base arc at once.
func (g *Graph) EnableBase(base graphstore.ArcID, enabled bool) {
	for _, dir := range [2]Direction{Forward, Backward} {
		if s, ok := g.state[ArcRef{Base: base, Dir: dir}]; ok {
			s.enabled = enabled
		}
	}
}

// Enabled reports whether a residual arc currently participates in search.
func (g *Graph) Enabled(ref ArcRef) bool {
	s, ok := g.state[ref]

	return ok && s.enabled
}

// Capacity returns the residual capacity of ref, computed live from the
// base arc's current flow: k-f for Forward, f for Backward.
func (g *Graph) Capacity(ref ArcRef) (int, error) {
	a, err := g.store.Arc(ref.Base)
	if err != nil {
		return 0, err
	}
	if ref.Dir == Forward {
		return a.Capacity() - a.Flow, nil
	}

	return a.Flow, nil
}

// Cost returns the residual cost of ref, computed live: c[f] for Forward,
// -c[f-1] for Backward.
func (g *Graph) Cost(ref ArcRef) (float64, error) {
	a, err := g.store.Arc(ref.Base)
	if err != nil {
		return 0, err
	}
	if ref.Dir == Forward {
		return g.store.ArcCost(ref.Base, a.Flow)
	}
	c, err := g.store.ArcCost(ref.Base, a.Flow-1)
	if err != nil {
		return 0, err
	}

	return -c, nil
}

// From and To return the endpoints of a residual arc.
func (g *Graph) From(ref ArcRef) graphstore.NodeID { return g.state[ref].from }
func (g *Graph) To(ref ArcRef) graphstore.NodeID   { return g.state[ref].to }

// Provided returns the tokens contributed when ref is taken.
func (g *Graph) Provided(ref ArcRef) []int64 {
	if s, ok := g.state[ref]; ok {
		return s.provided
	}

	return nil
}

// Forbidden returns the tokens whose presence on a path excludes ref.
func (g *Graph) Forbidden(ref ArcRef) []int64 {
	if s, ok := g.state[ref]; ok {
		return s.forbidden
	}

	return nil
}

// OutOf returns every residual arc leaving node n, in deterministic
// insertion order.
func (g *Graph) OutOf(n graphstore.NodeID) []ArcRef {
	return g.outOf[n]
}

// Refresh validates the base arc's flow invariant after a mutation
// (0 <= flow <= capacity) and is the detection point for StateError
// Capacity/Cost are computed live, so Refresh does
// not need to recompute any cached residual state — it exists purely as
// the documented validation hook the tracking loop calls after every
// flow mutation.
func (g *Graph) Refresh(base graphstore.ArcID) error {
	a, err := g.store.Arc(base)
	if err != nil {
		return err
	}
	if a.Flow < 0 {
		return &StateError{Arc: base, Field: "flow", Value: a.Flow}
	}
	if a.Flow > a.Capacity() {
		return &StateError{Arc: base, Field: "flow", Value: a.Flow}
	}

	return nil
}
