// Package residual implements the ResidualGraph component: for every base
// arc, a forward and a backward residual arc carrying residual capacity,
// residual cost, an enabled bit, and the token system that lets the
// shortest-path search honour mitosis's forbidden/provided dependencies.
package residual

import (
	"sort"

	"github.com/tomldh/dpct/flowgraph"
	"github.com/tomldh/dpct/graphstore"
)

// Direction distinguishes a residual arc's relation to its base arc.
type Direction int

const (
	// Forward carries capacity k-f at cost c[f].
	Forward Direction = iota
	// Backward carries capacity f at cost -c[f-1].
	Backward
)

// String renders a Direction for diagnostics.
func (d Direction) String() string {
	if d == Forward {
		return "forward"
	}

	return "backward"
}

// ArcRef identifies one residual arc: a base arc plus a direction. There
// are always exactly two ArcRefs per base arc.
type ArcRef struct {
	Base graphstore.ArcID
	Dir  Direction
}

// arcState is the mutable per-residual-arc state: the enabled bit and the
// token sets. Residual capacity and cost are computed live from the base
// GraphStore rather than cached here, so they can never go stale.
type arcState struct {
	from, to graphstore.NodeID
	enabled  bool
	provided []int64
	forbidden []int64
}

// Graph is the residual graph mirroring a flowgraph.FlowGraph.
//
// It is allocated once per solve and reused across every augmentation
// : ResidualGraph storage is proportional to |V|+|A| and is
// never reallocated mid-solve.
type Graph struct {
	fg    *flowgraph.FlowGraph
	store *graphstore.GraphStore

	state map[ArcRef]*arcState

	// outOf[n] lists every residual arc leaving node n, in a deterministic
	// order derived from graphstore's insertion-ordered adjacency lists:
	// forward residual arcs of n's out-arcs first (in out-arc insertion
	// order), then backward residual arcs of n's in-arcs (in in-arc
	// insertion order). This underlies the shortest-path tie-break rule
	// deterministic across repeated runs.
	outOf map[graphstore.NodeID][]ArcRef
}

// New builds a ResidualGraph mirroring fg's current arc set and seeds
// mitosis's division tokens. Arcs are not enabled by
// this constructor; callers (normally tracking.MaxFlowMinCostTracking)
// call EnableAll once construction is otherwise complete.
func New(fg *flowgraph.FlowGraph) *Graph {
	store := fg.Store()
	g := &Graph{
		fg:    fg,
		store: store,
		state: make(map[ArcRef]*arcState),
		outOf: make(map[graphstore.NodeID][]ArcRef),
	}

	for _, id := range store.Arcs() {
		a, err := store.Arc(id)
		if err != nil {
			continue
		}
		fwd := ArcRef{Base: id, Dir: Forward}
		bwd := ArcRef{Base: id, Dir: Backward}
		g.state[fwd] = &arcState{from: a.Src, to: a.Tgt}
		g.state[bwd] = &arcState{from: a.Tgt, to: a.Src}
	}

	for _, n := range store.Nodes() {
		var refs []ArcRef
		out, _ := store.OutArcs(n)
		for _, id := range out {
			refs = append(refs, ArcRef{Base: id, Dir: Forward})
		}
		in, _ := store.InArcs(n)
		for _, id := range in {
			refs = append(refs, ArcRef{Base: id, Dir: Backward})
		}
		g.outOf[n] = refs
	}

	g.seedDivisionTokens()

	return g
}

// seedDivisionTokens wires up the division token rules: every in-arc of a
// duplicate provides token id(parent) on its forward residual arc, and
// every out-arc of the parent forbids token id(parent) on its backward
// residual arc.
func (g *Graph) seedDivisionTokens() {
	for _, pair := range g.fg.ParentDuplicatePairs() {
		inArcs, _ := g.store.InArcs(pair.Duplicate)
		for _, id := range inArcs {
			s := g.state[ArcRef{Base: id, Dir: Forward}]
			s.provided = append(s.provided, int64(pair.Parent))
		}
		outArcs, _ := g.store.OutArcs(pair.Parent)
		for _, id := range outArcs {
			s := g.state[ArcRef{Base: id, Dir: Backward}]
			s.forbidden = append(s.forbidden, int64(pair.Parent))
		}
	}
	// Sort token slices for deterministic diagnostics; shortestpath's
	// membership tests scan them linearly since per-arc token counts are tiny.
	for _, s := range g.state {
		sort.Slice(s.provided, func(i, j int) bool { return s.provided[i] < s.provided[j] })
		sort.Slice(s.forbidden, func(i, j int) bool { return s.forbidden[i] < s.forbidden[j] })
	}
}
