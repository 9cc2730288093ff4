// Package shortestpath implements the ShortestPathFinder component: a
// Bellman-Ford variant over a residual.Graph that carries a token set
// alongside every distance label so a path can be rejected mid-search
// when it would violate a mitosis exclusivity constraint.
package shortestpath

import (
	"errors"
	"math"
	"sort"

	"github.com/tomldh/dpct/graphstore"
	"github.com/tomldh/dpct/residual"
)

// epsilon is the tolerance below which a path or relaxation is treated as
// zero-cost; it absorbs floating-point noise in accumulated path costs.
const epsilon = 1e-8

// ErrUnknownSource is returned by New when source does not belong to the
// residual graph's underlying store.
var ErrUnknownSource = errors.New("shortestpath: unknown source node")

// ErrNoTargets is returned by New when the target set is empty.
var ErrNoTargets = errors.New("shortestpath: no target nodes supplied")

// Options controls which Bellman-Ford variant Finder runs.
type Options struct {
	// UseBackArcs lets backward residual arcs participate in the search.
	// When false, only forward residual arcs are relaxed (a DAG-like
	// search that can never find a negative cycle).
	UseBackArcs bool

	// UseOrderedNodeList relaxes nodes in ascending timestep order each
	// round instead of store insertion order, which converges in a
	// single pass for acyclic forward structure.
	UseOrderedNodeList bool

	// PartialUpdates reuses the distance and token labels left over from
	// the previous Find call instead of resetting every node to
	// infinity, on the assumption that only a few residual arcs changed
	// since then.
	PartialUpdates bool
}

// Step is one arc traversed by a path, with the direction it was taken in.
type Step struct {
	Arc graphstore.ArcID
	Dir residual.Direction
}

// Result is the outcome of one Find or FindAny call: either a path to
// some target (with strictly negative cost for Find, of any sign for
// FindAny), a negative cost cycle (Find only), or neither.
type Result struct {
	// Found is true iff Steps names a usable augmenting path or cycle.
	Found bool
	Steps []Step
	Cost  float64

	// IsCycle is true when Steps describes a negative cost cycle rather
	// than a source-to-target path; Target is meaningless in that case.
	IsCycle bool

	// Target is the target node the returned path ends at, valid only
	// when Found is true and IsCycle is false.
	Target graphstore.NodeID
}

// tokenSet is an immutable-by-convention set of token ids. Relaxation
// never mutates a tokenSet in place; it builds a new one via union so
// that two nodes can share a predecessor's token set without aliasing
// bugs.
type tokenSet map[int64]struct{}

func (s tokenSet) contains(tok int64) bool {
	_, ok := s[tok]

	return ok
}

func (s tokenSet) containsAny(toks []int64) bool {
	for _, t := range toks {
		if s.contains(t) {
			return true
		}
	}

	return false
}

// union returns a new tokenSet containing s plus extra, without
// modifying s.
func (s tokenSet) union(extra []int64) tokenSet {
	if len(extra) == 0 {
		return s
	}
	out := make(tokenSet, len(s)+len(extra))
	for t := range s {
		out[t] = struct{}{}
	}
	for _, t := range extra {
		out[t] = struct{}{}
	}

	return out
}

// Finder runs the constrained Bellman-Ford search over a residual.Graph.
// It persists distance labels, token sets, and predecessor arcs across
// calls so that Options.PartialUpdates can reuse them.
type Finder struct {
	rg      *residual.Graph
	source  graphstore.NodeID
	targets []graphstore.NodeID
	opts    Options

	dist   map[graphstore.NodeID]float64
	toks   map[graphstore.NodeID]tokenSet
	pred   map[graphstore.NodeID]Step
	predOf map[graphstore.NodeID]graphstore.NodeID

	order []graphstore.NodeID // cached ascending-timestep node order
}

// New builds a Finder over rg, searching from source to any of targets.
func New(rg *residual.Graph, store *graphstore.GraphStore, source graphstore.NodeID, targets []graphstore.NodeID, opts Options) (*Finder, error) {
	if _, err := store.Node(source); err != nil {
		return nil, ErrUnknownSource
	}
	if len(targets) == 0 {
		return nil, ErrNoTargets
	}

	f := &Finder{
		rg:      rg,
		source:  source,
		targets: append([]graphstore.NodeID(nil), targets...),
		opts:    opts,
		dist:    make(map[graphstore.NodeID]float64),
		toks:    make(map[graphstore.NodeID]tokenSet),
		pred:    make(map[graphstore.NodeID]Step),
		predOf:  make(map[graphstore.NodeID]graphstore.NodeID),
	}

	if opts.UseOrderedNodeList {
		f.order = orderedByTimestep(store)
	} else {
		f.order = store.Nodes()
	}

	f.reset()

	return f, nil
}

func (f *Finder) reset() {
	for _, n := range f.order {
		f.dist[n] = math.Inf(1)
		delete(f.toks, n)
		delete(f.pred, n)
		delete(f.predOf, n)
	}
	f.dist[f.source] = 0
	f.toks[f.source] = tokenSet{}
}

func orderedByTimestep(store *graphstore.GraphStore) []graphstore.NodeID {
	nodes := store.Nodes()
	out := make([]graphstore.NodeID, len(nodes))
	copy(out, nodes)

	timestepOf := make(map[graphstore.NodeID]int, len(nodes))
	for _, n := range nodes {
		if node, err := store.Node(n); err == nil {
			timestepOf[n] = node.Timestep
		}
	}

	// sort.SliceStable preserves store.Nodes()'s insertion order among
	// nodes sharing a timestep, which is the tie-break the search relies on.
	sort.SliceStable(out, func(i, j int) bool { return timestepOf[out[i]] < timestepOf[out[j]] })

	return out
}
