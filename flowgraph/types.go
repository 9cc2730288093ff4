// Package flowgraph implements the FlowGraph component: the time-expanded
// construction API that owns the source, the target set, intermediate
// detection arcs, and the parent<->duplicate mapping mitosis needs.
//
// FlowGraph is a thin bookkeeping layer over graphstore.GraphStore — it
// never duplicates node/arc storage, only the extra indices (which arcs
// are appearance/disappearance/intermediate/division, which nodes are
// parent/duplicate pairs) that graphstore has no reason to know about.
package flowgraph

import (
	"errors"
	"sync"

	"github.com/tomldh/dpct/graphstore"
)

// Sentinel construction errors.
var (
	// ErrEmptyCosts is returned by AddNode/AddArc/AddArcToSource/
	// AddArcToTarget when the supplied cost vector has length zero.
	ErrEmptyCosts = errors.New("flowgraph: cost vector must have at least one entry")

	// ErrUnknownFullNode names a FullNode that does not belong to this
	// FlowGraph. No FlowGraph method returns it: a FullNode whose nodes
	// are not in the store surfaces as a wrapped graphstore.ErrNodeNotFound.
	ErrUnknownFullNode = errors.New("flowgraph: unrecognized FullNode")

	// ErrMitosisBeforeOutArcs is returned by AllowMitosis when the parent
	// detection has no non-terminal out-arc yet. Mitosis call order leaves the
	// call-order contract an open question; this implementation resolves
	// it by rejecting the call outright rather than silently producing a
	// duplicate with fewer mirror arcs than the caller probably intended
	// (see DESIGN.md).
	ErrMitosisBeforeOutArcs = errors.New("flowgraph: AllowMitosis called before parent has a non-terminal out-arc")

	// ErrMitosisAlreadyAllowed is returned if AllowMitosis is called
	// twice for the same parent; the parent<->duplicate mapping is a
	// bijection and cannot be overwritten.
	ErrMitosisAlreadyAllowed = errors.New("flowgraph: mitosis already allowed for this parent")
)

// FullNode is the (u, v) pair plus intermediate arc representing a single
// cell detection at one timestep.
type FullNode struct {
	U graphstore.NodeID
	V graphstore.NodeID
}

// FlowGraph owns a GraphStore and the bookkeeping indices specific to the
// cell-tracking domain: appearance/disappearance classification, the
// intermediate-arc set, and the mitosis parent<->duplicate bijection.
//
// mu guards every field below; construction calls are expected to be
// infrequent and sequential relative to the solve itself, so a single
// mutex (rather than graphstore's split locks) keeps the bookkeeping
// simple without becoming a contention point.
type FlowGraph struct {
	mu sync.Mutex

	store *graphstore.GraphStore

	source  graphstore.NodeID
	targets []graphstore.NodeID

	maxDetectionTimestep int // highest timestep(v) among all detections added so far

	appearance    map[graphstore.ArcID]bool
	disappearance map[graphstore.ArcID]bool
	division      map[graphstore.ArcID]bool // source->duplicate arcs

	parentToDuplicate map[graphstore.NodeID]graphstore.NodeID
	duplicateToParent map[graphstore.NodeID]graphstore.NodeID

	// counterpart maps a parent out-arc v->w to its mirrored duplicate
	// arc d->w and vice versa, for O(1) lookup during the maxflow
	// package's division-coupling certification pass.
	counterpart map[graphstore.ArcID]graphstore.ArcID
}

// New creates an empty FlowGraph with a freshly allocated source node.
func New() *FlowGraph {
	store := graphstore.New()
	source, _ := store.AddNode(0, graphstore.RoleSource)

	return &FlowGraph{
		store:             store,
		source:            source,
		appearance:        make(map[graphstore.ArcID]bool),
		disappearance:     make(map[graphstore.ArcID]bool),
		division:          make(map[graphstore.ArcID]bool),
		parentToDuplicate: make(map[graphstore.NodeID]graphstore.NodeID),
		duplicateToParent: make(map[graphstore.NodeID]graphstore.NodeID),
		counterpart:       make(map[graphstore.ArcID]graphstore.ArcID),
	}
}

// Store exposes the underlying GraphStore for components that operate
// directly on nodes and arcs (residual, shortestpath, tracking).
func (fg *FlowGraph) Store() *graphstore.GraphStore { return fg.store }

// Source returns the single flow source node.
func (fg *FlowGraph) Source() graphstore.NodeID { return fg.source }

// Targets returns the current set of terminal nodes, in the order they
// were created.
func (fg *FlowGraph) Targets() []graphstore.NodeID {
	fg.mu.Lock()
	defer fg.mu.Unlock()

	out := make([]graphstore.NodeID, len(fg.targets))
	copy(out, fg.targets)

	return out
}
