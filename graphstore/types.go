// Package graphstore implements the GraphStore component: a directed
// multigraph with stable node and arc identifiers, per-arc piecewise-linear
// cost vectors, per-arc integer flow, and a per-node timestep label.
//
// Node and arc identifiers are dense monotonically increasing integers
// assigned at construction time; once assigned they remain valid for the
// lifetime of the store. Two separate sync.RWMutex locks (muNode for node
// state, muArc for arc state and adjacency) minimize contention between
// readers and the tracking loop's single writer, mirroring the locking
// discipline of a general-purpose graph library adapted to this engine's
// narrower node/arc shape.
package graphstore

import (
	"errors"
	"sync"
)

// Sentinel errors for GraphStore operations. Callers should use errors.Is
// to branch on semantics; context is attached with fmt.Errorf's %w.
var (
	// ErrEmptyCostVector indicates AddArc received a cost vector of
	// length zero.
	ErrEmptyCostVector = errors.New("graphstore: cost vector must have at least one entry")

	// ErrNodeNotFound indicates an operation referenced a non-existent node.
	ErrNodeNotFound = errors.New("graphstore: node not found")

	// ErrArcNotFound indicates an operation referenced a non-existent arc.
	ErrArcNotFound = errors.New("graphstore: arc not found")

	// ErrNegativeFlow indicates an attempt to set an arc's flow below zero.
	ErrNegativeFlow = errors.New("graphstore: negative flow")

	// ErrFlowExceedsCapacity indicates an attempt to set an arc's flow
	// above its capacity (the length of its cost vector).
	ErrFlowExceedsCapacity = errors.New("graphstore: flow exceeds capacity")

	// ErrGraphSolving indicates a construction call was attempted while a
	// solve was in progress. The GraphStore is exclusively owned by the
	// solver from the moment solving starts until it returns.
	ErrGraphSolving = errors.New("graphstore: construction attempted while solving")
)

// NodeID uniquely identifies a Node within its GraphStore.
type NodeID int64

// ArcID uniquely identifies an Arc within its GraphStore.
type ArcID int64

// Role classifies the part a Node plays in the time-expanded graph.
type Role int

const (
	// RoleDetectionEntry marks the "u" half of a FullNode(u,v) pair.
	RoleDetectionEntry Role = iota
	// RoleDetectionExit marks the "v" half of a FullNode(u,v) pair.
	RoleDetectionExit
	// RoleSource marks the single flow source (timestep 0).
	RoleSource
	// RoleTarget marks a terminal (sink) node.
	RoleTarget
	// RoleDivisionDuplicate marks a mitosis duplicate node "d".
	RoleDivisionDuplicate
)

// String renders a Role for diagnostics and log messages.
func (r Role) String() string {
	switch r {
	case RoleDetectionEntry:
		return "detection-entry"
	case RoleDetectionExit:
		return "detection-exit"
	case RoleSource:
		return "source"
	case RoleTarget:
		return "target"
	case RoleDivisionDuplicate:
		return "division-duplicate"
	default:
		return "unknown"
	}
}

// Node is a vertex of the time-expanded flow graph.
//
// Timestep is the ordering key used by the shortest-path search. It is
// immutable for every role except RoleTarget, whose timestep is bumped
// upward by FlowGraph whenever a later detection arrives.
type Node struct {
	ID       NodeID
	Timestep int
	Role     Role
}

// Arc is a directed edge carrying a piecewise-linear cost vector.
//
// Cost holds the marginal cost of each unit of flow: the n-th unit (0
// indexed) costs Cost[n]. Capacity is len(Cost); Flow is the number of
// units currently routed through the arc, 0 <= Flow <= Capacity.
// Intermediate marks arcs that encode a detection's own cost (the u->v
// arc of a FullNode), as opposed to appearance, disappearance, inter-
// detection, or division arcs — TrackingLoop's enable/disable state
// machine treats intermediate arcs differently from the rest.
type Arc struct {
	ID           ArcID
	Src          NodeID
	Tgt          NodeID
	Cost         []float64
	Flow         int
	Intermediate bool
}

// Capacity returns the arc's integer capacity: the length of its cost vector.
func (a *Arc) Capacity() int { return len(a.Cost) }

// GraphStore is the concrete, thread-safe storage for nodes and arcs.
//
// muNode guards nodes and the Timestep re-labelling exception for targets.
// muArc guards arcs plus the outArcs/inArcs adjacency lists. The two locks
// are never held together to avoid lock-ordering hazards; callers needing
// a consistent cross-cut snapshot should take Stats(), which sequences the
// two critical sections internally.
type GraphStore struct {
	muNode sync.RWMutex
	muArc  sync.RWMutex

	nextNodeID NodeID
	nextArcID  ArcID

	nodes map[NodeID]*Node
	arcs  map[ArcID]*Arc

	// outArcs[n] / inArcs[n] list arc IDs leaving/entering n in the order
	// they were added — required for the deterministic tie-break the
	// shortest-path search relies on.
	outArcs map[NodeID][]ArcID
	inArcs  map[NodeID][]ArcID

	solving bool
}

// Stats is a read-only O(V+E) snapshot of store size and aggregate flow,
// in the spirit of a diagnostic summary a caller can assert against in
// tests or print for observability.
type Stats struct {
	NodeCount         int
	ArcCount          int
	IntermediateCount int
	TotalFlow         int
}

// New creates an empty GraphStore.
func New() *GraphStore {
	return &GraphStore{
		nodes:   make(map[NodeID]*Node),
		arcs:    make(map[ArcID]*Arc),
		outArcs: make(map[NodeID][]ArcID),
		inArcs:  make(map[NodeID][]ArcID),
	}
}
