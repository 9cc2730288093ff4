// File: queries.go
// Read-only classification accessors consumed by residual and tracking:
// which arcs are appearance/disappearance/division, which nodes are
// mitosis parents or duplicates, and the parent<->duplicate mirror map.
package flowgraph

import "github.com/tomldh/dpct/graphstore"

// IsAppearance reports whether arc is a source->detection appearance arc.
func (fg *FlowGraph) IsAppearance(id graphstore.ArcID) bool {
	fg.mu.Lock()
	defer fg.mu.Unlock()

	return fg.appearance[id]
}

// IsDisappearance reports whether arc is a detection->target disappearance arc.
func (fg *FlowGraph) IsDisappearance(id graphstore.ArcID) bool {
	fg.mu.Lock()
	defer fg.mu.Unlock()

	return fg.disappearance[id]
}

// IsDivision reports whether arc is a source->duplicate division arc.
func (fg *FlowGraph) IsDivision(id graphstore.ArcID) bool {
	fg.mu.Lock()
	defer fg.mu.Unlock()

	return fg.division[id]
}

// DuplicateOf returns the division duplicate of parent, if mitosis was allowed for it.
func (fg *FlowGraph) DuplicateOf(parent graphstore.NodeID) (graphstore.NodeID, bool) {
	fg.mu.Lock()
	defer fg.mu.Unlock()

	d, ok := fg.parentToDuplicate[parent]

	return d, ok
}

// ParentOf returns the mitosis parent of a division duplicate node.
func (fg *FlowGraph) ParentOf(duplicate graphstore.NodeID) (graphstore.NodeID, bool) {
	fg.mu.Lock()
	defer fg.mu.Unlock()

	v, ok := fg.duplicateToParent[duplicate]

	return v, ok
}

// IsParent reports whether node has an associated division duplicate.
func (fg *FlowGraph) IsParent(id graphstore.NodeID) bool {
	_, ok := fg.DuplicateOf(id)

	return ok
}

// IsDuplicate reports whether node is a mitosis division duplicate.
func (fg *FlowGraph) IsDuplicate(id graphstore.NodeID) bool {
	_, ok := fg.ParentOf(id)

	return ok
}

// Counterpart returns the mirrored arc on the other side of a
// parent<->duplicate pair for arc, if one was created by AllowMitosis.
func (fg *FlowGraph) Counterpart(id graphstore.ArcID) (graphstore.ArcID, bool) {
	fg.mu.Lock()
	defer fg.mu.Unlock()

	c, ok := fg.counterpart[id]

	return c, ok
}

// IsTarget reports whether id is one of the flow graph's terminal nodes.
func (fg *FlowGraph) IsTarget(id graphstore.NodeID) bool {
	fg.mu.Lock()
	defer fg.mu.Unlock()

	for _, t := range fg.targets {
		if t == id {
			return true
		}
	}

	return false
}

// ParentDuplicatePair names one mitosis parent<->duplicate association.
type ParentDuplicatePair struct {
	Parent    graphstore.NodeID
	Duplicate graphstore.NodeID
}

// ParentDuplicatePairs returns every mitosis association created so far,
// in an arbitrary order. Consumed by residual.New to seed division
// tokens, by residual.Graph.EnableAll to close every division option,
// and by the maxflow package's division-coupling certification pass.
func (fg *FlowGraph) ParentDuplicatePairs() []ParentDuplicatePair {
	fg.mu.Lock()
	defer fg.mu.Unlock()

	pairs := make([]ParentDuplicatePair, 0, len(fg.parentToDuplicate))
	for v, d := range fg.parentToDuplicate {
		pairs = append(pairs, ParentDuplicatePair{Parent: v, Duplicate: d})
	}

	return pairs
}

// IsIntermediate reports whether arc is a detection's own u->v arc.
func (fg *FlowGraph) IsIntermediate(id graphstore.ArcID) bool {
	a, err := fg.store.Arc(id)
	if err != nil {
		return false
	}

	return a.Intermediate
}

// Validate confirms two structural invariants of construction: the
// parent<->duplicate maps form a bijection, and every intermediate arc's
// exit node sits exactly one timestep after its entry node. Node roles
// are not checked. Walks the mitosis maps and every arc once; run before
// MaxFlowMinCostTracking.
func (fg *FlowGraph) Validate() error {
	fg.mu.Lock()
	defer fg.mu.Unlock()

	if len(fg.parentToDuplicate) != len(fg.duplicateToParent) {
		return errValidation("parent<->duplicate maps are not a bijection")
	}
	for v, d := range fg.parentToDuplicate {
		if back, ok := fg.duplicateToParent[d]; !ok || back != v {
			return errValidation("duplicate does not map back to its parent")
		}
	}
	for _, arcID := range fg.store.Arcs() {
		a, err := fg.store.Arc(arcID)
		if err != nil {
			return err
		}
		if a.Intermediate {
			u, err := fg.store.Node(a.Src)
			if err != nil {
				return err
			}
			v, err := fg.store.Node(a.Tgt)
			if err != nil {
				return err
			}
			if v.Timestep != u.Timestep+1 {
				return errValidation("intermediate arc endpoints are not adjacent timesteps")
			}
		}
	}

	return nil
}

func errValidation(msg string) error {
	return &validationError{msg: msg}
}

type validationError struct{ msg string }

func (e *validationError) Error() string { return "flowgraph: validation: " + e.msg }
