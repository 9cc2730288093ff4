package maxflow

import (
	"fmt"

	"github.com/tomldh/dpct/flowgraph"
	"github.com/tomldh/dpct/graphstore"
)

// DivisionCouplingError reports that a finished flow assignment routes
// flow to the same daughter by both the parent's direct arc and the
// duplicate's mirror of it — the daughter would receive two units from
// one division event instead of one.
type DivisionCouplingError struct {
	ParentArc    graphstore.ArcID
	DuplicateArc graphstore.ArcID
}

func (e *DivisionCouplingError) Error() string {
	return fmt.Sprintf("maxflow: division coupling violated: arc %d and its duplicate mirror %d both carry flow", e.ParentArc, e.DuplicateArc)
}

// synchronizeDivisionDuplicateArcFlows certifies the division coupling
// invariant on a completed, already-conserved flow assignment: for every
// parent out-arc v->w mirrored by the duplicate as d->w, at most one of
// the pair may carry flow, since w can only receive one unit from this
// division event.
//
// tracking.AugmentUnitFlow deliberately does not force a counterpart's
// flow to follow its pair mid-solve — see its doc comment — because a
// canonical mitosis event sends the mother's own flow to one daughter
// directly and the duplicate's flow to a different daughter, so forcing
// synchronization during augmentation would double-book a daughter.
// Instead, tracking's trigger table (division only opens once the
// parent has its own unit of in-flow; the parent's direct out-arcs lock
// once division commits) and this package's fixed-supply phase, which
// reuses the same gating, keep the pair mutually exclusive by
// construction. This pass certifies that held rather than repairing a
// violation after the fact, which would require un-conserving flow
// elsewhere in the graph.
func synchronizeDivisionDuplicateArcFlows(fg *flowgraph.FlowGraph, store *graphstore.GraphStore) error {
	for _, pair := range fg.ParentDuplicatePairs() {
		out, err := store.OutArcs(pair.Duplicate)
		if err != nil {
			return err
		}
		for _, dw := range out {
			orig, ok := fg.Counterpart(dw)
			if !ok {
				continue
			}
			mirrorArc, err := store.Arc(dw)
			if err != nil {
				return err
			}
			origArc, err := store.Arc(orig)
			if err != nil {
				return err
			}
			if mirrorArc.Flow > 0 && origArc.Flow > 0 {
				return &DivisionCouplingError{ParentArc: orig, DuplicateArc: dw}
			}
		}
	}

	return nil
}
