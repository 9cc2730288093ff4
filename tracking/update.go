package tracking

import (
	"github.com/tomldh/dpct/flowgraph"
	"github.com/tomldh/dpct/graphstore"
	"github.com/tomldh/dpct/residual"
	"github.com/tomldh/dpct/shortestpath"
)

// UpdateEnabledArcs applies the side-constraint state machine to every
// arc on the augmented path or cycle, re-deriving which residual arcs
// may participate in the next search round. Exported for reuse by
// maxflow, whose fixed-supply phase needs the same gating tracking uses.
func UpdateEnabledArcs(fg *flowgraph.FlowGraph, store *graphstore.GraphStore, rg *residual.Graph, steps []shortestpath.Step) error {
	for _, step := range steps {
		if err := applyTriggers(fg, store, rg, step.Arc); err != nil {
			return err
		}
	}

	return nil
}

func applyTriggers(fg *flowgraph.FlowGraph, store *graphstore.GraphStore, rg *residual.Graph, arcID graphstore.ArcID) error {
	a, err := store.Arc(arcID)
	if err != nil {
		return err
	}

	if fg.IsParent(a.Src) && !fg.IsDisappearance(arcID) {
		if err := applyDivisionReadiness(fg, store, rg, a.Src); err != nil {
			return err
		}
	}

	if fg.IsDuplicate(a.Tgt) {
		if err := applyDivisionCommitment(fg, store, rg, a.Tgt); err != nil {
			return err
		}
	}

	if fg.IsAppearance(arcID) {
		if err := toggleOtherInArcs(store, rg, a.Tgt, arcID, a.Flow == 0); err != nil {
			return err
		}
	}

	if fg.IsDisappearance(arcID) {
		if err := toggleOtherOutArcs(store, rg, a.Src, arcID, a.Flow == 0); err != nil {
			return err
		}
	}

	if !fg.IsAppearance(arcID) && !fg.IsDisappearance(arcID) && !fg.IsIntermediate(arcID) {
		if err := reenableAppearance(fg, store, rg, a.Tgt); err != nil {
			return err
		}
		if err := reenableDisappearance(fg, store, rg, a.Src); err != nil {
			return err
		}
	}

	return nil
}

// applyDivisionReadiness enables the division option for v once v has
// received its one unit of in-flow, and hides it again otherwise.
func applyDivisionReadiness(fg *flowgraph.FlowGraph, store *graphstore.GraphStore, rg *residual.Graph, v graphstore.NodeID) error {
	d, ok := fg.DuplicateOf(v)
	if !ok {
		return nil
	}
	in, err := sumInFlow(store, v)
	if err != nil {
		return err
	}
	if in == 1 {
		return setDivisionEnabled(fg, store, rg, v, d, true)
	}

	return setDivisionEnabled(fg, store, rg, v, d, false)
}

// applyDivisionCommitment disables every out-arc of the mother, including
// her own disappearance arc, once the division arc carries its unit of
// flow (the mother's own flow cannot be undone once division is
// committed to — she must now continue through her daughter). Otherwise
// it re-enables her out-arcs, except disappearance, which only the
// disappearance trigger itself governs.
func applyDivisionCommitment(fg *flowgraph.FlowGraph, store *graphstore.GraphStore, rg *residual.Graph, d graphstore.NodeID) error {
	v, ok := fg.ParentOf(d)
	if !ok {
		return nil
	}

	divisionArc, err := findDivisionArc(fg, store, d)
	if err != nil || divisionArc == 0 {
		return err
	}
	a, err := store.Arc(divisionArc)
	if err != nil {
		return err
	}

	out, err := store.OutArcs(v)
	if err != nil {
		return err
	}
	committed := a.Flow == 1
	for _, id := range out {
		if !committed && fg.IsDisappearance(id) {
			continue
		}
		rg.EnableBase(id, !committed)
	}

	return nil
}

func findDivisionArc(fg *flowgraph.FlowGraph, store *graphstore.GraphStore, d graphstore.NodeID) (graphstore.ArcID, error) {
	in, err := store.InArcs(d)
	if err != nil {
		return 0, err
	}
	for _, id := range in {
		if fg.IsDivision(id) {
			return id, nil
		}
	}

	return 0, nil
}

func setDivisionEnabled(fg *flowgraph.FlowGraph, store *graphstore.GraphStore, rg *residual.Graph, v, d graphstore.NodeID, enabled bool) error {
	divisionArc, err := findDivisionArc(fg, store, d)
	if err != nil || divisionArc == 0 {
		return err
	}
	rg.EnableBase(divisionArc, enabled)

	out, err := store.OutArcs(d)
	if err != nil {
		return err
	}
	for _, id := range out {
		rg.EnableBase(id, enabled)
	}

	return nil
}

func toggleOtherInArcs(store *graphstore.GraphStore, rg *residual.Graph, node graphstore.NodeID, except graphstore.ArcID, enabled bool) error {
	in, err := store.InArcs(node)
	if err != nil {
		return err
	}
	for _, id := range in {
		if id == except {
			continue
		}
		rg.EnableBase(id, enabled)
	}

	return nil
}

func toggleOtherOutArcs(store *graphstore.GraphStore, rg *residual.Graph, node graphstore.NodeID, except graphstore.ArcID, enabled bool) error {
	out, err := store.OutArcs(node)
	if err != nil {
		return err
	}
	for _, id := range out {
		if id == except {
			continue
		}
		rg.EnableBase(id, enabled)
	}

	return nil
}

func reenableAppearance(fg *flowgraph.FlowGraph, store *graphstore.GraphStore, rg *residual.Graph, node graphstore.NodeID) error {
	in, err := sumInFlow(store, node)
	if err != nil {
		return err
	}
	if in != 0 {
		return nil
	}
	inArcs, err := store.InArcs(node)
	if err != nil {
		return err
	}
	for _, id := range inArcs {
		if fg.IsAppearance(id) {
			rg.EnableBase(id, true)
		}
	}

	return nil
}

func reenableDisappearance(fg *flowgraph.FlowGraph, store *graphstore.GraphStore, rg *residual.Graph, node graphstore.NodeID) error {
	out, err := sumOutFlow(store, node)
	if err != nil {
		return err
	}
	if out != 0 {
		return nil
	}
	outArcs, err := store.OutArcs(node)
	if err != nil {
		return err
	}
	for _, id := range outArcs {
		if fg.IsDisappearance(id) {
			rg.EnableBase(id, true)
		}
	}

	return nil
}

func sumInFlow(store *graphstore.GraphStore, node graphstore.NodeID) (int, error) {
	in, err := store.InArcs(node)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, id := range in {
		a, err := store.Arc(id)
		if err != nil {
			return 0, err
		}
		total += a.Flow
	}

	return total, nil
}

func sumOutFlow(store *graphstore.GraphStore, node graphstore.NodeID) (int, error) {
	out, err := store.OutArcs(node)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, id := range out {
		a, err := store.Arc(id)
		if err != nil {
			return 0, err
		}
		total += a.Flow
	}

	return total, nil
}
