package maxflow

import (
	"github.com/tomldh/dpct/flowgraph"
	"github.com/tomldh/dpct/graphstore"
	"github.com/tomldh/dpct/residual"
	"github.com/tomldh/dpct/shortestpath"
	"github.com/tomldh/dpct/tracking"
)

// bfsAugmentingPath finds the shortest (fewest-arc) source->sink path
// with positive residual capacity along every step, respecting the
// enabled bit. Returns nil if no such path exists.
func bfsAugmentingPath(rg *residual.Graph, source, sink graphstore.NodeID) []residual.ArcRef {
	predArc := make(map[graphstore.NodeID]residual.ArcRef)
	predNode := make(map[graphstore.NodeID]graphstore.NodeID)
	visited := map[graphstore.NodeID]bool{source: true}
	queue := []graphstore.NodeID{source}

	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		if u == sink {
			return reconstruct(predArc, predNode, source, sink)
		}
		for _, ref := range rg.OutOf(u) {
			v := rg.To(ref)
			if visited[v] || !usable(rg, ref) {
				continue
			}
			visited[v] = true
			predArc[v] = ref
			predNode[v] = u
			queue = append(queue, v)
		}
	}

	return nil
}

// dfsAugmentingPath finds any source->sink path with positive residual
// capacity along every step, via depth-first search.
func dfsAugmentingPath(rg *residual.Graph, source, sink graphstore.NodeID) []residual.ArcRef {
	visited := map[graphstore.NodeID]bool{source: true}
	predArc := make(map[graphstore.NodeID]residual.ArcRef)
	predNode := make(map[graphstore.NodeID]graphstore.NodeID)

	if dfsVisit(rg, source, sink, visited, predArc, predNode) {
		return reconstruct(predArc, predNode, source, sink)
	}

	return nil
}

func dfsVisit(rg *residual.Graph, u, sink graphstore.NodeID, visited map[graphstore.NodeID]bool, predArc map[graphstore.NodeID]residual.ArcRef, predNode map[graphstore.NodeID]graphstore.NodeID) bool {
	if u == sink {
		return true
	}
	for _, ref := range rg.OutOf(u) {
		v := rg.To(ref)
		if visited[v] || !usable(rg, ref) {
			continue
		}
		visited[v] = true
		predArc[v] = ref
		predNode[v] = u
		if dfsVisit(rg, v, sink, visited, predArc, predNode) {
			return true
		}
	}

	return false
}

func usable(rg *residual.Graph, ref residual.ArcRef) bool {
	if !rg.Enabled(ref) {
		return false
	}
	cap, err := rg.Capacity(ref)

	return err == nil && cap > 0
}

func reconstruct(predArc map[graphstore.NodeID]residual.ArcRef, predNode map[graphstore.NodeID]graphstore.NodeID, source, sink graphstore.NodeID) []residual.ArcRef {
	var path []residual.ArcRef
	cur := sink
	for cur != source {
		ref, ok := predArc[cur]
		if !ok {
			return nil
		}
		path = append([]residual.ArcRef{ref}, path...)
		prev, ok := predNode[cur]
		if !ok {
			return nil
		}
		cur = prev
	}

	return path
}

// bottleneck returns the minimum residual capacity along path.
func bottleneck(rg *residual.Graph, path []residual.ArcRef) (int, error) {
	least := -1
	for _, ref := range path {
		c, err := rg.Capacity(ref)
		if err != nil {
			return 0, err
		}
		if least < 0 || c < least {
			least = c
		}
	}
	if least < 0 {
		least = 0
	}

	return least, nil
}

// pushFlow augments every arc on path by amount units, refreshes each
// base arc's residual state, then runs the same division-readiness and
// division-commitment gating tracking.UpdateEnabledArcs applies to a
// unit augmentation — the max-flow phase ignores cost, but it must
// still respect the structural rule that the division option only opens
// once the parent has its own unit of in-flow, or a pure capacity search
// would take a division path before the parent it depends on was ever
// walked.
func pushFlow(fg *flowgraph.FlowGraph, store *graphstore.GraphStore, rg *residual.Graph, path []residual.ArcRef, amount int) error {
	steps := make([]shortestpath.Step, 0, len(path))
	for _, ref := range path {
		a, err := store.Arc(ref.Base)
		if err != nil {
			return err
		}
		delta := amount
		if ref.Dir == residual.Backward {
			delta = -amount
		}
		if err := store.SetFlow(ref.Base, a.Flow+delta); err != nil {
			return err
		}
		if err := rg.Refresh(ref.Base); err != nil {
			return err
		}
		steps = append(steps, shortestpath.Step{Arc: ref.Base, Dir: ref.Dir})
	}

	return tracking.UpdateEnabledArcs(fg, store, rg, steps)
}
