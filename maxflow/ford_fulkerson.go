package maxflow

import (
	"github.com/tomldh/dpct/flowgraph"
	"github.com/tomldh/dpct/graphstore"
	"github.com/tomldh/dpct/residual"
)

// fordFulkerson computes the maximum flow from source to sink by
// repeatedly augmenting along any residual path found by depth-first
// search, pushing each path's bottleneck capacity.
//
// Complexity: O(E * F), F the total flow pushed.
func fordFulkerson(store *graphstore.GraphStore, fg *flowgraph.FlowGraph, rg *residual.Graph, source, sink graphstore.NodeID) (int, error) {
	total := 0
	for {
		path := dfsAugmentingPath(rg, source, sink)
		if path == nil {
			return total, nil
		}
		delta, err := bottleneck(rg, path)
		if err != nil {
			return total, err
		}
		if delta <= 0 {
			return total, nil
		}
		if err := pushFlow(fg, store, rg, path, delta); err != nil {
			return total, err
		}
		total += delta
	}
}
