package maxflow

import (
	"github.com/tomldh/dpct/flowgraph"
	"github.com/tomldh/dpct/graphstore"
	"github.com/tomldh/dpct/residual"
)

// edmondsKarp computes the maximum flow from source to sink by
// repeatedly augmenting along the shortest (BFS) residual path,
// pushing each path's bottleneck capacity. It mutates store's flow in
// place and returns the total value pushed.
//
// Complexity: O(V * E^2).
func edmondsKarp(store *graphstore.GraphStore, fg *flowgraph.FlowGraph, rg *residual.Graph, source, sink graphstore.NodeID) (int, error) {
	total := 0
	for {
		path := bfsAugmentingPath(rg, source, sink)
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
