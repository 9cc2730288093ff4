package maxflow

import (
	"math"

	"github.com/tomldh/dpct/flowgraph"
	"github.com/tomldh/dpct/graphstore"
	"github.com/tomldh/dpct/residual"
)

// dinic computes the maximum flow from source to sink via level graph
// construction (BFS) followed by blocking flow (DFS with per-node
// iterator pointers), repeating until sink is unreachable in the level
// graph.
//
// Complexity: O(E * sqrt(V)) on unit-capacity networks.
func dinic(store *graphstore.GraphStore, fg *flowgraph.FlowGraph, rg *residual.Graph, source, sink graphstore.NodeID) (int, error) {
	total := 0
	for {
		level := bfsLevels(rg, source)
		if _, ok := level[sink]; !ok {
			return total, nil
		}

		iter := make(map[graphstore.NodeID]int)
		for {
			pushed, path, err := dinicDFS(store, fg, rg, level, iter, source, sink, math.MaxInt, nil)
			if err != nil {
				return total, err
			}
			if pushed == 0 {
				break
			}
			if err := pushFlow(fg, store, rg, path, pushed); err != nil {
				return total, err
			}
			total += pushed
		}
	}
}

func bfsLevels(rg *residual.Graph, source graphstore.NodeID) map[graphstore.NodeID]int {
	level := map[graphstore.NodeID]int{source: 0}
	queue := []graphstore.NodeID{source}

	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, ref := range rg.OutOf(u) {
			v := rg.To(ref)
			if _, seen := level[v]; seen || !usable(rg, ref) {
				continue
			}
			level[v] = level[u] + 1
			queue = append(queue, v)
		}
	}

	return level
}

// dinicDFS finds one blocking-flow path from u toward sink, restricted to
// arcs advancing exactly one level graph layer, reusing iter[u] across
// calls so an exhausted out-arc is never rescanned within one phase. It
// returns the amount the path can carry and the path itself (path plus
// the arcs found below u); dinic pushes the whole path at once so the
// gating update sees every arc's new flow.
func dinicDFS(store *graphstore.GraphStore, fg *flowgraph.FlowGraph, rg *residual.Graph, level, iter map[graphstore.NodeID]int, u, sink graphstore.NodeID, available int, path []residual.ArcRef) (int, []residual.ArcRef, error) {
	if u == sink {
		return available, path, nil
	}

	outs := rg.OutOf(u)
	for iter[u] < len(outs) {
		ref := outs[iter[u]]
		v := rg.To(ref)
		if !usable(rg, ref) || level[v] != level[u]+1 {
			iter[u]++

			continue
		}

		c, err := rg.Capacity(ref)
		if err != nil {
			return 0, nil, err
		}
		send := available
		if c < send {
			send = c
		}

		pushed, found, err := dinicDFS(store, fg, rg, level, iter, v, sink, send, append(path, ref))
		if err != nil {
			return 0, nil, err
		}
		if pushed > 0 {
			return pushed, found, nil
		}
		iter[u]++
	}

	return 0, nil, nil
}
