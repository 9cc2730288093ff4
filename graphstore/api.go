// File: api.go
// Thin, read-only public facade over the mutable state defined in types.go
// and mutated in methods.go. No algorithmic logic lives here.
package graphstore

import "math"

// Node returns a copy of the node with the given ID.
func (g *GraphStore) Node(id NodeID) (Node, error) {
	g.muNode.RLock()
	defer g.muNode.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return Node{}, ErrNodeNotFound
	}

	return *n, nil
}

// Arc returns a copy of the arc with the given ID. The returned Cost slice
// is a defensive copy; mutating it has no effect on the store.
func (g *GraphStore) Arc(id ArcID) (Arc, error) {
	g.muArc.RLock()
	defer g.muArc.RUnlock()

	a, ok := g.arcs[id]
	if !ok {
		return Arc{}, ErrArcNotFound
	}
	cp := *a
	cp.Cost = make([]float64, len(a.Cost))
	copy(cp.Cost, a.Cost)

	return cp, nil
}

// Flow returns the current flow of an arc.
func (g *GraphStore) Flow(id ArcID) (int, error) {
	g.muArc.RLock()
	defer g.muArc.RUnlock()

	a, ok := g.arcs[id]
	if !ok {
		return 0, ErrArcNotFound
	}

	return a.Flow, nil
}

// Capacity returns the capacity (cost-vector length) of an arc.
func (g *GraphStore) Capacity(id ArcID) (int, error) {
	g.muArc.RLock()
	defer g.muArc.RUnlock()

	a, ok := g.arcs[id]
	if !ok {
		return 0, ErrArcNotFound
	}

	return len(a.Cost), nil
}

// ArcCost returns the marginal cost of the n-th unit of flow on arc id:
// c[n] for 0 <= n < capacity, +Inf for n >= capacity, -Inf for n < 0.
// Callers only ever query n in {flow, flow-1}.
func (g *GraphStore) ArcCost(id ArcID, n int) (float64, error) {
	g.muArc.RLock()
	defer g.muArc.RUnlock()

	a, ok := g.arcs[id]
	if !ok {
		return 0, ErrArcNotFound
	}
	if n < 0 {
		return math.Inf(-1), nil
	}
	if n >= len(a.Cost) {
		return math.Inf(1), nil
	}

	return a.Cost[n], nil
}

// OutArcs returns the IDs of arcs leaving node id, in insertion order.
func (g *GraphStore) OutArcs(id NodeID) ([]ArcID, error) {
	g.muArc.RLock()
	defer g.muArc.RUnlock()

	arcs, ok := g.outArcs[id]
	if !ok {
		return nil, ErrNodeNotFound
	}
	out := make([]ArcID, len(arcs))
	copy(out, arcs)

	return out, nil
}

// InArcs returns the IDs of arcs entering node id, in insertion order.
func (g *GraphStore) InArcs(id NodeID) ([]ArcID, error) {
	g.muArc.RLock()
	defer g.muArc.RUnlock()

	arcs, ok := g.inArcs[id]
	if !ok {
		return nil, ErrNodeNotFound
	}
	in := make([]ArcID, len(arcs))
	copy(in, arcs)

	return in, nil
}

// Nodes returns every node ID in ascending (insertion) order.
func (g *GraphStore) Nodes() []NodeID {
	g.muNode.RLock()
	defer g.muNode.RUnlock()

	ids := make([]NodeID, 0, len(g.nodes))
	for id := NodeID(0); id < g.nextNodeID; id++ {
		if _, ok := g.nodes[id]; ok {
			ids = append(ids, id)
		}
	}

	return ids
}

// Arcs returns every arc ID in ascending (insertion) order.
func (g *GraphStore) Arcs() []ArcID {
	g.muArc.RLock()
	defer g.muArc.RUnlock()

	ids := make([]ArcID, 0, len(g.arcs))
	for id := ArcID(0); id < g.nextArcID; id++ {
		if _, ok := g.arcs[id]; ok {
			ids = append(ids, id)
		}
	}

	return ids
}

// Stats produces an O(V+E) read-only summary of store size and aggregate flow.
func (g *GraphStore) Stats() Stats {
	g.muNode.RLock()
	s := Stats{NodeCount: len(g.nodes)}
	g.muNode.RUnlock()

	g.muArc.RLock()
	defer g.muArc.RUnlock()
	s.ArcCount = len(g.arcs)
	for _, a := range g.arcs {
		s.TotalFlow += a.Flow
		if a.Intermediate {
			s.IntermediateCount++
		}
	}

	return s
}
