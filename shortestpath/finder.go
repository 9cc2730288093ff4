package shortestpath

import (
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/tomldh/dpct/graphstore"
	"github.com/tomldh/dpct/residual"
)

// Find runs the constrained Bellman-Ford search and returns the lowest
// cost valid path from the source to any target, or the lowest cost
// negative cycle if one is detected first. Found is false when the best
// reachable cost is not strictly below -epsilon: no augmenting
// improvement exists.
func (f *Finder) Find() *Result {
	cycle := f.search()
	if cycle != nil {
		return &Result{Found: true, IsCycle: true, Steps: cycle, Cost: f.sumCost(cycle)}
	}

	return f.bestTargetResult(true)
}

// FindAny runs the same constrained search but accepts the lowest cost
// reachable target regardless of sign. Used by maxflow's fixed-supply
// phase, which must route every unit of an already-committed max-flow
// value rather than stop once no more profitable augmentation exists.
func (f *Finder) FindAny() *Result {
	f.search()

	return f.bestTargetResult(false)
}

// search resets (unless PartialUpdates) and runs every relaxation round,
// returning a reconstructed negative cycle if one was detected.
func (f *Finder) search() []Step {
	if !f.opts.PartialUpdates {
		f.reset()
	}

	rounds := len(f.order)
	if rounds > 0 {
		rounds--
	}

	for i := 0; i < rounds; i++ {
		if !f.relaxRound() {
			break
		}
	}

	return f.detectNegativeCycle()
}

// relaxRound performs one sweep over every enabled residual arc leaving
// every node in search order, returning true iff any distance improved.
func (f *Finder) relaxRound() bool {
	updated := false
	for _, u := range f.order {
		du, ok := f.dist[u]
		if !ok || isInf(du) {
			continue
		}
		for _, ref := range f.rg.OutOf(u) {
			if ref.Dir == residual.Backward && !f.opts.UseBackArcs {
				continue
			}
			if f.relax(u, ref) {
				updated = true
			}
		}
	}

	return updated
}

// relax attempts to improve v's distance label via the residual arc ref
// leaving u. It enforces the token constraint: ref may be taken only if
// none of its forbidden tokens are already present in u's token set.
func (f *Finder) relax(u graphstore.NodeID, ref residual.ArcRef) bool {
	if !f.rg.Enabled(ref) {
		return false
	}
	residualCap, err := f.rg.Capacity(ref)
	if err != nil || residualCap <= 0 {
		return false
	}
	cost, err := f.rg.Cost(ref)
	if err != nil {
		return false
	}

	uToks := f.toks[u]
	if uToks.containsAny(f.rg.Forbidden(ref)) {
		return false
	}

	v := f.rg.To(ref)
	du := f.dist[u]
	dv, ok := f.dist[v]
	newDist := du + cost
	if ok && !(newDist < dv-epsilon) {
		return false
	}

	f.dist[v] = newDist
	f.toks[v] = uToks.union(f.rg.Provided(ref))
	f.pred[v] = Step{Arc: ref.Base, Dir: ref.Dir}
	f.predOf[v] = u

	return true
}

// detectNegativeCycle performs one extra relaxation pass; if any arc can
// still relax after the bound on simple-path rounds, a negative cost
// cycle exists and is reconstructed by walking predecessors until a node
// repeats.
func (f *Finder) detectNegativeCycle() []Step {
	if !f.opts.UseBackArcs {
		return nil // a DAG-like forward-only search can never cycle
	}

	var relaxedInto graphstore.NodeID
	found := false
	for _, u := range f.order {
		du, ok := f.dist[u]
		if !ok || isInf(du) {
			continue
		}
		for _, ref := range f.rg.OutOf(u) {
			if !f.rg.Enabled(ref) {
				continue
			}
			residualCap, err := f.rg.Capacity(ref)
			if err != nil || residualCap <= 0 {
				continue
			}
			cost, err := f.rg.Cost(ref)
			if err != nil {
				continue
			}
			if f.toks[u].containsAny(f.rg.Forbidden(ref)) {
				continue
			}
			v := f.rg.To(ref)
			dv, ok := f.dist[v]
			if ok && f.dist[u]+cost < dv-epsilon {
				f.pred[v] = Step{Arc: ref.Base, Dir: ref.Dir}
				f.predOf[v] = u
				relaxedInto = v
				found = true
			}
		}
	}
	if !found {
		return nil
	}

	// Walk back len(order) times to guarantee landing strictly inside the
	// cycle, then collect arcs until a node repeats.
	n := relaxedInto
	for i := 0; i < len(f.order); i++ {
		prev, ok := f.predOf[n]
		if !ok {
			return nil
		}
		n = prev
	}

	visited := map[graphstore.NodeID]bool{n: true}
	var steps []Step
	cur := n
	for {
		step, ok := f.pred[cur]
		if !ok {
			return nil
		}
		steps = append([]Step{step}, steps...)
		cur = f.predOf[cur]
		if cur == n {
			break
		}
		if visited[cur] {
			break
		}
		visited[cur] = true
	}

	return steps
}

// bestTargetResult picks the target with the lowest distance label and
// reconstructs the path to it. When requireNegative is true (Find), the
// result is rejected unless that distance is strictly below -epsilon;
// FindAny passes false to accept any reachable target regardless of sign.
func (f *Finder) bestTargetResult(requireNegative bool) *Result {
	best := graphstore.NodeID(0)
	bestDist := 0.0
	haveBest := false

	for _, t := range f.targets {
		d, ok := f.dist[t]
		if !ok || isInf(d) {
			continue
		}
		if !haveBest || d < bestDist {
			best, bestDist, haveBest = t, d, true
		}
	}

	if !haveBest {
		return &Result{Found: false}
	}
	if requireNegative && (bestDist >= -epsilon || scalar.EqualWithinAbs(bestDist, 0, epsilon)) {
		return &Result{Found: false}
	}

	return &Result{
		Found:  true,
		Steps:  f.reconstructPath(best),
		Cost:   bestDist,
		Target: best,
	}
}

func (f *Finder) reconstructPath(target graphstore.NodeID) []Step {
	var steps []Step
	cur := target
	for cur != f.source {
		step, ok := f.pred[cur]
		if !ok {
			return nil
		}
		steps = append([]Step{step}, steps...)
		prev, ok := f.predOf[cur]
		if !ok {
			return nil
		}
		cur = prev
	}

	return steps
}

func isInf(v float64) bool {
	return v > 1e300 || v < -1e300
}

// sumCost totals the live residual cost of a step sequence, used to
// price a reconstructed negative cycle (which has no dist[] label of
// its own to read).
func (f *Finder) sumCost(steps []Step) float64 {
	total := 0.0
	for _, s := range steps {
		if c, err := f.rg.Cost(residual.ArcRef{Base: s.Arc, Dir: s.Dir}); err == nil {
			total += c
		}
	}

	return total
}
