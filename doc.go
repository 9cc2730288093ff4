// Package dpct implements a time-expanded min-cost flow engine for cell
// tracking: given per-timestep detections and the costs of carrying a
// cell from one detection to the next (including appearing,
// disappearing, or dividing into two), it finds the flow assignment of
// least total cost that explains the observed detections as cell
// trajectories.
//
// The engine is organized as a small pipeline of packages, each owning
// one concern:
//
//	graphstore/    — dense-ID directed multigraph: nodes, arcs, flow, cost
//	flowgraph/     — time-expanded construction API over graphstore
//	residual/      — live residual-arc view, gated by side-constraint tokens
//	shortestpath/  — constrained shortest/negative-cycle search over residual
//	tracking/      — the successive-shortest-paths augment-update loop
//	maxflow/       — an alternative max-flow-then-min-cost solver
//	cmd/dpcttrack/ — a thin JSON-in/JSON-out driver binary
//
// A typical construction and solve looks like:
//
//	fg := flowgraph.New()
//	a, _ := fg.AddNode(intermediateCosts, timestep)
//	_, _ = fg.AddArcToSource(a, appearanceCosts)
//	_, _ = fg.AddArcToTarget(a, disappearanceCosts)
//	result, err := tracking.MaxFlowMinCostTracking(fg, tracking.Options{})
//
// See DESIGN.md for the grounding behind each package's design choices.
package dpct
