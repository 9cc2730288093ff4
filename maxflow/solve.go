package maxflow

import (
	"fmt"

	"github.com/tomldh/dpct/flowgraph"
	"github.com/tomldh/dpct/graphstore"
	"github.com/tomldh/dpct/residual"
	"github.com/tomldh/dpct/shortestpath"
	"github.com/tomldh/dpct/tracking"
)

// Solve runs the alternative max-flow-then-min-cost tracker: it computes
// the maximum flow value from source to the first target with the
// chosen Algorithm, discards that flow's particular (cost-blind) routing,
// then re-derives the cheapest way to carry exactly that many units
// with shortestpath's constrained search run to completion rather than
// stopped at the first non-improving iteration.
func Solve(fg *flowgraph.FlowGraph, opts Options) (*Result, error) {
	if err := fg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", tracking.ErrValidationFailed, err)
	}
	targets := fg.Targets()
	if len(targets) == 0 {
		return nil, ErrNoTarget
	}
	sink := targets[0]

	log := opts.logger()
	store := fg.Store()

	store.SetSolving(true)
	defer store.SetSolving(false)

	maxFlowValue, err := computeMaxFlow(store, fg, opts.Algorithm, sink)
	if err != nil {
		return nil, err
	}
	log.Debug("maxflow: supply computed", "algorithm", opts.Algorithm, "value", maxFlowValue)

	store.ResetFlows()
	if maxFlowValue == 0 {
		log.Info("maxflow: converged", "value", 0, "energy", 0.0)

		return &Result{MaxFlowValue: 0}, nil
	}

	energy, iterations, err := routeFixedSupply(store, fg, maxFlowValue)
	if err != nil {
		return nil, err
	}

	if err := synchronizeDivisionDuplicateArcFlows(fg, store); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInfeasible, err)
	}

	log.Info("maxflow: converged", "value", maxFlowValue, "energy", energy, "iterations", iterations)

	return &Result{MaxFlowValue: maxFlowValue, Energy: energy, IterationsRun: iterations}, nil
}

func computeMaxFlow(store *graphstore.GraphStore, fg *flowgraph.FlowGraph, algo Algorithm, sink graphstore.NodeID) (int, error) {
	rg := residual.New(fg)
	rg.EnableAll()

	source := fg.Source()
	switch algo {
	case Dinic:
		return dinic(store, fg, rg, source, sink)
	case FordFulkerson:
		return fordFulkerson(store, fg, rg, source, sink)
	default:
		return edmondsKarp(store, fg, rg, source, sink)
	}
}

// routeFixedSupply re-derives the minimum cost way to carry exactly
// supply units of flow, by running supply unconditional successive-
// shortest-path iterations (accepting the best reachable path
// regardless of sign, via shortestpath.Finder.FindAny) over a fresh
// residual graph with back arcs disabled and the ordered node list
// enabled, matching tracking's own search configuration.
func routeFixedSupply(store *graphstore.GraphStore, fg *flowgraph.FlowGraph, supply int) (float64, int, error) {
	rg := residual.New(fg)
	rg.EnableAll()

	finder, err := shortestpath.New(rg, store, fg.Source(), fg.Targets(), shortestpath.Options{
		UseBackArcs:        false,
		UseOrderedNodeList: true,
	})
	if err != nil {
		return 0, 0, fmt.Errorf("maxflow: routeFixedSupply: %w", err)
	}

	energy := 0.0
	for i := 0; i < supply; i++ {
		result := finder.FindAny()
		if !result.Found {
			return energy, i, fmt.Errorf("%w: routed %d/%d units", ErrInfeasible, i, supply)
		}
		if err := tracking.AugmentUnitFlow(store, rg, result.Steps); err != nil {
			return energy, i, err
		}
		energy += result.Cost
		if err := tracking.UpdateEnabledArcs(fg, store, rg, result.Steps); err != nil {
			return energy, i, err
		}
	}

	return energy, supply, nil
}
