package tracking

import (
	"fmt"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/tomldh/dpct/flowgraph"
	"github.com/tomldh/dpct/residual"
	"github.com/tomldh/dpct/shortestpath"
)

const epsilon = 1e-8

func runLoop(fg *flowgraph.FlowGraph, opts Options) (*Result, error) {
	if err := fg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	log := opts.logger()
	store := fg.Store()

	store.SetSolving(true)
	defer store.SetSolving(false)

	rg := residual.New(fg)
	rg.EnableAll()

	finder, err := shortestpath.New(rg, store, fg.Source(), fg.Targets(), shortestpath.Options{
		UseBackArcs:        opts.UseBackArcs,
		UseOrderedNodeList: opts.UseOrderedBF,
		PartialUpdates:     opts.PartialBFUpdates,
	})
	if err != nil {
		return nil, fmt.Errorf("tracking: MaxFlowMinCostTracking: %w", err)
	}

	energy := opts.InitialEnergy
	iter := 0

	for {
		result := finder.Find()
		if !improving(result) {
			log.Info("tracking: converged", "iterations", iter, "energy", energy)

			return &Result{Energy: energy, IterationsRun: iter}, nil
		}

		if opts.MaxNumPaths > 0 && iter >= opts.MaxNumPaths {
			log.Info("tracking: bound exhausted", "iterations", iter, "energy", energy)

			return &Result{Energy: energy, IterationsRun: iter, BoundExhausted: true}, nil
		}

		if err := AugmentUnitFlow(store, rg, result.Steps); err != nil {
			return nil, err
		}
		energy += result.Cost
		if err := UpdateEnabledArcs(fg, store, rg, result.Steps); err != nil {
			return nil, err
		}

		iter++
		log.Debug("tracking: iteration", "iter", iter, "pathCost", result.Cost, "energy", energy, "arcsTouched", len(result.Steps), "isCycle", result.IsCycle)
	}
}

func improving(result *shortestpath.Result) bool {
	return result.Found && result.Cost < -epsilon && !scalar.EqualWithinAbs(result.Cost, 0, epsilon)
}
