// Package tracking implements the TrackingLoop component: it owns the
// residual graph for the duration of one solve, repeatedly calls
// shortestpath.Finder, augments unit flow through graphstore, and
// updates which residual arcs participate in the next search round.
package tracking

import (
	"errors"
	"io"
	"log/slog"

	"github.com/tomldh/dpct/flowgraph"
)

// ErrValidationFailed wraps a flowgraph.Validate failure detected before
// a solve begins.
var ErrValidationFailed = errors.New("tracking: flow graph failed validation")

// Options configures one MaxFlowMinCostTracking call.
type Options struct {
	// InitialEnergy seeds the running energy total.
	InitialEnergy float64

	// UseBackArcs lets backward residual arcs participate in the search,
	// enabling negative-cycle cancellation.
	UseBackArcs bool

	// MaxNumPaths caps the number of augmentation iterations; zero or
	// negative means unlimited (bounded only by the search finding no
	// further improvement).
	MaxNumPaths int

	// UseOrderedBF relaxes nodes in timestep order each round.
	UseOrderedBF bool

	// PartialBFUpdates reuses distance/token labels across iterations
	// instead of resetting on every call.
	PartialBFUpdates bool

	// Logger receives per-iteration progress at Debug level and a
	// completion summary at Info level. A nil Logger disables logging.
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}

	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Result is the outcome of one MaxFlowMinCostTracking call.
type Result struct {
	// Energy is the final running cost total.
	Energy float64

	// IterationsRun counts augmentation iterations actually performed.
	IterationsRun int

	// BoundExhausted is true when MaxNumPaths was reached while a
	// negative cost path or cycle still existed — not an error, per the
	// soft BoundExhausted outcome.
	BoundExhausted bool
}

// MaxFlowMinCostTracking runs the full successive-shortest-paths
// augment-update loop described by flowgraph's accompanying engine
// design, returning the final energy and run summary.
func MaxFlowMinCostTracking(fg *flowgraph.FlowGraph, opts Options) (*Result, error) {
	return runLoop(fg, opts)
}
