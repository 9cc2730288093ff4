package maxflow

import (
	"errors"
	"io"
	"log/slog"
)

// ErrInfeasible is returned when the fixed-supply min-cost phase cannot
// route every unit of the max-flow value already computed, or when the
// finishing division-coupling certification fails. Either indicates an
// internal inconsistency between the max-flow phase and the graph's
// side constraints rather than a normal solver outcome.
var ErrInfeasible = errors.New("maxflow: could not route committed supply")

// ErrNoTarget is returned when the flow graph has no terminal node to
// compute max-flow against.
var ErrNoTarget = errors.New("maxflow: flow graph has no target node")

// Algorithm selects which max-flow engine computes the supply value.
type Algorithm int

const (
	// EdmondsKarp finds augmenting paths by breadth-first search.
	EdmondsKarp Algorithm = iota
	// Dinic builds a level graph and pushes blocking flow by depth-first search.
	Dinic
	// FordFulkerson finds augmenting paths by depth-first search.
	FordFulkerson
)

// String renders an Algorithm for diagnostics and log messages.
func (a Algorithm) String() string {
	switch a {
	case EdmondsKarp:
		return "edmonds-karp"
	case Dinic:
		return "dinic"
	case FordFulkerson:
		return "ford-fulkerson"
	default:
		return "unknown"
	}
}

// Options configures one Solve call.
type Options struct {
	// Algorithm selects the max-flow engine used to compute the supply
	// value. Zero value is EdmondsKarp.
	Algorithm Algorithm

	// Logger receives per-phase progress at Debug level and a completion
	// summary at Info level. A nil Logger disables logging.
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}

	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Result is the outcome of one Solve call.
type Result struct {
	// MaxFlowValue is the total flow value computed by the chosen
	// max-flow engine before the min-cost phase redistributed it.
	MaxFlowValue int

	// Energy is the total cost of the min-cost assignment carrying
	// MaxFlowValue units of flow.
	Energy float64

	// IterationsRun counts successive-shortest-path iterations the
	// fixed-supply phase actually performed.
	IterationsRun int
}
