// Command dpcttrack is a thin driver around flowgraph/tracking/maxflow:
// it parses a JSON graph description, runs one solve, and emits the
// resulting per-arc flows as JSON. It carries no tracking logic of its
// own — every decision below is a pass-through to the engine packages.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/tomldh/dpct/cmd/dpcttrack/internal/config"
	"github.com/tomldh/dpct/cmd/dpcttrack/internal/graphio"
	"github.com/tomldh/dpct/flowgraph"
	"github.com/tomldh/dpct/maxflow"
	"github.com/tomldh/dpct/tracking"
)

const (
	exitOK          = 0
	exitUsage       = 1
	exitConstructed = 2
	exitSolve       = 3
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("dpcttrack", flag.ContinueOnError)
	inputPath := fs.String("input", "", "path to the input graph JSON (default stdin)")
	outputPath := fs.String("output", "", "path to write the solved flow JSON (default stdout)")
	configPath := fs.String("config", "", "path to a YAML config file (optional)")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}
	log := config.NewLogger(cfg.Log)

	in, closeIn, err := openInput(*inputPath)
	if err != nil {
		log.Error("dpcttrack: open input", "err", err)
		return exitUsage
	}
	defer closeIn()

	graph, err := graphio.Decode(in)
	if err != nil {
		log.Error("dpcttrack: decode graph", "err", err)
		return exitConstructed
	}

	fg, err := graphio.Build(graph)
	if err != nil {
		log.Error("dpcttrack: build graph", "err", err)
		return exitConstructed
	}

	energy, iterations, boundExhausted, err := solve(fg, cfg.Solver, log)
	if err != nil {
		log.Error("dpcttrack: solve", "err", err)
		return exitSolve
	}

	out, closeOut, err := openOutput(*outputPath)
	if err != nil {
		log.Error("dpcttrack: open output", "err", err)
		return exitUsage
	}
	defer closeOut()

	if err := graphio.EncodeFlows(out, fg.Store(), energy, iterations, boundExhausted); err != nil {
		log.Error("dpcttrack: encode output", "err", err)
		return exitSolve
	}

	log.Info("dpcttrack: solved", "energy", energy, "iterations", iterations, "bound_exhausted", boundExhausted)

	return exitOK
}

// solve dispatches to the successive-shortest-paths tracking loop or
// the alternative max-flow-then-min-cost solver, per cfg.Algorithm.
func solve(fg *flowgraph.FlowGraph, cfg config.Solver, log *slog.Logger) (energy float64, iterations int, boundExhausted bool, err error) {
	if cfg.Algorithm == "maxflow" {
		algo, algErr := parseMaxFlowAlgorithm(cfg.MaxFlowAlgorithm)
		if algErr != nil {
			return 0, 0, false, algErr
		}
		result, solveErr := maxflow.Solve(fg, maxflow.Options{Algorithm: algo, Logger: log})
		if solveErr != nil {
			return 0, 0, false, solveErr
		}

		return result.Energy, result.IterationsRun, false, nil
	}

	result, solveErr := tracking.MaxFlowMinCostTracking(fg, tracking.Options{
		InitialEnergy:    cfg.InitialEnergy,
		UseBackArcs:      cfg.UseBackArcs,
		MaxNumPaths:      cfg.MaxNumPaths,
		UseOrderedBF:     cfg.UseOrderedBF,
		PartialBFUpdates: cfg.PartialBFUpdates,
		Logger:           log,
	})
	if solveErr != nil {
		return 0, 0, false, solveErr
	}

	return result.Energy, result.IterationsRun, result.BoundExhausted, nil
}

func parseMaxFlowAlgorithm(name string) (maxflow.Algorithm, error) {
	switch name {
	case "", "edmonds_karp":
		return maxflow.EdmondsKarp, nil
	case "dinic":
		return maxflow.Dinic, nil
	case "ford_fulkerson":
		return maxflow.FordFulkerson, nil
	default:
		return 0, fmt.Errorf("dpcttrack: unknown max_flow_algorithm %q", name)
	}
}

func openInput(path string) (*os.File, func(), error) {
	if path == "" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	return f, func() { _ = f.Close() }, nil
}

func openOutput(path string) (*os.File, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}

	return f, func() { _ = f.Close() }, nil
}
