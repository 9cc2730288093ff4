package graphio

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tomldh/dpct/flowgraph"
)

// Decode parses a Graph description from r.
func Decode(r io.Reader) (*Graph, error) {
	var g Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return nil, fmt.Errorf("graphio: decode: %w", err)
	}

	return &g, nil
}

// Build constructs a flowgraph.FlowGraph from a decoded Graph, in four
// passes: every detection's intermediate arc first (so arc/mitosis
// entries can resolve ids to FullNode), then appearance/disappearance
// arcs, then inter-detection arcs, then mitosis options last since
// AllowMitosis requires the parent's non-terminal out-arcs to exist
// already.
func Build(g *Graph) (*flowgraph.FlowGraph, error) {
	fg := flowgraph.New()
	nodes := make(map[string]flowgraph.FullNode, len(g.Detections))

	for _, d := range g.Detections {
		if _, exists := nodes[d.ID]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateDetection, d.ID)
		}
		full, err := fg.AddNode(d.IntermediateCosts, d.Timestep)
		if err != nil {
			return nil, fmt.Errorf("graphio: detection %q: %w", d.ID, err)
		}
		nodes[d.ID] = full
	}

	for _, d := range g.Detections {
		full := nodes[d.ID]
		if len(d.AppearanceCosts) > 0 {
			if _, err := fg.AddArcToSource(full, d.AppearanceCosts); err != nil {
				return nil, fmt.Errorf("graphio: detection %q appearance: %w", d.ID, err)
			}
		}
		if len(d.DisappearanceCosts) > 0 {
			if _, err := fg.AddArcToTarget(full, d.DisappearanceCosts); err != nil {
				return nil, fmt.Errorf("graphio: detection %q disappearance: %w", d.ID, err)
			}
		}
	}

	for _, a := range g.Arcs {
		src, ok := nodes[a.Src]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownDetection, a.Src)
		}
		tgt, ok := nodes[a.Tgt]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownDetection, a.Tgt)
		}
		if _, err := fg.AddArc(src, tgt, a.Costs); err != nil {
			return nil, fmt.Errorf("graphio: arc %s->%s: %w", a.Src, a.Tgt, err)
		}
	}

	for _, m := range g.Mitosis {
		parent, ok := nodes[m.Parent]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownDetection, m.Parent)
		}
		if _, err := fg.AllowMitosis(parent, m.DivisionCost); err != nil {
			return nil, fmt.Errorf("graphio: mitosis for %q: %w", m.Parent, err)
		}
	}

	return fg, nil
}
