package flowgraph

import (
	"fmt"

	"github.com/tomldh/dpct/graphstore"
)

// AddNode allocates a FullNode(u, v) for a single detection at the given
// timestep, with the internal u->v arc carrying costs.
//
// Timestep(u) = 2*timestep+1, Timestep(v) = 2*timestep+2. Every existing
// target node is re-labelled to stay strictly above the new maximum.
func (fg *FlowGraph) AddNode(costs []float64, timestep int) (FullNode, error) {
	if len(costs) == 0 {
		return FullNode{}, ErrEmptyCosts
	}

	fg.mu.Lock()
	defer fg.mu.Unlock()

	u, err := fg.store.AddNode(2*timestep+1, graphstore.RoleDetectionEntry)
	if err != nil {
		return FullNode{}, fmt.Errorf("flowgraph: AddNode: %w", err)
	}
	v, err := fg.store.AddNode(2*timestep+2, graphstore.RoleDetectionExit)
	if err != nil {
		return FullNode{}, fmt.Errorf("flowgraph: AddNode: %w", err)
	}
	if _, err := fg.store.AddArc(u, v, costs, true); err != nil {
		return FullNode{}, fmt.Errorf("flowgraph: AddNode: %w", err)
	}

	fg.bumpMaxTimestepLocked(2*timestep + 2)

	return FullNode{U: u, V: v}, nil
}

// AddArc adds an inter-detection arc parent.V -> child.U.
func (fg *FlowGraph) AddArc(parent, child FullNode, costs []float64) (graphstore.ArcID, error) {
	if len(costs) == 0 {
		return 0, ErrEmptyCosts
	}

	fg.mu.Lock()
	defer fg.mu.Unlock()

	id, err := fg.store.AddArc(parent.V, child.U, costs, false)
	if err != nil {
		return 0, fmt.Errorf("flowgraph: AddArc: %w", err)
	}

	return id, nil
}

// AddArcToSource adds an appearance arc source -> tgt.U.
func (fg *FlowGraph) AddArcToSource(tgt FullNode, costs []float64) (graphstore.ArcID, error) {
	if len(costs) == 0 {
		return 0, ErrEmptyCosts
	}

	fg.mu.Lock()
	defer fg.mu.Unlock()

	id, err := fg.store.AddArc(fg.source, tgt.U, costs, false)
	if err != nil {
		return 0, fmt.Errorf("flowgraph: AddArcToSource: %w", err)
	}
	fg.appearance[id] = true

	return id, nil
}

// AddArcToTarget adds a disappearance arc src.V -> target. The first call
// lazily allocates a shared target node; callers wanting multiple sinks
// should use AddTarget to allocate additional ones up front.
func (fg *FlowGraph) AddArcToTarget(src FullNode, costs []float64) (graphstore.ArcID, error) {
	if len(costs) == 0 {
		return 0, ErrEmptyCosts
	}

	fg.mu.Lock()
	defer fg.mu.Unlock()

	if len(fg.targets) == 0 {
		if err := fg.addTargetLocked(); err != nil {
			return 0, fmt.Errorf("flowgraph: AddArcToTarget: %w", err)
		}
	}

	id, err := fg.store.AddArc(src.V, fg.targets[0], costs, false)
	if err != nil {
		return 0, fmt.Errorf("flowgraph: AddArcToTarget: %w", err)
	}
	fg.disappearance[id] = true

	return id, nil
}

// AddTarget allocates an additional terminal node, for callers modelling
// more than one sink.
func (fg *FlowGraph) AddTarget() (graphstore.NodeID, error) {
	fg.mu.Lock()
	defer fg.mu.Unlock()

	if err := fg.addTargetLocked(); err != nil {
		return 0, err
	}

	return fg.targets[len(fg.targets)-1], nil
}

func (fg *FlowGraph) addTargetLocked() error {
	id, err := fg.store.AddNode(fg.maxDetectionTimestep+1, graphstore.RoleTarget)
	if err != nil {
		return err
	}
	fg.targets = append(fg.targets, id)

	return nil
}

// bumpMaxTimestepLocked updates the shared maximum detection timestep and
// re-labels every existing target to stay strictly above it. mu must be
// held by the caller.
func (fg *FlowGraph) bumpMaxTimestepLocked(detectionTimestep int) {
	if detectionTimestep <= fg.maxDetectionTimestep {
		return
	}
	fg.maxDetectionTimestep = detectionTimestep
	for _, t := range fg.targets {
		_ = fg.store.SetTargetTimestep(t, fg.maxDetectionTimestep+1)
	}
}

// AllowMitosis allocates a division duplicate d for parent, wires
// source->d with a single-unit division cost, and mirrors every existing
// non-terminal out-arc of parent.V as a unit-capacity arc d->w.
//
// AllowMitosis must be called after every non-terminal out-arc of
// parent.V has been added; see ErrMitosisBeforeOutArcs and DESIGN.md for
// this package's documented caller contract.
func (fg *FlowGraph) AllowMitosis(parent FullNode, divisionCost float64) (graphstore.ArcID, error) {
	fg.mu.Lock()
	defer fg.mu.Unlock()

	if _, exists := fg.parentToDuplicate[parent.V]; exists {
		return 0, ErrMitosisAlreadyAllowed
	}

	outArcs, err := fg.store.OutArcs(parent.V)
	if err != nil {
		return 0, fmt.Errorf("flowgraph: AllowMitosis: %w", err)
	}

	type mirror struct {
		tgt  graphstore.NodeID
		cost float64
		orig graphstore.ArcID
	}
	var mirrors []mirror
	for _, arcID := range outArcs {
		if fg.disappearance[arcID] {
			continue // terminal out-arc: not mirrored
		}
		a, err := fg.store.Arc(arcID)
		if err != nil {
			return 0, fmt.Errorf("flowgraph: AllowMitosis: %w", err)
		}
		mirrors = append(mirrors, mirror{tgt: a.Tgt, cost: a.Cost[0], orig: arcID})
	}
	if len(mirrors) == 0 {
		return 0, ErrMitosisBeforeOutArcs
	}

	d, err := fg.store.AddNode(fg.nodeTimestepLocked(parent.V), graphstore.RoleDivisionDuplicate)
	if err != nil {
		return 0, fmt.Errorf("flowgraph: AllowMitosis: %w", err)
	}

	divisionArc, err := fg.store.AddArc(fg.source, d, []float64{divisionCost}, false)
	if err != nil {
		return 0, fmt.Errorf("flowgraph: AllowMitosis: %w", err)
	}
	fg.division[divisionArc] = true

	for _, m := range mirrors {
		dw, err := fg.store.AddArc(d, m.tgt, []float64{m.cost}, false)
		if err != nil {
			return 0, fmt.Errorf("flowgraph: AllowMitosis: %w", err)
		}
		fg.counterpart[m.orig] = dw
		fg.counterpart[dw] = m.orig
	}

	fg.parentToDuplicate[parent.V] = d
	fg.duplicateToParent[d] = parent.V

	return divisionArc, nil
}

func (fg *FlowGraph) nodeTimestepLocked(id graphstore.NodeID) int {
	n, err := fg.store.Node(id)
	if err != nil {
		return 0
	}

	return n.Timestep
}
