package tracking_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/tomldh/dpct/flowgraph"
	"github.com/tomldh/dpct/graphstore"
	"github.com/tomldh/dpct/tracking"
)

type arcFlow struct {
	Src, Tgt graphstore.NodeID
	Flow     int
}

func flowSnapshot(t *testing.T, store *graphstore.GraphStore) []arcFlow {
	t.Helper()

	var snap []arcFlow
	for _, id := range store.Arcs() {
		a, err := store.Arc(id)
		require.NoError(t, err)
		if a.Flow == 0 {
			continue
		}
		snap = append(snap, arcFlow{Src: a.Src, Tgt: a.Tgt, Flow: a.Flow})
	}

	return snap
}

// TrackingSuite exercises the successive-shortest-paths augment-update
// loop against the literal end-to-end scenarios and invariants it must
// uphold: single-cell assignment, chained detections, division, the
// no-profitable-flow no-op, bound exhaustion, appearance/predecessor
// exclusivity, back-arc cycle cancellation, and re-solve idempotence.
type TrackingSuite struct {
	suite.Suite
}

func TestTrackingSuite(t *testing.T) {
	suite.Run(t, new(TrackingSuite))
}

func (s *TrackingSuite) TestSingleCellSingleTimestep() {
	t := s.T()
	fg := flowgraph.New()
	a, err := fg.AddNode([]float64{-5}, 0)
	require.NoError(t, err)
	_, err = fg.AddArcToSource(a, []float64{1})
	require.NoError(t, err)
	_, err = fg.AddArcToTarget(a, []float64{1})
	require.NoError(t, err)

	result, err := tracking.MaxFlowMinCostTracking(fg, tracking.Options{InitialEnergy: 10, UseOrderedBF: true})
	require.NoError(t, err)
	require.InDelta(t, 7.0, result.Energy, 1e-9) // 10 + (1 - 5 + 1)
	require.False(t, result.BoundExhausted)

	intArc, err := fg.Store().OutArcs(a.U)
	require.NoError(t, err)
	require.Len(t, intArc, 1)
	flow, err := fg.Store().Flow(intArc[0])
	require.NoError(t, err)
	require.Equal(t, 1, flow)
}

func (s *TrackingSuite) TestTwoTimestepChain() {
	t := s.T()
	fg := flowgraph.New()
	A, err := fg.AddNode([]float64{-3}, 0)
	require.NoError(t, err)
	B, err := fg.AddNode([]float64{-4}, 1)
	require.NoError(t, err)
	_, err = fg.AddArc(A, B, []float64{0})
	require.NoError(t, err)
	_, err = fg.AddArcToSource(A, []float64{1})
	require.NoError(t, err)
	_, err = fg.AddArcToTarget(B, []float64{1})
	require.NoError(t, err)

	result, err := tracking.MaxFlowMinCostTracking(fg, tracking.Options{InitialEnergy: 0, UseOrderedBF: true})
	require.NoError(t, err)
	require.InDelta(t, -5.0, result.Energy, 1e-9)
}

func (s *TrackingSuite) TestNoProfitableFlow() {
	t := s.T()
	fg := flowgraph.New()
	a, err := fg.AddNode([]float64{5}, 0)
	require.NoError(t, err)
	_, err = fg.AddArcToSource(a, []float64{1})
	require.NoError(t, err)
	_, err = fg.AddArcToTarget(a, []float64{1})
	require.NoError(t, err)

	result, err := tracking.MaxFlowMinCostTracking(fg, tracking.Options{InitialEnergy: 100, UseOrderedBF: true})
	require.NoError(t, err)
	require.InDelta(t, 100.0, result.Energy, 1e-9)
	require.Equal(t, 0, result.IterationsRun)
}

func (s *TrackingSuite) TestDivisionScenario() {
	t := s.T()
	result, err := tracking.MaxFlowMinCostTracking(buildDivisionFlowGraph(t), tracking.Options{InitialEnergy: 0, UseOrderedBF: true})
	require.NoError(t, err)
	require.InDelta(t, -9.0, result.Energy, 1e-9)
}

func buildDivisionFlowGraph(t *testing.T) *flowgraph.FlowGraph {
	t.Helper()

	fg := flowgraph.New()
	A, err := fg.AddNode([]float64{-2}, 0)
	require.NoError(t, err)
	B, err := fg.AddNode([]float64{-3}, 1)
	require.NoError(t, err)
	C, err := fg.AddNode([]float64{-3}, 1)
	require.NoError(t, err)

	_, err = fg.AddArc(A, B, []float64{0})
	require.NoError(t, err)
	_, err = fg.AddArc(A, C, []float64{0})
	require.NoError(t, err)
	_, err = fg.AllowMitosis(A, -4)
	require.NoError(t, err)
	_, err = fg.AddArcToSource(A, []float64{1})
	require.NoError(t, err)
	_, err = fg.AddArcToTarget(B, []float64{1})
	require.NoError(t, err)
	_, err = fg.AddArcToTarget(C, []float64{1})
	require.NoError(t, err)

	return fg
}

func (s *TrackingSuite) TestMaxNumPathsBoundExhausted() {
	t := s.T()
	limited, err := tracking.MaxFlowMinCostTracking(buildDivisionFlowGraph(t), tracking.Options{MaxNumPaths: 1, UseOrderedBF: true})
	require.NoError(t, err)
	require.True(t, limited.BoundExhausted)
	require.Equal(t, 1, limited.IterationsRun)

	unlimited, err := tracking.MaxFlowMinCostTracking(buildDivisionFlowGraph(t), tracking.Options{MaxNumPaths: 10, UseOrderedBF: true})
	require.NoError(t, err)
	require.False(t, unlimited.BoundExhausted)
	require.InDelta(t, -9.0, unlimited.Energy, 1e-9)
}

// TestPartialAppearanceForbiddenChoosesMinimumCost gives one detection
// two individually profitable in-arcs (an appearance arc straight into
// it, and a predecessor arc routed through another detection first).
// Both options are attractive on their own, but the detection's own
// capacity admits only one unit, so only the cheaper overall path may
// carry flow.
func (s *TrackingSuite) TestPartialAppearanceForbiddenChoosesMinimumCost() {
	t := s.T()
	fg := flowgraph.New()
	A, err := fg.AddNode([]float64{-1}, 0)
	require.NoError(t, err)
	B, err := fg.AddNode([]float64{-3}, 1)
	require.NoError(t, err)

	predArc, err := fg.AddArc(A, B, []float64{-10})
	require.NoError(t, err)
	_, err = fg.AddArcToSource(A, []float64{1})
	require.NoError(t, err)
	directAppearance, err := fg.AddArcToSource(B, []float64{-8})
	require.NoError(t, err)
	_, err = fg.AddArcToTarget(B, []float64{1})
	require.NoError(t, err)

	result, err := tracking.MaxFlowMinCostTracking(fg, tracking.Options{UseOrderedBF: true})
	require.NoError(t, err)
	require.Equal(t, 1, result.IterationsRun)
	require.InDelta(t, -12.0, result.Energy, 1e-9) // cheaper than the -10 direct-appearance-only path

	predFlow, err := fg.Store().Flow(predArc)
	require.NoError(t, err)
	require.Equal(t, 1, predFlow)

	directFlow, err := fg.Store().Flow(directAppearance)
	require.NoError(t, err)
	require.Equal(t, 0, directFlow, "the costlier in-arc must carry no flow once the cheaper one wins")
}

// circulationGraph builds two detections connected by a cycle of
// positive-cost arcs, with one unit of flow already set circulating
// around it, modelling a suboptimal assignment reached by some prior
// process. The cycle's cost can only be cancelled by traversing it in
// reverse, which requires backward residual arcs to participate in the
// search.
type circulationGraph struct {
	fg                   *flowgraph.FlowGraph
	pInternal, qInternal graphstore.ArcID
	ringPQ, ringQP, appP graphstore.ArcID
}

func buildCirculationGraph(t *testing.T) circulationGraph {
	t.Helper()

	fg := flowgraph.New()
	P, err := fg.AddNode([]float64{0, 0}, 0)
	require.NoError(t, err)
	Q, err := fg.AddNode([]float64{0, 0}, 1)
	require.NoError(t, err)

	ringPQ, err := fg.AddArc(P, Q, []float64{2})
	require.NoError(t, err)
	ringQP, err := fg.AddArc(Q, P, []float64{2})
	require.NoError(t, err)
	appP, err := fg.AddArcToSource(P, []float64{0, 0})
	require.NoError(t, err)
	_, err = fg.AddTarget()
	require.NoError(t, err)

	store := fg.Store()
	pOut, err := store.OutArcs(P.U)
	require.NoError(t, err)
	require.Len(t, pOut, 1)
	qOut, err := store.OutArcs(Q.U)
	require.NoError(t, err)
	require.Len(t, qOut, 1)
	pInternal, qInternal := pOut[0], qOut[0]

	// Stage one unit already circulating source->P->Q->P, as if reached by
	// some earlier assignment; nothing here enforces flow conservation on
	// this synthetic starting state, only the residual mechanics that
	// follow from it.
	for _, id := range []graphstore.ArcID{appP, pInternal, ringPQ, qInternal, ringQP} {
		require.NoError(t, store.SetFlow(id, 1))
	}

	return circulationGraph{fg: fg, pInternal: pInternal, qInternal: qInternal, ringPQ: ringPQ, ringQP: ringQP, appP: appP}
}

func (s *TrackingSuite) TestBackArcCycleCancellationImprovesEnergy() {
	t := s.T()
	g := buildCirculationGraph(t)

	result, err := tracking.MaxFlowMinCostTracking(g.fg, tracking.Options{UseBackArcs: true, UseOrderedBF: true})
	require.NoError(t, err)
	require.Equal(t, 1, result.IterationsRun)
	require.InDelta(t, -4.0, result.Energy, 1e-9)

	ringPQFlow, err := g.fg.Store().Flow(g.ringPQ)
	require.NoError(t, err)
	require.Equal(t, 0, ringPQFlow, "the cycle must be unwound once cancelled")

	ringQPFlow, err := g.fg.Store().Flow(g.ringQP)
	require.NoError(t, err)
	require.Equal(t, 0, ringQPFlow)
}

func (s *TrackingSuite) TestBackArcCycleCancellationSkippedWithoutBackArcs() {
	t := s.T()
	g := buildCirculationGraph(t)

	result, err := tracking.MaxFlowMinCostTracking(g.fg, tracking.Options{UseBackArcs: false, UseOrderedBF: true})
	require.NoError(t, err)
	require.Equal(t, 0, result.IterationsRun)
	require.InDelta(t, 0.0, result.Energy, 1e-9)

	ringPQFlow, err := g.fg.Store().Flow(g.ringPQ)
	require.NoError(t, err)
	require.Equal(t, 1, ringPQFlow, "the suboptimal circulation is left in place without back arcs")
}

func (s *TrackingSuite) TestIdempotentReSolveAfterReset() {
	t := s.T()
	fg := flowgraph.New()
	A, err := fg.AddNode([]float64{-3}, 0)
	require.NoError(t, err)
	B, err := fg.AddNode([]float64{-4}, 1)
	require.NoError(t, err)
	_, err = fg.AddArc(A, B, []float64{0})
	require.NoError(t, err)
	_, err = fg.AddArcToSource(A, []float64{1})
	require.NoError(t, err)
	_, err = fg.AddArcToTarget(B, []float64{1})
	require.NoError(t, err)

	first, err := tracking.MaxFlowMinCostTracking(fg, tracking.Options{UseOrderedBF: true})
	require.NoError(t, err)
	firstFlows := flowSnapshot(t, fg.Store())

	fg.Store().ResetFlows()

	second, err := tracking.MaxFlowMinCostTracking(fg, tracking.Options{UseOrderedBF: true})
	require.NoError(t, err)
	secondFlows := flowSnapshot(t, fg.Store())

	require.InDelta(t, first.Energy, second.Energy, 1e-9)
	if diff := cmp.Diff(firstFlows, secondFlows); diff != "" {
		t.Errorf("flow assignment changed across reset-and-resolve (-first +second):\n%s", diff)
	}
}
