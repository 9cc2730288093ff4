package maxflow_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/tomldh/dpct/flowgraph"
	"github.com/tomldh/dpct/maxflow"
)

// MaxflowSuite covers the alternative max-flow-then-min-cost solver
// across every algorithm variant, the division scenario it shares with
// the tracking loop, and its error paths.
type MaxflowSuite struct {
	suite.Suite
}

func TestMaxflowSuite(t *testing.T) {
	suite.Run(t, new(MaxflowSuite))
}

func (s *MaxflowSuite) TestSolveSingleCellAllAlgorithms() {
	t := s.T()
	for _, algo := range []maxflow.Algorithm{maxflow.EdmondsKarp, maxflow.Dinic, maxflow.FordFulkerson} {
		t.Run(algo.String(), func(t *testing.T) {
			fg := flowgraph.New()
			a, err := fg.AddNode([]float64{-5}, 0)
			require.NoError(t, err)
			_, err = fg.AddArcToSource(a, []float64{1})
			require.NoError(t, err)
			_, err = fg.AddArcToTarget(a, []float64{1})
			require.NoError(t, err)

			result, err := maxflow.Solve(fg, maxflow.Options{Algorithm: algo})
			require.NoError(t, err)
			require.Equal(t, 1, result.MaxFlowValue)
			require.InDelta(t, -3.0, result.Energy, 1e-9)
		})
	}
}

func (s *MaxflowSuite) TestSolveNoFeasibleSupply() {
	t := s.T()
	fg := flowgraph.New()
	a, err := fg.AddNode([]float64{5}, 0)
	require.NoError(t, err)
	// No appearance arc: source cannot reach a.U, so max-flow is zero.
	_, err = fg.AddArcToTarget(a, []float64{1})
	require.NoError(t, err)
	_, err = fg.AddTarget()
	require.NoError(t, err)

	result, err := maxflow.Solve(fg, maxflow.Options{})
	require.NoError(t, err)
	require.Equal(t, 0, result.MaxFlowValue)
	require.Equal(t, 0.0, result.Energy)
}

func (s *MaxflowSuite) TestSolveDivisionScenarioMatchesTracking() {
	t := s.T()
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

	result, err := maxflow.Solve(fg, maxflow.Options{Algorithm: maxflow.Dinic})
	require.NoError(t, err)
	require.Equal(t, 2, result.MaxFlowValue)
	require.InDelta(t, -9.0, result.Energy, 1e-9)
}

func (s *MaxflowSuite) TestSolveRejectsGraphWithNoTarget() {
	t := s.T()
	fg := flowgraph.New()
	_, err := fg.AddNode([]float64{-1}, 0)
	require.NoError(t, err)

	_, err = maxflow.Solve(fg, maxflow.Options{})
	require.ErrorIs(t, err, maxflow.ErrNoTarget)
}
