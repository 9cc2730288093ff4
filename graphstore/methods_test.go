package graphstore_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tomldh/dpct/graphstore"
)

func TestAddNodeAndArc(t *testing.T) {
	g := graphstore.New()
	u, err := g.AddNode(1, graphstore.RoleDetectionEntry)
	require.NoError(t, err)
	v, err := g.AddNode(2, graphstore.RoleDetectionExit)
	require.NoError(t, err)

	arc, err := g.AddArc(u, v, []float64{-5, -1}, true)
	require.NoError(t, err)

	a, err := g.Arc(arc)
	require.NoError(t, err)
	require.Equal(t, u, a.Src)
	require.Equal(t, v, a.Tgt)
	require.Equal(t, 2, a.Capacity())
	require.True(t, a.Intermediate)
}

func TestAddArcEmptyCosts(t *testing.T) {
	g := graphstore.New()
	u, _ := g.AddNode(0, graphstore.RoleSource)
	v, _ := g.AddNode(1, graphstore.RoleDetectionEntry)
	_, err := g.AddArc(u, v, nil, false)
	require.ErrorIs(t, err, graphstore.ErrEmptyCostVector)
}

func TestAddArcUnknownNode(t *testing.T) {
	g := graphstore.New()
	u, _ := g.AddNode(0, graphstore.RoleSource)
	_, err := g.AddArc(u, 999, []float64{1}, false)
	require.ErrorIs(t, err, graphstore.ErrNodeNotFound)
}

func TestSetFlowBounds(t *testing.T) {
	g := graphstore.New()
	u, _ := g.AddNode(0, graphstore.RoleSource)
	v, _ := g.AddNode(1, graphstore.RoleDetectionEntry)
	arc, _ := g.AddArc(u, v, []float64{1, 2}, false)

	require.NoError(t, g.SetFlow(arc, 2))
	require.ErrorIs(t, g.SetFlow(arc, 3), graphstore.ErrFlowExceedsCapacity)
	require.ErrorIs(t, g.SetFlow(arc, -1), graphstore.ErrNegativeFlow)
}

func TestArcCostBoundary(t *testing.T) {
	g := graphstore.New()
	u, _ := g.AddNode(0, graphstore.RoleSource)
	v, _ := g.AddNode(1, graphstore.RoleDetectionEntry)
	arc, _ := g.AddArc(u, v, []float64{3.5, 1.0}, false)

	c0, _ := g.ArcCost(arc, 0)
	require.Equal(t, 3.5, c0)
	c1, _ := g.ArcCost(arc, 1)
	require.Equal(t, 1.0, c1)
	cHigh, _ := g.ArcCost(arc, 2)
	require.True(t, math.IsInf(cHigh, 1))
	cNeg, _ := g.ArcCost(arc, -1)
	require.True(t, math.IsInf(cNeg, -1))
}

func TestOutInArcsInsertionOrder(t *testing.T) {
	g := graphstore.New()
	u, _ := g.AddNode(0, graphstore.RoleSource)
	a, _ := g.AddNode(1, graphstore.RoleDetectionEntry)
	b, _ := g.AddNode(1, graphstore.RoleDetectionEntry)
	c, _ := g.AddNode(1, graphstore.RoleDetectionEntry)

	arc1, _ := g.AddArc(u, a, []float64{1}, false)
	arc2, _ := g.AddArc(u, b, []float64{1}, false)
	arc3, _ := g.AddArc(u, c, []float64{1}, false)

	out, err := g.OutArcs(u)
	require.NoError(t, err)
	require.Equal(t, []graphstore.ArcID{arc1, arc2, arc3}, out)
}

func TestGraphSolvingLocksConstruction(t *testing.T) {
	g := graphstore.New()
	u, _ := g.AddNode(0, graphstore.RoleSource)

	g.SetSolving(true)
	_, err := g.AddNode(1, graphstore.RoleDetectionEntry)
	require.ErrorIs(t, err, graphstore.ErrGraphSolving)

	g.SetSolving(false)
	v, err := g.AddNode(1, graphstore.RoleDetectionEntry)
	require.NoError(t, err)
	_, err = g.AddArc(u, v, []float64{1}, false)
	require.NoError(t, err)
}

func TestResetFlows(t *testing.T) {
	g := graphstore.New()
	u, _ := g.AddNode(0, graphstore.RoleSource)
	v, _ := g.AddNode(1, graphstore.RoleDetectionEntry)
	arc, _ := g.AddArc(u, v, []float64{1}, false)
	require.NoError(t, g.SetFlow(arc, 1))

	g.ResetFlows()
	f, _ := g.Flow(arc)
	require.Equal(t, 0, f)
}

func TestStats(t *testing.T) {
	g := graphstore.New()
	u, _ := g.AddNode(0, graphstore.RoleSource)
	v, _ := g.AddNode(1, graphstore.RoleDetectionExit)
	arc, _ := g.AddArc(u, v, []float64{1, 1}, true)
	require.NoError(t, g.SetFlow(arc, 1))

	s := g.Stats()
	require.Equal(t, 2, s.NodeCount)
	require.Equal(t, 1, s.ArcCount)
	require.Equal(t, 1, s.IntermediateCount)
	require.Equal(t, 1, s.TotalFlow)
}
