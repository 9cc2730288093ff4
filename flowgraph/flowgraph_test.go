package flowgraph_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tomldh/dpct/flowgraph"
)

func TestAddNodeTimesteps(t *testing.T) {
	fg := flowgraph.New()
	full, err := fg.AddNode([]float64{-5}, 0)
	require.NoError(t, err)

	u, err := fg.Store().Node(full.U)
	require.NoError(t, err)
	v, err := fg.Store().Node(full.V)
	require.NoError(t, err)
	require.Equal(t, 1, u.Timestep)
	require.Equal(t, 2, v.Timestep)
}

func TestAddNodeEmptyCosts(t *testing.T) {
	fg := flowgraph.New()
	_, err := fg.AddNode(nil, 0)
	require.ErrorIs(t, err, flowgraph.ErrEmptyCosts)
}

func TestTargetRelabelling(t *testing.T) {
	fg := flowgraph.New()
	a, err := fg.AddNode([]float64{-1}, 0)
	require.NoError(t, err)
	_, err = fg.AddArcToTarget(a, []float64{1})
	require.NoError(t, err)

	targets := fg.Targets()
	require.Len(t, targets, 1)
	tBefore, _ := fg.Store().Node(targets[0])

	// A later detection at a larger timestep must push the target forward.
	_, err = fg.AddNode([]float64{-2}, 5)
	require.NoError(t, err)

	tAfter, _ := fg.Store().Node(targets[0])
	require.Greater(t, tAfter.Timestep, tBefore.Timestep)
}

func TestAllowMitosisBeforeOutArcsFails(t *testing.T) {
	fg := flowgraph.New()
	parent, err := fg.AddNode([]float64{-2}, 0)
	require.NoError(t, err)

	_, err = fg.AllowMitosis(parent, -4)
	require.ErrorIs(t, err, flowgraph.ErrMitosisBeforeOutArcs)
}

func TestAllowMitosisMirrorsOutArcs(t *testing.T) {
	fg := flowgraph.New()
	parent, err := fg.AddNode([]float64{-2}, 0)
	require.NoError(t, err)
	childB, err := fg.AddNode([]float64{-3}, 1)
	require.NoError(t, err)
	childC, err := fg.AddNode([]float64{-3}, 1)
	require.NoError(t, err)

	arcB, err := fg.AddArc(parent, childB, []float64{0})
	require.NoError(t, err)
	_, err = fg.AddArc(parent, childC, []float64{0})
	require.NoError(t, err)
	_, err = fg.AddArcToTarget(parent, []float64{1}) // terminal out-arc, must not be mirrored

	divArc, err := fg.AllowMitosis(parent, -4)
	require.NoError(t, err)
	require.True(t, fg.IsDivision(divArc))

	d, ok := fg.DuplicateOf(parent.V)
	require.True(t, ok)
	out, err := fg.Store().OutArcs(d)
	require.NoError(t, err)
	require.Len(t, out, 2) // only the two non-terminal mirrors

	counterpart, ok := fg.Counterpart(arcB)
	require.True(t, ok)
	ca, err := fg.Store().Arc(counterpart)
	require.NoError(t, err)
	require.Equal(t, d, ca.Src)
	require.Equal(t, childB.U, ca.Tgt)
	require.Equal(t, 1, ca.Capacity())
}

func TestAllowMitosisTwiceFails(t *testing.T) {
	fg := flowgraph.New()
	parent, _ := fg.AddNode([]float64{-2}, 0)
	child, _ := fg.AddNode([]float64{-3}, 1)
	_, _ = fg.AddArc(parent, child, []float64{0})

	_, err := fg.AllowMitosis(parent, -4)
	require.NoError(t, err)
	_, err = fg.AllowMitosis(parent, -4)
	require.ErrorIs(t, err, flowgraph.ErrMitosisAlreadyAllowed)
}

func TestValidate(t *testing.T) {
	fg := flowgraph.New()
	a, err := fg.AddNode([]float64{-1}, 0)
	require.NoError(t, err)
	_, err = fg.AddArcToSource(a, []float64{1})
	require.NoError(t, err)
	_, err = fg.AddArcToTarget(a, []float64{1})
	require.NoError(t, err)

	require.NoError(t, fg.Validate())
}
