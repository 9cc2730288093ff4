package graphio_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tomldh/dpct/cmd/dpcttrack/internal/graphio"
)

const singleCellJSON = `{
  "detections": [
    {"id": "A", "timestep": 0, "intermediate_costs": [0], "appearance_costs": [-5], "disappearance_costs": [1]}
  ],
  "arcs": []
}`

func TestDecodeAndBuildSingleCell(t *testing.T) {
	g, err := graphio.Decode(strings.NewReader(singleCellJSON))
	require.NoError(t, err)
	require.Len(t, g.Detections, 1)

	fg, err := graphio.Build(g)
	require.NoError(t, err)
	require.NoError(t, fg.Validate())
	require.Len(t, fg.Targets(), 1)
}

func TestBuildRejectsUnknownArcEndpoint(t *testing.T) {
	g := &graphio.Graph{
		Detections: []graphio.Detection{
			{ID: "A", Timestep: 0, IntermediateCosts: []float64{0}},
		},
		Arcs: []graphio.Arc{
			{Src: "A", Tgt: "ghost", Costs: []float64{0}},
		},
	}

	_, err := graphio.Build(g)
	require.ErrorIs(t, err, graphio.ErrUnknownDetection)
}

func TestBuildRejectsDuplicateDetectionID(t *testing.T) {
	g := &graphio.Graph{
		Detections: []graphio.Detection{
			{ID: "A", Timestep: 0, IntermediateCosts: []float64{0}},
			{ID: "A", Timestep: 1, IntermediateCosts: []float64{0}},
		},
	}

	_, err := graphio.Build(g)
	require.ErrorIs(t, err, graphio.ErrDuplicateDetection)
}

func TestBuildWiresMitosisAfterOutArcs(t *testing.T) {
	g := &graphio.Graph{
		Detections: []graphio.Detection{
			{ID: "A", Timestep: 0, IntermediateCosts: []float64{0}, AppearanceCosts: []float64{-2}},
			{ID: "B", Timestep: 1, IntermediateCosts: []float64{0}, DisappearanceCosts: []float64{1}},
			{ID: "C", Timestep: 1, IntermediateCosts: []float64{0}, DisappearanceCosts: []float64{1}},
		},
		Arcs: []graphio.Arc{
			{Src: "A", Tgt: "B", Costs: []float64{0}},
			{Src: "A", Tgt: "C", Costs: []float64{0}},
		},
		Mitosis: []graphio.Mitosis{
			{Parent: "A", DivisionCost: -4},
		},
	}

	fg, err := graphio.Build(g)
	require.NoError(t, err)
	require.NoError(t, fg.Validate())
}
