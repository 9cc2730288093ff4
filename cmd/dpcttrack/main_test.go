package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tomldh/dpct/cmd/dpcttrack/internal/graphio"
)

const singleCellGraph = `{
  "detections": [
    {"id": "A", "timestep": 0, "intermediate_costs": [-5], "appearance_costs": [1], "disappearance_costs": [1]}
  ]
}`

func TestRunSolvesSingleCellGraph(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.json")
	out := filepath.Join(dir, "out.json")
	require.NoError(t, os.WriteFile(in, []byte(singleCellGraph), 0o644))

	code := run([]string{"-input", in, "-output", out})
	require.Equal(t, exitOK, code)

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var result graphio.SolveOutput
	require.NoError(t, json.Unmarshal(data, &result))
	require.InDelta(t, -3.0, result.Energy, 1e-9)
	require.Len(t, result.Flows, 3)
}

func TestRunReportsConstructionErrorOnMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.json")
	require.NoError(t, os.WriteFile(in, []byte("not json"), 0o644))

	code := run([]string{"-input", in})
	require.Equal(t, exitConstructed, code)
}

func TestRunReportsUsageErrorOnMissingInput(t *testing.T) {
	code := run([]string{"-input", "/nonexistent/path.json"})
	require.Equal(t, exitUsage, code)
}
