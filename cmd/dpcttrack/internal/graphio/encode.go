package graphio

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tomldh/dpct/graphstore"
)

// EncodeFlows writes every arc of store with non-zero flow to w as a
// SolveOutput document.
func EncodeFlows(w io.Writer, store *graphstore.GraphStore, energy float64, iterations int, boundExhausted bool) error {
	out := SolveOutput{
		Energy:         energy,
		IterationsRun:  iterations,
		BoundExhausted: boundExhausted,
	}

	for _, id := range store.Arcs() {
		a, err := store.Arc(id)
		if err != nil {
			return fmt.Errorf("graphio: encode: %w", err)
		}
		if a.Flow == 0 {
			continue
		}
		out.Flows = append(out.Flows, FlowEntry{
			SrcNode: int64(a.Src),
			TgtNode: int64(a.Tgt),
			Flow:    a.Flow,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(out)
}
