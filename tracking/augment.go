package tracking

import (
	"fmt"

	"github.com/tomldh/dpct/graphstore"
	"github.com/tomldh/dpct/residual"
	"github.com/tomldh/dpct/shortestpath"
)

// AugmentUnitFlow applies +-1 flow to every arc actually touched by a
// path or cycle, then refreshes both residual arcs of each affected base
// arc. Exported for reuse by maxflow's fixed-supply successive-shortest-
// paths phase, which performs the identical per-step augmentation.
//
// Division coupling (flow(d->w) = min(flow(v->w), 1), flow(v->w) >=
// flow(d->w)) is not forced here by mirroring delta onto an untouched
// sibling arc: a canonical mitosis event sends the mother's own flow to
// one daughter directly (v->w) and the second daughter's flow through
// the duplicate to a different target (d->w'), so forcing flow onto the
// arc sharing w with whichever side was NOT walked would overdraw the
// duplicate's single unit of division flow and break conservation at v
// or d. The coupling invariant is instead certified once, as a finishing
// pass, by the maxflow package's alternative solver — see DESIGN.md.
func AugmentUnitFlow(store *graphstore.GraphStore, rg *residual.Graph, steps []shortestpath.Step) error {
	for _, step := range steps {
		delta := 1
		if step.Dir == residual.Backward {
			delta = -1
		}

		a, err := store.Arc(step.Arc)
		if err != nil {
			return fmt.Errorf("tracking: augmentUnitFlow: %w", err)
		}
		if err := store.SetFlow(step.Arc, a.Flow+delta); err != nil {
			return fmt.Errorf("tracking: AugmentUnitFlow: %w", err)
		}

		if err := rg.Refresh(step.Arc); err != nil {
			return fmt.Errorf("tracking: AugmentUnitFlow: %w", err)
		}
	}

	return nil
}
