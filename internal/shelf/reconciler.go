package shelf

import (
	"go.uber.org/zap"

	"github.com/hotshelf/backend/internal/infrastructure/logging"
	"github.com/hotshelf/backend/internal/shared/types"
)

// Result summarizes one reconciliation pass.
type Result struct {
	Added   []int // slot indexes that got a newly materialized prediction
	Updated []int // slot indexes refreshed in place
	Removed []int // slot indexes whose stale prediction was removed
	Spots   int   // candidates consumed == predicted slots filled
}

// Reconciler converges the surface to a ranked candidate list.
type Reconciler struct {
	surface *Surface
	log     *logging.Logger
}

// NewReconciler creates a reconciler over the given surface.
func NewReconciler(surface *Surface, log *logging.Logger) *Reconciler {
	return &Reconciler{surface: surface, log: log}
}

// Fill runs one pass. Candidates must already be resolved and capped to
// capacity. User-owned slots are never touched and never consume a
// candidate. A predicted slot showing the same stable key, and not
// mid-removal, is updated in place; anything else is materialized fresh and
// reported in Added so only new slots animate. The caller must ensure no
// removal is in flight (see Controller.fillGaps).
func (r *Reconciler) Fill(candidates []types.ResolvedItem, animate bool) Result {
	var res Result
	next := 0

	for rank := 0; rank < r.surface.Capacity(); rank++ {
		slot := r.surface.At(rank)
		if slot.State == SlotUserOwned {
			continue
		}
		if next >= len(candidates) {
			// Predictions from the past with no replacement.
			if slot.State == SlotPredicted {
				r.surface.Clear(rank)
				res.Removed = append(res.Removed, rank)
			}
			continue
		}

		item := candidates[next]
		predictedRank := next
		next++

		if slot.State == SlotPredicted && slot.Enabled && slot.Item.Key == item.Key {
			r.surface.UpdatePredicted(rank, item, predictedRank)
			res.Updated = append(res.Updated, rank)
		} else {
			r.surface.PlacePredicted(rank, item, predictedRank, animate)
			res.Added = append(res.Added, rank)
		}
	}

	res.Spots = next
	r.log.Debug("reconciliation pass",
		zap.Int("spots", res.Spots),
		zap.Int("added", len(res.Added)),
		zap.Int("updated", len(res.Updated)),
		zap.Int("removed", len(res.Removed)))
	return res
}
