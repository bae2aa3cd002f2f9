package shelf

import (
	"github.com/hotshelf/backend/internal/shared/types"
)

// SlotState classifies the content of one shelf slot.
type SlotState int

const (
	SlotEmpty SlotState = iota
	SlotUserOwned
	SlotPredicted
)

func (s SlotState) String() string {
	switch s {
	case SlotUserOwned:
		return "user"
	case SlotPredicted:
		return "predicted"
	default:
		return "empty"
	}
}

// Slot is one fixed position on the shelf. Item is meaningful unless the
// state is SlotEmpty. Enabled is false while a removal animation is in
// flight for the slot.
type Slot struct {
	State   SlotState
	Item    types.ResolvedItem
	Enabled bool
}

// Listener observes surface mutations. The ws bridge implements it to
// stream slot ops to the UI; tests implement it to record them.
type Listener interface {
	SlotAdded(rank int, item types.ResolvedItem, animate bool)
	SlotUpdated(rank int, item types.ResolvedItem)
	SlotRemoveStarted(rank int, item types.ResolvedItem)
	SlotRemoved(rank int)
	SlotPinned(rank int, item types.ResolvedItem)
	OutlinesChanged(cells []types.Cell)
	SurfaceReset(capacity int)
}

// NopListener discards all surface events.
type NopListener struct{}

func (NopListener) SlotAdded(int, types.ResolvedItem, bool) {}
func (NopListener) SlotUpdated(int, types.ResolvedItem) {}
func (NopListener) SlotRemoveStarted(int, types.ResolvedItem) {}
func (NopListener) SlotRemoved(int) {}
func (NopListener) SlotPinned(int, types.ResolvedItem) {}
func (NopListener) OutlinesChanged([]types.Cell) {}
func (NopListener) SurfaceReset(int) {}

// Surface is the fixed-capacity slot grid. It is loop-confined: every
// method must run on the controller's owner goroutine.
type Surface struct {
	columns   int
	slots     []Slot
	outlines  []types.Cell
	pending   map[int]struct{}
	onSettled func()
	listener  Listener
}

// NewSurface creates an empty surface.
func NewSurface(capacity, columns int, listener Listener) *Surface {
	if listener == nil {
		listener = NopListener{}
	}
	if columns <= 0 {
		columns = capacity
	}
	return &Surface{
		columns:  columns,
		slots:    make([]Slot, capacity),
		pending:  make(map[int]struct{}),
		listener: listener,
	}
}

// Capacity returns the number of slots.
func (s *Surface) Capacity() int {
	return len(s.slots)
}

// CellOf maps a slot index to its grid coordinate.
func (s *Surface) CellOf(rank int) types.Cell {
	return types.Cell{X: rank % s.columns, Y: rank / s.columns}
}

// At returns a copy of the slot at the given index, or an empty slot when
// the index is out of range.
func (s *Surface) At(rank int) Slot {
	if rank < 0 || rank >= len(s.slots) {
		return Slot{}
	}
	return s.slots[rank]
}

// SetUserOwned places a user item at a slot, overwriting whatever was
// there. Cancels any pending removal for the slot; if it was the last one,
// the settled continuation runs. Returns false for out-of-range indexes.
func (s *Surface) SetUserOwned(rank int, item types.ResolvedItem) bool {
	if rank < 0 || rank >= len(s.slots) {
		return false
	}
	item.Cell = s.CellOf(rank)
	s.slots[rank] = Slot{State: SlotUserOwned, Item: item, Enabled: true}
	s.listener.SlotPinned(rank, item)
	s.cancelPending(rank)
	return true
}

// Clear empties a slot regardless of its state, canceling any pending
// removal for it the same way SetUserOwned does.
func (s *Surface) Clear(rank int) {
	if rank < 0 || rank >= len(s.slots) {
		return
	}
	if s.slots[rank].State != SlotEmpty {
		s.slots[rank] = Slot{}
		s.listener.SlotRemoved(rank)
		s.cancelPending(rank)
	}
}

// cancelPending drops a rank from the pending-removal set. When the set
// empties, the settled continuation fires immediately: the acknowledgement
// it was waiting for no longer refers to anything, and a deferred pass
// must not be stranded behind it.
func (s *Surface) cancelPending(rank int) {
	if _, ok := s.pending[rank]; !ok {
		return
	}
	delete(s.pending, rank)
	if len(s.pending) == 0 {
		s.settle()
	}
}

// PlacePredicted materializes a predicted item at a slot. predictedRank is
// the dense 0-based rank among predictions placed this pass.
func (s *Surface) PlacePredicted(rank int, item types.ResolvedItem, predictedRank int, animate bool) {
	if rank < 0 || rank >= len(s.slots) {
		return
	}
	item.Rank = predictedRank
	item.Cell = s.CellOf(rank)
	s.slots[rank] = Slot{State: SlotPredicted, Item: item, Enabled: true}
	delete(s.pending, rank)
	s.listener.SlotAdded(rank, item, animate)
}

// UpdatePredicted refreshes a predicted slot in place, avoiding a
// remove/add churn when the identity is unchanged.
func (s *Surface) UpdatePredicted(rank int, item types.ResolvedItem, predictedRank int) {
	if rank < 0 || rank >= len(s.slots) || s.slots[rank].State != SlotPredicted {
		return
	}
	item.Rank = predictedRank
	item.Cell = s.CellOf(rank)
	s.slots[rank].Item = item
	s.listener.SlotUpdated(rank, item)
}

// Pin converts a predicted slot to user-owned in place. Returns the pinned
// item and true on success.
func (s *Surface) Pin(rank int) (types.ResolvedItem, bool) {
	if rank < 0 || rank >= len(s.slots) {
		return types.ResolvedItem{}, false
	}
	slot := s.slots[rank]
	if slot.State != SlotPredicted || !slot.Enabled {
		return types.ResolvedItem{}, false
	}
	s.slots[rank].State = SlotUserOwned
	s.listener.SlotPinned(rank, slot.Item)
	return slot.Item, true
}

// BeginRemovals disables the given predicted slots and marks their removal
// as in flight; the slots empty out when CompleteRemovals runs.
func (s *Surface) BeginRemovals(ranks []int) {
	for _, rank := range ranks {
		if rank < 0 || rank >= len(s.slots) || s.slots[rank].State != SlotPredicted {
			continue
		}
		s.slots[rank].Enabled = false
		s.pending[rank] = struct{}{}
		s.listener.SlotRemoveStarted(rank, s.slots[rank].Item)
	}
}

// RemovalInFlight reports whether any removal is pending completion.
func (s *Surface) RemovalInFlight() bool {
	return len(s.pending) > 0
}

// DeferUntilSettled stores the continuation to run once pending removals
// complete. One-shot; a second call overwrites the first.
func (s *Surface) DeferUntilSettled(fn func()) {
	s.onSettled = fn
}

// CompleteRemovals empties every pending slot and fires the stored
// continuation, if any. No-op when nothing is pending.
func (s *Surface) CompleteRemovals() {
	if len(s.pending) == 0 {
		return
	}
	for rank := range s.pending {
		if s.slots[rank].State == SlotPredicted && !s.slots[rank].Enabled {
			s.slots[rank] = Slot{}
			s.listener.SlotRemoved(rank)
		}
	}
	clear(s.pending)
	s.settle()
}

func (s *Surface) settle() {
	settled := s.onSettled
	s.onSettled = nil
	if settled != nil {
		settled()
	}
}

// SetOutlines records drag outline placeholders for removed slots.
func (s *Surface) SetOutlines(cells []types.Cell) {
	s.outlines = cells
	s.listener.OutlinesChanged(cells)
}

// ClearOutlines drops all outline placeholders.
func (s *Surface) ClearOutlines() {
	if len(s.outlines) == 0 {
		return
	}
	s.outlines = nil
	s.listener.OutlinesChanged(nil)
}

// Outlines returns a copy of the current outline placeholders.
func (s *Surface) Outlines() []types.Cell {
	out := make([]types.Cell, len(s.outlines))
	copy(out, s.outlines)
	return out
}

// Rebuild replaces the slot array after a capacity change. All content,
// pending removals, outlines, and the settled continuation are discarded.
func (s *Surface) Rebuild(capacity, columns int) {
	if columns <= 0 {
		columns = capacity
	}
	s.columns = columns
	s.slots = make([]Slot, capacity)
	s.outlines = nil
	s.onSettled = nil
	clear(s.pending)
	s.listener.SurfaceReset(capacity)
}

// PredictedRanks returns the indexes of all predicted slots, in order.
func (s *Surface) PredictedRanks() []int {
	var ranks []int
	for i, slot := range s.slots {
		if slot.State == SlotPredicted {
			ranks = append(ranks, i)
		}
	}
	return ranks
}

// Snapshot returns a copy of all slots for the control API.
func (s *Surface) Snapshot() []Slot {
	out := make([]Slot, len(s.slots))
	copy(out, s.slots)
	return out
}
