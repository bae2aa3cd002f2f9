package shelf

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hotshelf/backend/internal/shared/types"
)

// recorder captures surface events for assertions.
type recorder struct {
	added         []int
	animated      []int
	updated       []int
	removeStarted []int
	removed       []int
	pinned        []int
	outlines      [][]types.Cell
	resets        []int
}

func (r *recorder) SlotAdded(rank int, _ types.ResolvedItem, animate bool) {
	r.added = append(r.added, rank)
	if animate {
		r.animated = append(r.animated, rank)
	}
}
func (r *recorder) SlotUpdated(rank int, _ types.ResolvedItem) {
	r.updated = append(r.updated, rank)
}

func (r *recorder) SlotRemoveStarted(rank int, _ types.ResolvedItem) {
	r.removeStarted = append(r.removeStarted, rank)
}

func (r *recorder) SlotRemoved(rank int) {
	r.removed = append(r.removed, rank)
}

func (r *recorder) SlotPinned(rank int, _ types.ResolvedItem) {
	r.pinned = append(r.pinned, rank)
}

func (r *recorder) OutlinesChanged(cells []types.Cell) {
	r.outlines = append(r.outlines, cells)
}

func (r *recorder) SurfaceReset(capacity int) {
	r.resets = append(r.resets, capacity)
}

func resolved(component string) types.ResolvedItem {
	return types.ResolvedItem{
		Key:   types.StableKey{Component: component, User: "0"},
		Kind:  types.KindApplication,
		Label: component,
	}
}

func TestSurfaceCellOf(t *testing.T) {
	s := NewSurface(10, 5, nil)
	assert.Equal(t, types.Cell{X: 0, Y: 0}, s.CellOf(0))
	assert.Equal(t, types.Cell{X: 4, Y: 0}, s.CellOf(4))
	assert.Equal(t, types.Cell{X: 2, Y: 1}, s.CellOf(7))
}

func TestSurfacePlaceAndUpdate(t *testing.T) {
	rec := &recorder{}
	s := NewSurface(5, 5, rec)

	s.PlacePredicted(1, resolved("a"), 0, true)
	slot := s.At(1)
	assert.Equal(t, SlotPredicted, slot.State)
	assert.Equal(t, 0, slot.Item.Rank)
	assert.Equal(t, types.Cell{X: 1}, slot.Item.Cell)
	assert.Equal(t, []int{1}, rec.animated)

	s.UpdatePredicted(1, resolved("a"), 2)
	assert.Equal(t, 2, s.At(1).Item.Rank)
	assert.Equal(t, []int{1}, rec.updated)

	// Updating a non-predicted slot is a no-op.
	s.UpdatePredicted(0, resolved("b"), 0)
	assert.Equal(t, SlotEmpty, s.At(0).State)
}

func TestSurfacePinOnlyPredictedEnabled(t *testing.T) {
	rec := &recorder{}
	s := NewSurface(5, 5, rec)

	_, ok := s.Pin(0)
	assert.False(t, ok, "empty slot must not pin")

	s.PlacePredicted(1, resolved("a"), 0, false)
	item, ok := s.Pin(1)
	assert.True(t, ok)
	assert.Equal(t, "a", item.Label)
	assert.Equal(t, SlotUserOwned, s.At(1).State)
	assert.Equal(t, []int{1}, rec.pinned)

	// Already user-owned; a second pin must fail.
	_, ok = s.Pin(1)
	assert.False(t, ok)

	// A slot mid-removal is not pinnable.
	s.PlacePredicted(2, resolved("b"), 1, false)
	s.BeginRemovals([]int{2})
	_, ok = s.Pin(2)
	assert.False(t, ok)
}

func TestSurfaceRemovalLifecycle(t *testing.T) {
	rec := &recorder{}
	s := NewSurface(5, 5, rec)
	s.PlacePredicted(0, resolved("a"), 0, false)
	s.PlacePredicted(1, resolved("b"), 1, false)

	s.BeginRemovals([]int{0, 1})
	assert.True(t, s.RemovalInFlight())
	assert.Equal(t, []int{0, 1}, rec.removeStarted)
	assert.False(t, s.At(0).Enabled)

	settled := false
	s.DeferUntilSettled(func() { settled = true })

	s.CompleteRemovals()
	assert.False(t, s.RemovalInFlight())
	assert.True(t, settled)
	assert.Equal(t, SlotEmpty, s.At(0).State)
	assert.Len(t, rec.removed, 2)

	// Continuation is one-shot.
	settled = false
	s.PlacePredicted(0, resolved("c"), 0, false)
	s.BeginRemovals([]int{0})
	s.CompleteRemovals()
	assert.False(t, settled)
}

func TestSurfaceUserPlacementCancelsPendingRemoval(t *testing.T) {
	s := NewSurface(5, 5, nil)
	s.PlacePredicted(0, resolved("a"), 0, false)
	s.BeginRemovals([]int{0})

	s.SetUserOwned(0, resolved("user"))
	s.CompleteRemovals()
	assert.Equal(t, SlotUserOwned, s.At(0).State)
}

func TestSurfaceUserPlacementsDrainPendingAndSettle(t *testing.T) {
	s := NewSurface(5, 5, nil)
	s.PlacePredicted(0, resolved("a"), 0, false)
	s.PlacePredicted(2, resolved("b"), 1, false)
	s.BeginRemovals([]int{0, 2})

	settled := 0
	s.DeferUntilSettled(func() { settled++ })

	s.SetUserOwned(0, resolved("u1"))
	assert.Zero(t, settled, "continuation must wait for the last pending slot")
	assert.True(t, s.RemovalInFlight())

	s.SetUserOwned(2, resolved("u2"))
	assert.Equal(t, 1, settled)
	assert.False(t, s.RemovalInFlight())

	// A late acknowledgement has nothing left to do.
	s.CompleteRemovals()
	assert.Equal(t, 1, settled)
}

func TestSurfaceClearDrainsPendingAndSettles(t *testing.T) {
	s := NewSurface(5, 5, nil)
	s.PlacePredicted(1, resolved("a"), 0, false)
	s.BeginRemovals([]int{1})

	settled := false
	s.DeferUntilSettled(func() { settled = true })

	s.Clear(1)
	assert.True(t, settled)
	assert.False(t, s.RemovalInFlight())
}

func TestSurfaceRebuildDiscardsEverything(t *testing.T) {
	rec := &recorder{}
	s := NewSurface(5, 5, rec)
	s.PlacePredicted(0, resolved("a"), 0, false)
	s.BeginRemovals([]int{0})
	s.SetOutlines([]types.Cell{{X: 0}})
	s.DeferUntilSettled(func() { t.Fatal("continuation must not survive a rebuild") })

	s.Rebuild(7, 7)
	assert.Equal(t, 7, s.Capacity())
	assert.False(t, s.RemovalInFlight())
	assert.Empty(t, s.Outlines())
	assert.Equal(t, []int{7}, rec.resets)

	s.CompleteRemovals()
}

func TestSurfaceOutlines(t *testing.T) {
	rec := &recorder{}
	s := NewSurface(5, 5, rec)

	s.SetOutlines([]types.Cell{{X: 1}, {X: 2}})
	assert.Len(t, s.Outlines(), 2)

	s.ClearOutlines()
	assert.Empty(t, s.Outlines())
	// Clearing again emits nothing.
	s.ClearOutlines()
	assert.Len(t, rec.outlines, 2)
}

func TestSurfaceOutlinesReturnsCopy(t *testing.T) {
	s := NewSurface(5, 5, nil)
	s.SetOutlines([]types.Cell{{X: 1}, {X: 2}})

	got := s.Outlines()
	got[0] = types.Cell{X: 9}
	assert.Equal(t, types.Cell{X: 1}, s.Outlines()[0])
}
