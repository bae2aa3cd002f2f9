package shelf

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/hotshelf/backend/internal/catalog"
	"github.com/hotshelf/backend/internal/identity"
	"github.com/hotshelf/backend/internal/infrastructure/logging"
	"github.com/hotshelf/backend/internal/infrastructure/monitoring"
	"github.com/hotshelf/backend/internal/ranking"
	"github.com/hotshelf/backend/internal/shared/types"
	"github.com/hotshelf/backend/internal/store"
)

// enabledKey persists the "authorized to show predictions" flag.
const enabledKey = "predictions_enabled"

// AutoEnablePolicy decides whether to opt the user into predictions without
// explicit onboarding. Peripheral policy, injected rather than embedded.
type AutoEnablePolicy interface {
	ShouldAutoEnable(occupiedSlots, firstPageItems, capacity int) bool
}

// ThresholdPolicy enables predictions for users whose shelf is already full
// and who keep more than MinItems across shelf and first page.
type ThresholdPolicy struct {
	MinItems int
}

// ShouldAutoEnable implements AutoEnablePolicy.
func (p ThresholdPolicy) ShouldAutoEnable(occupiedSlots, firstPageItems, capacity int) bool {
	return capacity > 0 && occupiedSlots == capacity && occupiedSlots+firstPageItems > p.MinItems
}

// DragInfo describes a starting drag gesture.
type DragInfo struct {
	Item   types.ResolvedItem
	Origin types.Location
}

// dragSession is the transient state spanning one drag gesture.
type dragSession struct {
	item   types.ResolvedItem
	origin types.Location
}

// pendingPass is the one deferred reconciliation request allowed while slot
// removals are in flight. New requests collapse into it.
type pendingPass struct {
	animate bool
	done    func()
}

// Options bundles the controller's collaborators.
type Options struct {
	Surface      *Surface
	Materializer *catalog.Materializer
	Client       ranking.Client // nil runs degraded: no predictions requested
	Store        store.Store
	Cache        *store.PredictionCache
	Policy       AutoEnablePolicy // nil disables auto-enable
	SurfaceName  string
	Logger       *logging.Logger
	Metrics      *monitoring.Metrics
}

// Controller owns all shelf state and reconciles it against the ranking
// service's output while honoring user actions.
//
// Every exported method except Post and Run is loop-confined: transports
// marshal onto the owner loop via Post. The loop is the single writer for
// the surface, the gate, and the candidate list, so no locking is needed.
type Controller struct {
	surface      *Surface
	gate         *Gate
	reconciler   *Reconciler
	materializer *catalog.Materializer
	client       ranking.Client
	store        store.Store
	cache        *store.PredictionCache
	policy       AutoEnablePolicy
	surfaceName  string
	log          *logging.Logger
	metrics      *monitoring.Metrics

	loop       chan func()
	uiAttached func() bool

	keys       []types.StableKey // current ranked list, uncapped
	spots      int               // predicted slots filled by the last pass
	drag       *dragSession
	pending    *pendingPass
	cacheDirty bool
	firstPage  []types.Item // host-reported first workspace page
}

// New creates a controller. Call Start once, then Run on a dedicated
// goroutine.
func New(opts Options) *Controller {
	c := &Controller{
		surface:      opts.Surface,
		gate:         NewGate(),
		materializer: opts.Materializer,
		client:       opts.Client,
		store:        opts.Store,
		cache:        opts.Cache,
		policy:       opts.Policy,
		surfaceName:  opts.SurfaceName,
		log:          opts.Logger,
		metrics:      opts.Metrics,
		loop:         make(chan func(), 128),
	}
	c.reconciler = NewReconciler(opts.Surface, opts.Logger)
	return c
}

// Post marshals fn onto the owner loop. Events are applied in the order
// they were posted.
func (c *Controller) Post(fn func()) {
	c.loop <- fn
}

// Run drains the owner loop until the context is canceled.
func (c *Controller) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-c.loop:
			fn()
		}
	}
}

// SetUIAttached registers the probe telling the controller whether a shelf
// UI is connected. Without one, removal animations complete immediately.
func (c *Controller) SetUIAttached(fn func() bool) {
	c.uiAttached = fn
}

// Start restores persisted state and opens the ranking session. Must run
// before Run begins draining external events.
func (c *Controller) Start(ctx context.Context) {
	if v, err := c.store.ReadString(enabledKey); err == nil && v == "true" {
		c.gate.Authorize()
	}

	// Cold start: show the last applied list until the service delivers.
	c.keys = c.cache.Load()
	c.fillGaps(false, nil)

	c.recreateSession(ctx)
}

// Shutdown tears down the ranking session.
func (c *Controller) Shutdown() {
	if c.client != nil {
		_ = c.client.Close()
	}
}

// OnPredictionsUpdated applies a freshly delivered ranked list.
func (c *Controller) OnPredictionsUpdated(keys []types.StableKey) {
	c.metrics.PredictionUpdates.Inc()
	c.keys = slices.Clone(keys)

	if ce := c.log.Check(zap.DebugLevel, "predictions updated"); ce != nil {
		serialized := make([]string, len(keys))
		for i, k := range keys {
			serialized[i] = k.String()
		}
		ce.Write(zap.Strings("keys", serialized))
	}

	// An empty delivery invalidates the cache unconditionally.
	if len(keys) == 0 {
		c.cacheDirty = true
	}
	c.fillGaps(false, nil)
	c.maybeWriteCache()
}

// OnCatalogChanged re-resolves and re-applies the current ranked list.
func (c *Controller) OnCatalogChanged() {
	c.fillGaps(false, nil)
}

// OnCapacityChanged rebuilds the surface for a new device profile. All
// predicted content is discarded and the ranking session is recreated.
func (c *Controller) OnCapacityChanged(capacity, columns int) {
	c.gate.BeginRebuild()
	c.pending = nil
	c.drag = nil
	c.gate.EndDrag()
	c.surface.Rebuild(capacity, columns)
	c.gate.EndRebuild()

	c.recreateSession(context.Background())
}

// Pause suspends or resumes prediction updates; resuming immediately runs
// one reconciliation pass.
func (c *Controller) Pause(paused bool) {
	c.gate.SetPaused(paused)
	if !paused {
		c.fillGaps(false, nil)
	}
}

// Enable authorizes predictions for display and persists the decision.
func (c *Controller) Enable() {
	if !c.gate.Authorize() {
		return
	}
	if err := c.store.WriteString(enabledKey, "true"); err != nil {
		c.log.Warn("failed to persist enable flag", zap.Error(err))
	}
	c.fillGaps(false, nil)
}

// SyncLayout replaces the host-reported user layout: explicitly placed
// shelf items and the first workspace page. Runs the auto-enable check,
// then reconciles around the new occupancy.
func (c *Controller) SyncLayout(shelfItems []types.Item, firstPage []types.Item) {
	for _, item := range shelfItems {
		rank := item.Location.Cell.Y*c.surface.columns + item.Location.Cell.X
		c.surface.SetUserOwned(rank, c.resolveUserItem(item))
	}
	c.firstPage = slices.Clone(firstPage)

	c.maybeAutoEnable()
	c.fillGaps(false, nil)
}

// PlaceUserItem records an explicit user placement at one slot.
func (c *Controller) PlaceUserItem(rank int, item types.Item) error {
	if !c.surface.SetUserOwned(rank, c.resolveUserItem(item)) {
		return fmt.Errorf("slot %d out of range", rank)
	}
	return nil
}

// Pin converts the predicted slot at rank into a user-owned one and
// notifies the ranking service. The next pass will not re-predict there.
func (c *Controller) Pin(rank int) error {
	item, ok := c.surface.Pin(rank)
	if !ok {
		return fmt.Errorf("no pinnable prediction at slot %d", rank)
	}

	loc := types.Location{
		Region: types.RegionHotseat,
		Cell:   c.surface.CellOf(rank),
		SpanX:  1,
		SpanY:  1,
	}
	c.notify(identity.TargetFromKey(item.Key), ranking.ActionPin, loc)
	c.cacheDirty = true
	return nil
}

// OnDragStart opens the drag session and suppresses predictions: every
// predicted slot except the one holding the dragged item is removed, with
// outline placeholders recorded for restoration.
func (c *Controller) OnDragStart(info DragInfo) {
	if !c.gate.BeginDrag() {
		return
	}
	c.drag = &dragSession{item: info.Item, origin: info.Origin}

	c.surface.ClearOutlines()
	var toRemove []int
	var outlines []types.Cell
	for _, rank := range c.surface.PredictedRanks() {
		slot := c.surface.At(rank)
		if !slot.Enabled || slot.Item.Key == info.Item.Key {
			continue
		}
		toRemove = append(toRemove, rank)
		outlines = append(outlines, c.surface.CellOf(rank))
	}
	c.surface.BeginRemovals(toRemove)
	c.surface.SetOutlines(outlines)

	// Without a UI there is no removal animation to wait for.
	if c.uiAttached == nil || !c.uiAttached() {
		c.surface.CompleteRemovals()
	}
}

// OnDragEnd closes the drag session, reports any region transition of the
// dragged item, and restores predictions with an animated pass that clears
// the outline placeholders when it applies.
func (c *Controller) OnDragEnd(final types.Location) {
	if c.drag == nil {
		return
	}
	session := c.drag
	c.drag = nil
	c.gate.EndDrag()

	item := session.item
	if item.Kind == types.KindApplication && !item.Key.IsZero() {
		target := identity.TargetFromKey(item.Key)
		origin := session.origin

		if origin.InHotseat() && !final.InHotseat() && !c.pinnedInHotseat(item.Key) {
			c.notify(target, ranking.ActionUnpin, origin)
		}
		if origin.InFirstPage() && !final.InFirstPage() && !c.onFirstPage(item.Key) {
			c.notify(target, ranking.ActionUnpin, origin)
		}
		if final.InHotseat() && !origin.InHotseat() {
			c.notify(target, ranking.ActionPin, final)
		}
		if final.InFirstPage() && !origin.InFirstPage() {
			c.notify(target, ranking.ActionPin, final)
		}
	}

	c.cacheDirty = true
	c.fillGaps(true, c.surface.ClearOutlines)
}

// OnRemovalsComplete is posted when the UI finishes its removal animation.
func (c *Controller) OnRemovalsComplete() {
	c.surface.CompleteRemovals()
}

// FolderCreatedFromItem reports the unpin of an app that was absorbed into
// a newly created folder.
func (c *Controller) FolderCreatedFromItem(item types.Item, folder types.Item) {
	if item.Kind != types.KindApplication {
		return
	}
	key, ok := identity.FromItem(item)
	if !ok {
		return
	}
	target, _ := identity.TargetFromItem(item)

	if folder.Location.InHotseat() && !c.pinnedInHotseat(key) {
		c.notify(target, ranking.ActionUnpin, folder.Location)
	} else if folder.Location.InFirstPage() && !c.onFirstPage(key) {
		c.notify(target, ranking.ActionUnpin, folder.Location)
	}
}

// FolderDissolvedToItem reports the pin of the last app left when a folder
// dissolves back into a plain item.
func (c *Controller) FolderDissolvedToItem(item types.Item) {
	if item.Kind != types.KindApplication {
		return
	}
	target, ok := identity.TargetFromItem(item)
	if !ok {
		return
	}

	if item.Location.InHotseat() || item.Location.InFirstPage() {
		c.notify(target, ranking.ActionPin, item.Location)
	}
}

// RankOf returns the position of a key in the current ranked list.
func (c *Controller) RankOf(key types.StableKey) (int, bool) {
	for i, k := range c.keys {
		if k == key {
			return i, true
		}
	}
	return 0, false
}

// EncodePredictedRank folds the shelf occupancy and an item's rank into a
// single analytics-friendly integer.
func (c *Controller) EncodePredictedRank(key types.StableKey) int {
	encoded := 10000 + c.spots*100
	if rank, ok := c.RankOf(key); ok {
		encoded += rank + 1
	}
	return encoded
}

// Status describes the engine for the control API.
type Status struct {
	Gate           GateState `json:"gate"`
	Capacity       int       `json:"capacity"`
	PredictedSpots int       `json:"predicted_spots"`
	RankedKeys     int       `json:"ranked_keys"`
	Outlines       int       `json:"outlines"`
}

// CurrentStatus reports the engine state.
func (c *Controller) CurrentStatus() Status {
	return Status{
		Gate:           c.gate.State(),
		Capacity:       c.surface.Capacity(),
		PredictedSpots: c.spots,
		RankedKeys:     len(c.keys),
		Outlines:       len(c.surface.Outlines()),
	}
}

// Slots returns a copy of the surface contents.
func (c *Controller) Slots() []Slot {
	return c.surface.Snapshot()
}

// fillGaps runs one reconciliation pass if the gate allows it. While slot
// removals are in flight the pass is deferred instead, queued to run
// exactly once more on completion; repeat requests collapse into the
// queued one, keeping the stronger animate flag and chaining their
// completion callbacks.
func (c *Controller) fillGaps(animate bool, done func()) {
	if !c.gate.CanReconcile() {
		c.metrics.ReconcileBlocked.WithLabelValues(string(c.gate.State())).Inc()
		return
	}

	if c.surface.RemovalInFlight() {
		c.metrics.ReconcileDeferred.Inc()
		if c.pending == nil {
			c.pending = &pendingPass{animate: animate, done: done}
			c.surface.DeferUntilSettled(c.flushPending)
		} else {
			c.pending.animate = c.pending.animate || animate
			if done != nil {
				if prev := c.pending.done; prev != nil {
					c.pending.done = func() {
						prev()
						done()
					}
				} else {
					c.pending.done = done
				}
			}
		}
		return
	}

	candidates, dropped := c.materializer.Resolve(c.keys, c.surface.Capacity())
	result := c.reconciler.Fill(candidates, animate)
	c.spots = result.Spots

	c.metrics.ReconcilePasses.Inc()
	c.metrics.PredictedSpots.Set(float64(result.Spots))
	c.metrics.SlotsAdded.Add(float64(len(result.Added)))
	c.metrics.SlotsRemoved.Add(float64(len(result.Removed)))
	c.metrics.ResolutionDrops.Add(float64(dropped))

	if done != nil {
		done()
	}
}

func (c *Controller) flushPending() {
	if c.pending == nil {
		return
	}
	pass := c.pending
	c.pending = nil
	c.fillGaps(pass.animate, pass.done)
}

// maybeWriteCache persists the current ranked list when a pending write was
// marked. Write failures are logged and not retried.
func (c *Controller) maybeWriteCache() {
	if !c.cacheDirty {
		return
	}
	c.cacheDirty = false

	if err := c.cache.Save(c.keys); err != nil {
		c.metrics.CacheWriteErrors.Inc()
		c.log.Warn("failed to write prediction cache", zap.Error(err))
		return
	}
	c.metrics.CacheWrites.Inc()
}

func (c *Controller) maybeAutoEnable() {
	if c.gate.Authorized() || c.policy == nil {
		return
	}
	occupied := 0
	for _, slot := range c.surface.Snapshot() {
		if slot.State != SlotEmpty {
			occupied++
		}
	}
	if c.policy.ShouldAutoEnable(occupied, len(c.firstPage), c.surface.Capacity()) {
		c.log.Info("auto-enabling predictions",
			zap.Int("occupied", occupied),
			zap.Int("first_page", len(c.firstPage)))
		c.Enable()
	}
}

// recreateSession opens (or replaces) the ranking session with a snapshot
// of the current pinned layout. Failure leaves the engine in degraded
// mode: prior predictions stay on screen and no new ones arrive.
func (c *Controller) recreateSession(ctx context.Context) {
	if c.client == nil {
		return
	}
	if err := c.client.CreateSession(ctx, c.sessionContext()); err != nil {
		c.log.Warn("ranking session unavailable, running degraded", zap.Error(err))
		return
	}
	c.client.RequestUpdate()
}

// sessionContext snapshots pinned targets and synthetic pin events for the
// hotseat and first workspace page.
func (c *Controller) sessionContext() ranking.SessionContext {
	sc := ranking.SessionContext{
		Surface:     c.surfaceName,
		TargetCount: c.surface.Capacity(),
	}

	for rank, slot := range c.surface.Snapshot() {
		if slot.State != SlotUserOwned {
			continue
		}
		target := identity.BlockTarget()
		if !slot.Item.Key.IsZero() {
			target = identity.TargetFromKey(slot.Item.Key)
			sc.Pinned = append(sc.Pinned, target)
		}
		loc := types.Location{
			Region: types.RegionHotseat,
			Cell:   c.surface.CellOf(rank),
			SpanX:  1,
			SpanY:  1,
		}
		sc.PinEvents = append(sc.PinEvents, ranking.Event{
			Target:   target,
			Action:   ranking.ActionPin,
			Location: loc.Descriptor(),
		})
	}

	for _, item := range c.firstPage {
		target, ok := identity.TargetFromItem(item)
		if !ok {
			target = identity.BlockTarget()
		} else if item.Kind == types.KindApplication {
			sc.Pinned = append(sc.Pinned, target)
		}
		sc.PinEvents = append(sc.PinEvents, ranking.Event{
			Target:   target,
			Action:   ranking.ActionPin,
			Location: item.Location.Descriptor(),
		})
	}
	return sc
}

func (c *Controller) notify(target identity.Target, action ranking.Action, loc types.Location) {
	if c.client == nil {
		return
	}
	c.client.NotifyEvent(ranking.Event{
		Target:   target,
		Action:   action,
		Location: loc.Descriptor(),
	})
	c.metrics.Notifications.WithLabelValues(string(action)).Inc()
}

func (c *Controller) pinnedInHotseat(key types.StableKey) bool {
	for _, slot := range c.surface.Snapshot() {
		if slot.State == SlotUserOwned && slot.Item.Key == key {
			return true
		}
	}
	return false
}

func (c *Controller) onFirstPage(key types.StableKey) bool {
	for _, item := range c.firstPage {
		if k, ok := identity.FromItem(item); ok && k == key {
			return true
		}
	}
	return false
}

func (c *Controller) resolveUserItem(item types.Item) types.ResolvedItem {
	key, _ := identity.FromItem(item)
	return types.ResolvedItem{
		Key:   key,
		Kind:  item.Kind,
		Label: item.Label,
	}
}
