package shelf

// GateState is the interaction gate's externally visible state.
type GateState string

const (
	GateBlocked  GateState = "blocked"
	GateIdle     GateState = "idle"
	GatePaused   GateState = "paused"
	GateDragging GateState = "dragging"
)

// Gate decides when reconciliation may run. It starts Blocked until the
// host authorizes predictions, and suppresses passes while paused, while a
// drag session is active, and while a capacity rebuild is in progress.
// Unexpected transitions (drag-end without drag-start, double authorize)
// are no-ops; no transition can fail.
type Gate struct {
	authorized bool
	paused     bool
	dragging   bool
	rebuilding bool
}

// NewGate creates a gate in the Blocked state.
func NewGate() *Gate {
	return &Gate{}
}

// State derives the current state. Dragging shadows Paused, both shadow
// Idle, and Blocked shadows everything.
func (g *Gate) State() GateState {
	switch {
	case !g.authorized:
		return GateBlocked
	case g.dragging:
		return GateDragging
	case g.paused:
		return GatePaused
	default:
		return GateIdle
	}
}

// Authorize moves Blocked to Idle. Returns true when the gate transitioned.
func (g *Gate) Authorize() bool {
	if g.authorized {
		return false
	}
	g.authorized = true
	return true
}

// Authorized reports whether predictions may ever be shown.
func (g *Gate) Authorized() bool {
	return g.authorized
}

// SetPaused suspends or resumes prediction updates.
func (g *Gate) SetPaused(paused bool) {
	g.paused = paused
}

// BeginDrag opens the drag session. Returns false when one is already
// active; exactly one session may exist at a time.
func (g *Gate) BeginDrag() bool {
	if g.dragging {
		return false
	}
	g.dragging = true
	return true
}

// EndDrag closes the drag session. Returns false when none was active.
func (g *Gate) EndDrag() bool {
	if !g.dragging {
		return false
	}
	g.dragging = false
	return true
}

// BeginRebuild marks a capacity change in progress.
func (g *Gate) BeginRebuild() {
	g.rebuilding = true
}

// EndRebuild clears the capacity-change guard.
func (g *Gate) EndRebuild() {
	g.rebuilding = false
}

// CanReconcile reports whether a reconciliation pass may run now.
func (g *Gate) CanReconcile() bool {
	return g.authorized && !g.paused && !g.dragging && !g.rebuilding
}
