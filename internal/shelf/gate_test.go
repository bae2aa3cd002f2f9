package shelf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGateStartsBlocked(t *testing.T) {
	g := NewGate()
	assert.Equal(t, GateBlocked, g.State())
	assert.False(t, g.CanReconcile())
}

func TestGateAuthorize(t *testing.T) {
	g := NewGate()
	assert.True(t, g.Authorize())
	assert.Equal(t, GateIdle, g.State())
	assert.True(t, g.CanReconcile())

	// Double authorize is a no-op.
	assert.False(t, g.Authorize())
	assert.Equal(t, GateIdle, g.State())
}

func TestGateBlockedShadowsEverything(t *testing.T) {
	g := NewGate()
	g.SetPaused(true)
	g.BeginDrag()
	assert.Equal(t, GateBlocked, g.State())
}

func TestGateDraggingShadowsPaused(t *testing.T) {
	g := NewGate()
	g.Authorize()
	g.SetPaused(true)
	assert.Equal(t, GatePaused, g.State())

	assert.True(t, g.BeginDrag())
	assert.Equal(t, GateDragging, g.State())

	assert.True(t, g.EndDrag())
	assert.Equal(t, GatePaused, g.State())

	g.SetPaused(false)
	assert.Equal(t, GateIdle, g.State())
}

func TestGateSingleDragSession(t *testing.T) {
	g := NewGate()
	g.Authorize()

	assert.True(t, g.BeginDrag())
	assert.False(t, g.BeginDrag())

	assert.True(t, g.EndDrag())
	// Drag-end without an active session is a no-op.
	assert.False(t, g.EndDrag())
	assert.Equal(t, GateIdle, g.State())
}

func TestGateRebuildSuppressesReconcile(t *testing.T) {
	g := NewGate()
	g.Authorize()
	assert.True(t, g.CanReconcile())

	g.BeginRebuild()
	assert.False(t, g.CanReconcile())
	g.EndRebuild()
	assert.True(t, g.CanReconcile())
}
