package ranking

import (
	"context"

	"github.com/hotshelf/backend/internal/identity"
)

// Action is a region transition kind reported to the ranking service.
type Action string

const (
	ActionPin   Action = "pin"
	ActionUnpin Action = "unpin"
)

// Event is one location transition notification.
type Event struct {
	Target   identity.Target `json:"target"`
	Action   Action          `json:"action"`
	Location string          `json:"location"`
}

// SessionContext is the snapshot handed to the service on session creation:
// the currently pinned targets plus synthetic pin events describing the
// hotseat and first workspace page layout.
type SessionContext struct {
	Surface     string            `json:"surface"`
	TargetCount int               `json:"target_count"`
	Pinned      []identity.Target `json:"pinned"`
	PinEvents   []Event           `json:"pin_events"`
}

// Client is a connection to the ranking service. Ranked lists arrive
// asynchronously via the update callback registered at construction.
type Client interface {
	// CreateSession opens (or replaces) a prediction session.
	CreateSession(ctx context.Context, sc SessionContext) error
	// RequestUpdate asks for a fresh ranked list. Fire-and-forget.
	RequestUpdate()
	// NotifyEvent reports a pin/unpin transition. Fire-and-forget.
	NotifyEvent(ev Event)
	// Close tears down the session; no deliveries happen afterwards.
	Close() error
}
