package ws

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/hotshelf/backend/internal/infrastructure/logging"
	"github.com/hotshelf/backend/internal/infrastructure/monitoring"
	"github.com/hotshelf/backend/internal/shared/types"
	"github.com/hotshelf/backend/internal/shelf"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // the shelf UI connects from the host webview
	},
}

// outboundBuffer bounds per-connection queueing; ops past it are dropped
// for that client, which recovers on its next ready message.
const outboundBuffer = 64

type envelope map[string]any

type conn struct {
	id   string
	sock *websocket.Conn

	mu     sync.Mutex
	out    chan envelope
	closed bool
}

// send queues one envelope. Returns false when the connection is gone or
// its buffer is full.
func (cn *conn) send(env envelope) bool {
	cn.mu.Lock()
	defer cn.mu.Unlock()
	if cn.closed {
		return false
	}
	select {
	case cn.out <- env:
		return true
	default:
		return false
	}
}

func (cn *conn) close() {
	cn.mu.Lock()
	defer cn.mu.Unlock()
	if !cn.closed {
		cn.closed = true
		close(cn.out)
	}
}

// message is the inbound frame from a shelf UI.
type message struct {
	Type   string             `json:"type"`
	Item   types.ResolvedItem `json:"item"`
	Origin types.Location     `json:"origin"`
	Final  types.Location     `json:"final"`
}

// Bridge manages shelf UI connections. It is registered as the surface
// listener, so its Listener methods run on the controller's owner loop and
// must never block: writes go through per-connection buffered channels.
type Bridge struct {
	ctrl    *shelf.Controller
	log     *logging.Logger
	metrics *monitoring.Metrics

	mu    sync.RWMutex
	conns map[string]*conn
}

// NewBridge creates a bridge. Wire it to the controller with SetController
// before serving connections.
func NewBridge(log *logging.Logger, metrics *monitoring.Metrics) *Bridge {
	return &Bridge{
		log:     log,
		metrics: metrics,
		conns:   make(map[string]*conn),
	}
}

// SetController wires the controller. Split from the constructor because
// the bridge is also the surface listener the controller is built around.
func (b *Bridge) SetController(ctrl *shelf.Controller) {
	b.ctrl = ctrl
}

// Active reports whether any shelf UI is connected.
func (b *Bridge) Active() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.conns) > 0
}

// HandleConnection upgrades the request and serves one shelf UI until it
// disconnects.
func (b *Bridge) HandleConnection(c *gin.Context) {
	sock, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		b.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	cn := &conn{
		id:   uuid.NewString(),
		sock: sock,
		out:  make(chan envelope, outboundBuffer),
	}
	b.register(cn)
	defer b.unregister(cn)

	go cn.writeLoop()

	cn.send(envelope{"type": "system", "message": "connected to hotshelf"})
	b.readLoop(cn)
}

func (b *Bridge) register(cn *conn) {
	b.mu.Lock()
	b.conns[cn.id] = cn
	b.mu.Unlock()
	b.metrics.WSConnections.Inc()
	b.log.Info("shelf client connected", zap.String("conn", cn.id))
}

func (b *Bridge) unregister(cn *conn) {
	b.mu.Lock()
	delete(b.conns, cn.id)
	b.mu.Unlock()
	cn.close()
	b.metrics.WSConnections.Dec()
	b.log.Info("shelf client disconnected", zap.String("conn", cn.id))
}

func (cn *conn) writeLoop() {
	defer cn.sock.Close()
	for env := range cn.out {
		if err := cn.sock.WriteJSON(env); err != nil {
			return
		}
	}
}

func (b *Bridge) readLoop(cn *conn) {
	for {
		var msg message
		if err := cn.sock.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case "ready":
			b.sendSnapshot(cn)
		case "drag_start":
			info := shelf.DragInfo{Item: msg.Item, Origin: msg.Origin}
			b.ctrl.Post(func() { b.ctrl.OnDragStart(info) })
		case "drag_end":
			final := msg.Final
			b.ctrl.Post(func() { b.ctrl.OnDragEnd(final) })
		case "removed":
			b.ctrl.Post(func() { b.ctrl.OnRemovalsComplete() })
		case "ping":
			b.deliver(cn, envelope{"type": "pong"})
		default:
			b.deliver(cn, envelope{"type": "error", "message": "unknown message type"})
		}
	}
}

// sendSnapshot replays the current grid to one client as ordinary slot ops,
// prefixed by a reset so the client starts from a clean grid.
func (b *Bridge) sendSnapshot(cn *conn) {
	b.ctrl.Post(func() {
		slots := b.ctrl.Slots()
		b.deliver(cn, envelope{"type": "reset", "capacity": len(slots)})
		for rank, slot := range slots {
			switch slot.State {
			case shelf.SlotPredicted:
				b.deliver(cn, envelope{
					"type": "slot_added", "slot": rank,
					"item": slot.Item, "animate": false,
				})
			case shelf.SlotUserOwned:
				b.deliver(cn, envelope{
					"type": "slot_pinned", "slot": rank, "item": slot.Item,
				})
			}
		}
	})
}

func (b *Bridge) deliver(cn *conn, env envelope) {
	if !cn.send(env) {
		b.log.Warn("dropping op for shelf client", zap.String("conn", cn.id))
	}
}

func (b *Bridge) broadcast(env envelope) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, cn := range b.conns {
		b.deliver(cn, env)
	}
}

// SlotAdded implements shelf.Listener.
func (b *Bridge) SlotAdded(rank int, item types.ResolvedItem, animate bool) {
	b.broadcast(envelope{"type": "slot_added", "slot": rank, "item": item, "animate": animate})
}

// SlotUpdated implements shelf.Listener.
func (b *Bridge) SlotUpdated(rank int, item types.ResolvedItem) {
	b.broadcast(envelope{"type": "slot_updated", "slot": rank, "item": item})
}

// SlotRemoveStarted implements shelf.Listener. Clients animate the removal
// and reply with a "removed" acknowledgement.
func (b *Bridge) SlotRemoveStarted(rank int, item types.ResolvedItem) {
	b.broadcast(envelope{"type": "slot_remove_started", "slot": rank, "item": item})
}

// SlotRemoved implements shelf.Listener.
func (b *Bridge) SlotRemoved(rank int) {
	b.broadcast(envelope{"type": "slot_removed", "slot": rank})
}

// SlotPinned implements shelf.Listener.
func (b *Bridge) SlotPinned(rank int, item types.ResolvedItem) {
	b.broadcast(envelope{"type": "slot_pinned", "slot": rank, "item": item})
}

// OutlinesChanged implements shelf.Listener.
func (b *Bridge) OutlinesChanged(cells []types.Cell) {
	if cells == nil {
		cells = []types.Cell{}
	}
	b.broadcast(envelope{"type": "outlines", "cells": cells})
}

// SurfaceReset implements shelf.Listener.
func (b *Bridge) SurfaceReset(capacity int) {
	b.broadcast(envelope{"type": "reset", "capacity": capacity})
}
