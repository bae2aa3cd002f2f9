package ranking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hotshelf/backend/internal/infrastructure/logging"
	"github.com/hotshelf/backend/internal/shared/types"
)

// UpdateFunc receives delivered ranked key lists. It is called from a
// background goroutine; the receiver marshals onto its owner loop.
type UpdateFunc func(keys []types.StableKey)

// HTTP is the resty-backed ranking service client.
type HTTP struct {
	client   *resty.Client
	onUpdate UpdateFunc
	log      *logging.Logger

	mu        sync.Mutex
	sessionID string
	closed    bool
}

// NewHTTP creates a client against the given base URL.
func NewHTTP(baseURL string, onUpdate UpdateFunc, log *logging.Logger) *HTTP {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second)
	return &HTTP{client: client, onUpdate: onUpdate, log: log}
}

type sessionResponse struct {
	SessionID string `json:"session_id"`
}

type refreshResponse struct {
	Predictions []string `json:"predictions"`
}

// CreateSession opens a prediction session, replacing any prior one.
func (h *HTTP) CreateSession(ctx context.Context, sc SessionContext) error {
	var resp sessionResponse
	res, err := h.client.R().
		SetContext(ctx).
		SetBody(sc).
		SetResult(&resp).
		Post("/v1/sessions")
	if err != nil {
		return fmt.Errorf("failed to create ranking session: %w", err)
	}
	if res.IsError() {
		return fmt.Errorf("ranking session rejected: %s", res.Status())
	}

	id := resp.SessionID
	if id == "" {
		id = uuid.New().String()
	}

	h.mu.Lock()
	h.sessionID = id
	h.mu.Unlock()
	return nil
}

// RequestUpdate asks the service for a fresh ranked list. The response is
// delivered through the update callback; failures are logged and dropped.
func (h *HTTP) RequestUpdate() {
	id, ok := h.session()
	if !ok {
		return
	}

	go func() {
		var resp refreshResponse
		res, err := h.client.R().
			SetResult(&resp).
			Post("/v1/sessions/" + id + "/refresh")
		if err != nil || res.IsError() {
			h.log.Debug("prediction refresh failed", zap.Error(err))
			return
		}

		keys := make([]types.StableKey, 0, len(resp.Predictions))
		for _, line := range resp.Predictions {
			if key, ok := types.ParseKey(line); ok {
				keys = append(keys, key)
			}
		}
		if h.deliverable() {
			h.onUpdate(keys)
		}
	}()
}

// NotifyEvent reports a pin/unpin transition. Fire-and-forget.
func (h *HTTP) NotifyEvent(ev Event) {
	id, ok := h.session()
	if !ok {
		return
	}

	go func() {
		res, err := h.client.R().
			SetBody(ev).
			Post("/v1/sessions/" + id + "/events")
		if err != nil || res.IsError() {
			h.log.Debug("ranking event dropped",
				zap.String("action", string(ev.Action)), zap.Error(err))
		}
	}()
}

// Close stops deliveries. In-flight requests may still complete on the wire
// but their results are discarded.
func (h *HTTP) Close() error {
	h.mu.Lock()
	h.closed = true
	h.sessionID = ""
	h.mu.Unlock()
	return nil
}

func (h *HTTP) session() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed || h.sessionID == "" {
		return "", false
	}
	return h.sessionID, true
}

func (h *HTTP) deliverable() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return !h.closed && h.onUpdate != nil
}
