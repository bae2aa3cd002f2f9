package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hotshelf/backend/internal/catalog"
	"github.com/hotshelf/backend/internal/shared/types"
	"github.com/hotshelf/backend/internal/shelf"
)

// Handlers contains all control API handlers.
type Handlers struct {
	ctrl *shelf.Controller
	cat  *catalog.Memory
}

// NewHandlers creates a handler set over the controller and catalog.
func NewHandlers(ctrl *shelf.Controller, cat *catalog.Memory) *Handlers {
	return &Handlers{ctrl: ctrl, cat: cat}
}

// run executes fn on the owner loop and blocks until it has been applied.
func (h *Handlers) run(fn func()) {
	done := make(chan struct{})
	h.ctrl.Post(func() {
		fn()
		close(done)
	})
	<-done
}

// Root identifies the service.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "hotshelf",
	})
}

// Health reports liveness plus the engine state.
func (h *Handlers) Health(c *gin.Context) {
	var status shelf.Status
	h.run(func() { status = h.ctrl.CurrentStatus() })

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"shelf":  status,
	})
}

type slotView struct {
	Slot  int                 `json:"slot"`
	State string              `json:"state"`
	Item  *types.ResolvedItem `json:"item,omitempty"`
}

// GetShelf returns the full slot grid and engine status.
func (h *Handlers) GetShelf(c *gin.Context) {
	var slots []shelf.Slot
	var status shelf.Status
	h.run(func() {
		slots = h.ctrl.Slots()
		status = h.ctrl.CurrentStatus()
	})

	views := make([]slotView, len(slots))
	for i, slot := range slots {
		views[i] = slotView{Slot: i, State: slot.State.String()}
		if slot.State != shelf.SlotEmpty {
			item := slot.Item
			views[i].Item = &item
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"slots":  views,
		"status": status,
	})
}

// Enable authorizes predictions for display.
func (h *Handlers) Enable(c *gin.Context) {
	h.run(func() { h.ctrl.Enable() })
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Pause suspends or resumes prediction updates.
func (h *Handlers) Pause(c *gin.Context) {
	var req struct {
		Paused *bool `json:"paused" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.run(func() { h.ctrl.Pause(*req.Paused) })
	c.JSON(http.StatusOK, gin.H{"success": true, "paused": *req.Paused})
}

// Pin converts a predicted slot into a user-owned one.
func (h *Handlers) Pin(c *gin.Context) {
	rank, err := strconv.Atoi(c.Param("slot"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slot index"})
		return
	}

	var pinErr error
	h.run(func() { pinErr = h.ctrl.Pin(rank) })
	if pinErr != nil {
		c.JSON(http.StatusConflict, gin.H{"error": pinErr.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "slot": rank})
}

// PlaceItem records an explicit user placement at one slot.
func (h *Handlers) PlaceItem(c *gin.Context) {
	rank, err := strconv.Atoi(c.Param("slot"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slot index"})
		return
	}
	var item types.Item
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var placeErr error
	h.run(func() { placeErr = h.ctrl.PlaceUserItem(rank, item) })
	if placeErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": placeErr.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "slot": rank})
}

// SetCapacity rebuilds the shelf for a new device profile.
func (h *Handlers) SetCapacity(c *gin.Context) {
	var req struct {
		Capacity int `json:"capacity" binding:"required"`
		Columns  int `json:"columns"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Capacity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "capacity must be positive"})
		return
	}

	h.run(func() { h.ctrl.OnCapacityChanged(req.Capacity, req.Columns) })
	c.JSON(http.StatusOK, gin.H{"success": true, "capacity": req.Capacity})
}

// SyncLayout replaces the host-reported user layout.
func (h *Handlers) SyncLayout(c *gin.Context) {
	var req struct {
		ShelfItems []types.Item `json:"shelf_items"`
		FirstPage  []types.Item `json:"first_page"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.run(func() { h.ctrl.SyncLayout(req.ShelfItems, req.FirstPage) })
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetRank returns an item's position in the current ranked list, plus the
// encoded form used for usage reporting. The key comes from the "key" query
// parameter in cache line format.
func (h *Handlers) GetRank(c *gin.Context) {
	key, ok := types.ParseKey(c.Query("key"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or missing key"})
		return
	}

	var rank, encoded int
	var ranked bool
	h.run(func() {
		rank, ranked = h.ctrl.RankOf(key)
		encoded = h.ctrl.EncodePredictedRank(key)
	})

	resp := gin.H{"key": key.String(), "ranked": ranked, "encoded": encoded}
	if ranked {
		resp["rank"] = rank
	}
	c.JSON(http.StatusOK, resp)
}

// FeedCatalog applies a batch of catalog upserts and removals. The change
// signal wired by the server triggers reconciliation afterwards.
func (h *Handlers) FeedCatalog(c *gin.Context) {
	var req struct {
		Upsert []types.ResolvedItem `json:"upsert"`
		Remove []types.StableKey    `json:"remove"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.cat.Apply(req.Upsert, req.Remove)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"size":    h.cat.Size(),
	})
}

// FolderCreated reports an app absorbed into a newly created folder.
func (h *Handlers) FolderCreated(c *gin.Context) {
	var req struct {
		Item   types.Item `json:"item"`
		Folder types.Item `json:"folder"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.run(func() { h.ctrl.FolderCreatedFromItem(req.Item, req.Folder) })
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// FolderDissolved reports the last app left by a dissolving folder.
func (h *Handlers) FolderDissolved(c *gin.Context) {
	var req struct {
		Item types.Item `json:"item"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.run(func() { h.ctrl.FolderDissolvedToItem(req.Item) })
	c.JSON(http.StatusOK, gin.H{"success": true})
}
