package catalog

import (
	"sync"

	"github.com/hotshelf/backend/internal/shared/types"
)

// Catalog is the live installed-item catalog.
type Catalog interface {
	// Lookup resolves a key against the live catalog.
	Lookup(key types.StableKey) (types.ResolvedItem, bool)
	// Size returns the number of live entries. Zero means not yet loaded.
	Size() int
}

// Memory is an in-memory Catalog fed by the host over the control API.
type Memory struct {
	mu       sync.RWMutex
	items    map[types.StableKey]types.ResolvedItem
	onChange func()
}

// NewMemory creates an empty in-memory catalog.
func NewMemory() *Memory {
	return &Memory{items: make(map[types.StableKey]types.ResolvedItem)}
}

// SetOnChange registers the catalog-changed signal. The callback runs on the
// caller's goroutine after every Apply.
func (c *Memory) SetOnChange(fn func()) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// Apply upserts and removes entries in one batch, then fires the change
// signal once.
func (c *Memory) Apply(upsert []types.ResolvedItem, remove []types.StableKey) {
	c.mu.Lock()
	for _, item := range upsert {
		c.items[item.Key] = item
	}
	for _, key := range remove {
		delete(c.items, key)
	}
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Lookup resolves a key against the live catalog.
func (c *Memory) Lookup(key types.StableKey) (types.ResolvedItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[key]
	return item, ok
}

// Size returns the number of live entries.
func (c *Memory) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
