package store

import (
	"strings"

	"go.uber.org/zap"

	"github.com/hotshelf/backend/internal/infrastructure/logging"
	"github.com/hotshelf/backend/internal/shared/types"
)

// cacheKey names the blob holding the last applied ranked prediction list.
const cacheKey = "predicted_item_keys"

// PredictionCache persists the last successfully applied ranked list so the
// shelf can show something sensible on cold start, before the ranking
// service delivers.
type PredictionCache struct {
	store Store
	log   *logging.Logger
}

// NewPredictionCache creates a cache over the given store.
func NewPredictionCache(s Store, log *logging.Logger) *PredictionCache {
	return &PredictionCache{store: s, log: log}
}

// Load returns the cached ranked keys. Malformed lines are dropped; any read
// failure yields an empty list, never an error.
func (c *PredictionCache) Load() []types.StableKey {
	blob, err := c.store.ReadString(cacheKey)
	if err != nil {
		c.log.Warn("failed to read prediction cache", zap.Error(err))
		return nil
	}

	var keys []types.StableKey
	for _, line := range strings.Split(blob, "\n") {
		if key, ok := types.ParseKey(line); ok {
			keys = append(keys, key)
		}
	}
	return keys
}

// Save overwrites the cache with the given ranked keys. An empty list writes
// an empty blob, clearing prior entries.
func (c *PredictionCache) Save(keys []types.StableKey) error {
	var b strings.Builder
	for _, key := range keys {
		b.WriteString(key.String())
		b.WriteByte('\n')
	}
	return c.store.WriteString(cacheKey, b.String())
}
