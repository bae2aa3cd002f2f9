package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotshelf/backend/internal/infrastructure/logging"
	"github.com/hotshelf/backend/internal/shared/types"
)

func TestPredictionCacheRoundTrip(t *testing.T) {
	cache := NewPredictionCache(NewMemory(), logging.Nop())

	keys := []types.StableKey{
		{Component: "com.a/ui.Main", User: "0"},
		{Component: "com.b/ui.Main", User: "0", ShortcutID: "compose"},
	}
	require.NoError(t, cache.Save(keys))
	assert.Equal(t, keys, cache.Load())
}

func TestPredictionCacheEmptyStore(t *testing.T) {
	cache := NewPredictionCache(NewMemory(), logging.Nop())
	assert.Empty(t, cache.Load())
}

func TestPredictionCacheSaveEmptyClears(t *testing.T) {
	cache := NewPredictionCache(NewMemory(), logging.Nop())

	require.NoError(t, cache.Save([]types.StableKey{{Component: "com.a/ui.Main", User: "0"}}))
	require.NoError(t, cache.Save(nil))
	assert.Empty(t, cache.Load())
}

func TestPredictionCacheDropsMalformedLines(t *testing.T) {
	mem := NewMemory()
	require.NoError(t, mem.WriteString("predicted_item_keys", "com.a/ui.Main#0\ngarbage\n\ncom.b/ui.Main#0\n"))

	cache := NewPredictionCache(mem, logging.Nop())
	keys := cache.Load()
	require.Len(t, keys, 2)
	assert.Equal(t, "com.a/ui.Main", keys[0].Component)
	assert.Equal(t, "com.b/ui.Main", keys[1].Component)
}
