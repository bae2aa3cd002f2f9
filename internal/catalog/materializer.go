package catalog

import (
	"go.uber.org/zap"

	"github.com/hotshelf/backend/internal/infrastructure/logging"
	"github.com/hotshelf/backend/internal/shared/types"
)

// Materializer resolves ordered key sequences into displayable items.
type Materializer struct {
	catalog  Catalog
	fallback map[types.StableKey]types.ResolvedItem
	log      *logging.Logger
}

// NewMaterializer creates a materializer over the given live catalog.
func NewMaterializer(cat Catalog, log *logging.Logger) *Materializer {
	return &Materializer{
		catalog:  cat,
		fallback: make(map[types.StableKey]types.ResolvedItem),
		log:      log,
	}
}

// Resolve maps keys to resolved items, preserving input order and dropping
// keys that cannot currently be resolved; the count of dropped keys is
// returned alongside. At most limit items are returned. If the live catalog
// is empty (not yet loaded) the result is empty rather than partial, so
// stale icons never flash.
func (m *Materializer) Resolve(keys []types.StableKey, limit int) ([]types.ResolvedItem, int) {
	if m.catalog.Size() == 0 {
		return nil, 0
	}

	dropped := 0
	resolved := make([]types.ResolvedItem, 0, min(len(keys), limit))
	for _, key := range keys {
		if len(resolved) == limit {
			break
		}
		item, ok := m.catalog.Lookup(key)
		if ok {
			m.fallback[key] = item
		} else {
			// Live lookup failed; fall back to the last known record.
			item, ok = m.fallback[key]
		}
		if !ok {
			dropped++
			m.log.Debug("dropping unresolvable prediction", zap.String("key", key.String()))
			continue
		}
		// Clear any stale slot assignment from a prior placement.
		item.Rank = 0
		item.Cell = types.Cell{}
		resolved = append(resolved, item)
	}
	return resolved, dropped
}

// Remember seeds the fallback cache, used when restoring cached predictions
// before the live catalog has loaded their records.
func (m *Materializer) Remember(item types.ResolvedItem) {
	m.fallback[item.Key] = item
}
