package availability

import (
	"innkeep/pkg/cache"
	"innkeep/pkg/logger"
	"strings"
)

// Invalidator purges cache entries after committed state changes. It runs
// outside the store transactions and is strictly best-effort: a missed purge
// only extends staleness up to the entry's TTL, never produces an incorrect
// booking, because the room document is the source of truth.
type Invalidator struct {
	cache *cache.Cache
	log   *logger.Logger
}

func NewInvalidator(c *cache.Cache, log *logger.Logger) *Invalidator {
	return &Invalidator{cache: c, log: log}
}

// InvalidateRoom is the narrow scope, triggered by a reservation or
// cancellation on one room. It drops every availability entry referencing
// the room and all search pages, since search results embed booking state.
// Browse pages and the total count ignore bookings and are left alone.
func (i *Invalidator) InvalidateRoom(roomID string) {
	if roomID == "" {
		return
	}
	removed := i.cache.DeleteFunc(func(key string) bool {
		return KeyReferencesRoom(key, roomID) || strings.HasPrefix(key, KindSearch)
	})
	i.log.Debug("Invalidated room-scoped cache entries",
		"room_id", roomID,
		"removed", removed,
	)
}

// InvalidateInventory is the broad scope, triggered by a room being created,
// updated or deleted. The candidate set itself changed, so every listing and
// the count aggregate go.
func (i *Invalidator) InvalidateInventory() {
	removed := i.cache.DeleteFunc(func(key string) bool {
		return strings.HasPrefix(key, KindSearch) ||
			strings.HasPrefix(key, KindBrowse) ||
			strings.HasPrefix(key, KindCount)
	})
	i.log.Debug("Invalidated inventory-scoped cache entries", "removed", removed)
}
