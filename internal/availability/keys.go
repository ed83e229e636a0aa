package availability

import (
	"fmt"
	"innkeep/pkg/sanitizer"
	"sort"
	"strings"
	"time"
)

// Cache key layout. Every key starts with its kind prefix so broad
// invalidation is a prefix match, and availability keys end with the sorted
// room-id list so narrow invalidation can match a single room.
const (
	KindAvailability = "avail:"
	KindSearch       = "search:"
	KindBrowse       = "browse:"
	KindCount        = "count:"

	CountKey = KindCount + "rooms"

	keyDateLayout = "2006-01-02"
)

// AvailabilityKey normalizes a batch-availability query: the room-id set is
// sorted so key identity does not depend on request order.
func AvailabilityKey(roomIDs []string, checkIn, checkOut time.Time) string {
	ids := make([]string, len(roomIDs))
	copy(ids, roomIDs)
	sort.Strings(ids)

	return fmt.Sprintf("%s%s:%s:%s",
		KindAvailability,
		checkIn.Format(keyDateLayout),
		checkOut.Format(keyDateLayout),
		strings.Join(ids, ","),
	)
}

// SearchKey identifies one page of one search. Pages of the same query are
// independent entries; they share only kind-level invalidation.
func SearchKey(destination string, checkIn, checkOut time.Time, guests, page, pageSize int) string {
	return fmt.Sprintf("%s%s:%s:%s:g%d:p%d:s%d",
		KindSearch,
		sanitizer.SanitizeDestination(destination),
		checkIn.Format(keyDateLayout),
		checkOut.Format(keyDateLayout),
		guests,
		page,
		pageSize,
	)
}

func BrowseKey(page, pageSize int) string {
	return fmt.Sprintf("%sp%d:s%d", KindBrowse, page, pageSize)
}

// KeyReferencesRoom reports whether an availability key's room-id list
// contains roomID. Only availability keys embed room ids.
func KeyReferencesRoom(key, roomID string) bool {
	if !strings.HasPrefix(key, KindAvailability) {
		return false
	}
	idx := strings.LastIndex(key, ":")
	if idx < 0 {
		return false
	}
	for _, id := range strings.Split(key[idx+1:], ",") {
		if id == roomID {
			return true
		}
	}
	return false
}
