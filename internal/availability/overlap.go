package availability

import (
	"innkeep/pkg/model"
	"time"
)

// Overlaps reports whether two half-open [start, end) intervals conflict.
// A checkout and a check-in on the same day do not conflict, which permits
// back-to-back turnover. Callers must reject end <= start before calling.
func Overlaps(startA, endA, startB, endB time.Time) bool {
	return startA.Before(endB) && endA.After(startB)
}

// IsBookable scans the room's embedded interval list for a conflict with the
// requested range. The list only contains confirmed bookings (cancellation
// removes the interval), so every entry blocks. Always computed fresh from
// the loaded document; this granularity is deliberately uncached.
func IsBookable(room *model.Room, checkIn, checkOut time.Time) bool {
	for _, iv := range room.BookedIntervals {
		if Overlaps(iv.CheckIn, iv.CheckOut, checkIn, checkOut) {
			return false
		}
	}
	return true
}

// Nights counts whole nights in a half-open stay range.
func Nights(checkIn, checkOut time.Time) int {
	return int(checkOut.Sub(checkIn) / (24 * time.Hour))
}
