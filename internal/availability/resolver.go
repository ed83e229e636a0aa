package availability

import (
	"context"
	"errors"
	"innkeep/pkg/cache"
	"innkeep/pkg/config"
	apperrors "innkeep/pkg/errors"
	"innkeep/pkg/model"
	"time"
)

// RoomSource is the read-only slice of the room store the resolver needs.
// "Bookable" always means active and available; the resolver never sees
// rooms an owner has pulled from inventory.
type RoomSource interface {
	FindBookable(ctx context.Context, destination string, minCapacity int) ([]*model.Room, error)
	FindBookablePage(ctx context.Context, page, pageSize int) ([]*model.Room, error)
	CountBookable(ctx context.Context) (int64, error)
}

// BookingSource loads confirmed bookings for a set of rooms in one query.
type BookingSource interface {
	FindConfirmedByRoomIDs(ctx context.Context, roomIDs []string) ([]*model.Booking, error)
}

// Resolver answers availability questions and produces paginated listings.
// It only ever reads; interval state is mutated exclusively by the
// reservation service. Every path is correct with a cold cache.
type Resolver struct {
	cfg      *config.Config
	rooms    RoomSource
	bookings BookingSource
	cache    *cache.Cache
	now      func() time.Time
}

func NewResolver(cfg *config.Config, rooms RoomSource, bookings BookingSource, c *cache.Cache) *Resolver {
	return &Resolver{
		cfg:      cfg,
		rooms:    rooms,
		bookings: bookings,
		cache:    c,
		now:      time.Now,
	}
}

type SearchCriteria struct {
	Destination string
	CheckIn     time.Time
	CheckOut    time.Time
	Guests      int
}

type searchPage struct {
	offers     []model.RoomOffer
	pagination model.Pagination
}

type browsePage struct {
	rooms      []*model.Room
	pagination model.Pagination
}

// ValidateStayRange enforces the date rules shared by search and
// reservation: check-out strictly after check-in, check-in not before today.
// Runs before any store access.
func ValidateStayRange(now, checkIn, checkOut time.Time) error {
	if checkIn.IsZero() || checkOut.IsZero() {
		return apperrors.Validation("check_in and check_out are required", nil)
	}
	if !checkOut.After(checkIn) {
		return apperrors.Validation("check_out must be after check_in", map[string]any{
			"check_in":  checkIn,
			"check_out": checkOut,
		})
	}
	today := time.Date(now.UTC().Year(), now.UTC().Month(), now.UTC().Day(), 0, 0, 0, 0, time.UTC)
	if checkIn.Before(today) {
		return apperrors.Validation("check_in cannot be in the past", map[string]any{
			"check_in": checkIn,
		})
	}
	return nil
}

// CheckBatch resolves bookability for a set of rooms over one range with a
// single booking query instead of one per room. The resulting map is cached
// under the sorted room-id set.
func (r *Resolver) CheckBatch(ctx context.Context, roomIDs []string, checkIn, checkOut time.Time) (map[string]bool, error) {
	if err := ValidateStayRange(r.now(), checkIn, checkOut); err != nil {
		return nil, err
	}
	if len(roomIDs) == 0 {
		return map[string]bool{}, nil
	}

	key := AvailabilityKey(roomIDs, checkIn, checkOut)
	if cached, ok := r.cache.Get(key); ok {
		if result, ok := cached.(map[string]bool); ok {
			return result, nil
		}
	}

	var bookings []*model.Booking
	err := r.withReadRetry(ctx, func() error {
		var findErr error
		bookings, findErr = r.bookings.FindConfirmedByRoomIDs(ctx, roomIDs)
		return findErr
	})
	if err != nil {
		return nil, err
	}

	byRoom := make(map[string][]*model.Booking, len(roomIDs))
	for _, b := range bookings {
		byRoom[b.RoomID] = append(byRoom[b.RoomID], b)
	}

	result := make(map[string]bool, len(roomIDs))
	for _, roomID := range roomIDs {
		bookable := true
		for _, b := range byRoom[roomID] {
			if Overlaps(b.CheckIn, b.CheckOut, checkIn, checkOut) {
				bookable = false
				break
			}
		}
		result[roomID] = bookable
	}

	r.cache.Set(key, result, r.cfg.AvailabilityTTL)
	return result, nil
}

// Search produces one page of rooms that are active, available, large enough
// for the party, and free over the requested range, each priced at
// nights × nightly rate. Sorting is left to the presentation layer.
func (r *Resolver) Search(ctx context.Context, criteria SearchCriteria, page, pageSize int) ([]model.RoomOffer, model.Pagination, error) {
	if err := ValidateStayRange(r.now(), criteria.CheckIn, criteria.CheckOut); err != nil {
		return nil, model.Pagination{}, err
	}
	if criteria.Guests < 1 {
		return nil, model.Pagination{}, apperrors.Validation("guest count must be at least 1", nil)
	}
	page = config.NormalizePage(page)
	pageSize = config.NormalizePageSize(pageSize)

	key := SearchKey(criteria.Destination, criteria.CheckIn, criteria.CheckOut, criteria.Guests, page, pageSize)
	if cached, ok := r.cache.Get(key); ok {
		if sp, ok := cached.(searchPage); ok {
			return sp.offers, sp.pagination, nil
		}
	}

	var candidates []*model.Room
	err := r.withReadRetry(ctx, func() error {
		var findErr error
		candidates, findErr = r.rooms.FindBookable(ctx, criteria.Destination, criteria.Guests)
		return findErr
	})
	if err != nil {
		return nil, model.Pagination{}, err
	}

	nights := Nights(criteria.CheckIn, criteria.CheckOut)
	offers := make([]model.RoomOffer, 0, len(candidates))
	for _, room := range candidates {
		if !IsBookable(room, criteria.CheckIn, criteria.CheckOut) {
			continue
		}
		offers = append(offers, model.RoomOffer{
			Room:       *room,
			Nights:     nights,
			TotalPrice: float64(nights) * room.NightlyRate,
		})
	}

	pagination := model.NewPagination(page, pageSize, int64(len(offers)))
	pageOffers := slicePage(offers, page, pageSize)

	r.cache.Set(key, searchPage{offers: pageOffers, pagination: pagination}, r.cfg.SearchTTL)
	return pageOffers, pagination, nil
}

// Browse lists active+available rooms without any date filter. Counting all
// matching documents dominates the cost of an unfiltered scan, so the total
// is cached on its own longer-lived key.
func (r *Resolver) Browse(ctx context.Context, page, pageSize int) ([]*model.Room, model.Pagination, error) {
	page = config.NormalizePage(page)
	pageSize = config.NormalizePageSize(pageSize)

	key := BrowseKey(page, pageSize)
	if cached, ok := r.cache.Get(key); ok {
		if bp, ok := cached.(browsePage); ok {
			return bp.rooms, bp.pagination, nil
		}
	}

	total, err := r.bookableCount(ctx)
	if err != nil {
		return nil, model.Pagination{}, err
	}

	var rooms []*model.Room
	err = r.withReadRetry(ctx, func() error {
		var findErr error
		rooms, findErr = r.rooms.FindBookablePage(ctx, page, pageSize)
		return findErr
	})
	if err != nil {
		return nil, model.Pagination{}, err
	}

	pagination := model.NewPagination(page, pageSize, total)
	r.cache.Set(key, browsePage{rooms: rooms, pagination: pagination}, r.cfg.BrowseTTL)
	return rooms, pagination, nil
}

func (r *Resolver) bookableCount(ctx context.Context) (int64, error) {
	if cached, ok := r.cache.Get(CountKey); ok {
		if count, ok := cached.(int64); ok {
			return count, nil
		}
	}

	var count int64
	err := r.withReadRetry(ctx, func() error {
		var countErr error
		count, countErr = r.rooms.CountBookable(ctx)
		return countErr
	})
	if err != nil {
		return 0, err
	}

	r.cache.Set(CountKey, count, r.cfg.CountTTL)
	return count, nil
}

// withReadRetry retries transient store failures a bounded number of times
// with doubling backoff. Only idempotent reads go through here; reservation
// writes are never silently retried.
func (r *Resolver) withReadRetry(ctx context.Context, fn func() error) error {
	backoff := r.cfg.ReadRetryBackoff
	var err error
	for attempt := 0; ; attempt++ {
		err = fn()
		if err == nil || attempt >= r.cfg.ReadRetryAttempts || !isTransient(err) {
			return err
		}
		r.cfg.Log.Warn("Retrying transient store read failure",
			"attempt", attempt+1,
			"backoff", backoff,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return err
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}

func isTransient(err error) bool {
	return apperrors.IsRetryable(err) || errors.Is(err, context.DeadlineExceeded)
}

func slicePage[T any](items []T, page, pageSize int) []T {
	offset := (page - 1) * pageSize
	if offset >= len(items) {
		return []T{}
	}
	end := offset + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
