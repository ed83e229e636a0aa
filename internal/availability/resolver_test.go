package availability

import (
	"context"
	"innkeep/pkg/cache"
	"innkeep/pkg/config"
	apperrors "innkeep/pkg/errors"
	"innkeep/pkg/logger"
	"innkeep/pkg/model"
	"testing"
	"time"
)

type mockRoomSource struct {
	findBookableFunc     func(ctx context.Context, destination string, minCapacity int) ([]*model.Room, error)
	findBookablePageFunc func(ctx context.Context, page, pageSize int) ([]*model.Room, error)
	countBookableFunc    func(ctx context.Context) (int64, error)

	findBookableCalls int
	findPageCalls     int
	countCalls        int
}

func (m *mockRoomSource) FindBookable(ctx context.Context, destination string, minCapacity int) ([]*model.Room, error) {
	m.findBookableCalls++
	if m.findBookableFunc != nil {
		return m.findBookableFunc(ctx, destination, minCapacity)
	}
	return []*model.Room{}, nil
}

func (m *mockRoomSource) FindBookablePage(ctx context.Context, page, pageSize int) ([]*model.Room, error) {
	m.findPageCalls++
	if m.findBookablePageFunc != nil {
		return m.findBookablePageFunc(ctx, page, pageSize)
	}
	return []*model.Room{}, nil
}

func (m *mockRoomSource) CountBookable(ctx context.Context) (int64, error) {
	m.countCalls++
	if m.countBookableFunc != nil {
		return m.countBookableFunc(ctx)
	}
	return 0, nil
}

type mockBookingSource struct {
	findConfirmedFunc func(ctx context.Context, roomIDs []string) ([]*model.Booking, error)
	findCalls         int
}

func (m *mockBookingSource) FindConfirmedByRoomIDs(ctx context.Context, roomIDs []string) ([]*model.Booking, error) {
	m.findCalls++
	if m.findConfirmedFunc != nil {
		return m.findConfirmedFunc(ctx, roomIDs)
	}
	return []*model.Booking{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		AvailabilityTTL:   2 * time.Minute,
		SearchTTL:         1 * time.Minute,
		BrowseTTL:         3 * time.Minute,
		CountTTL:          5 * time.Minute,
		ReadRetryAttempts: 2,
		ReadRetryBackoff:  time.Millisecond,
		Log:               logger.Discard(),
	}
}

func fixedNow() time.Time {
	return time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
}

func newTestResolver(rooms *mockRoomSource, bookings *mockBookingSource) (*Resolver, *cache.Cache) {
	c := cache.New(0)
	r := NewResolver(testConfig(), rooms, bookings, c)
	r.now = fixedNow
	return r, c
}

func testRooms() []*model.Room {
	return []*model.Room{
		{
			ID: "665f1c2a9d1e4b0001a3c001", Name: "Garden Double", Destination: "paris",
			Capacity: 2, NightlyRate: 120, Active: true, Available: true,
			BookedIntervals: []model.BookedInterval{
				{CheckIn: date(2025, 6, 1), CheckOut: date(2025, 6, 5), BookingID: "665f1c2a9d1e4b0001a3c101"},
			},
		},
		{
			ID: "665f1c2a9d1e4b0001a3c002", Name: "Loft Suite", Destination: "paris",
			Capacity: 4, NightlyRate: 250, Active: true, Available: true,
		},
	}
}

func TestSearchRejectsPastCheckInBeforeStoreAccess(t *testing.T) {
	rooms := &mockRoomSource{}
	resolver, _ := newTestResolver(rooms, &mockBookingSource{})

	_, _, err := resolver.Search(context.Background(), SearchCriteria{
		Destination: "paris",
		CheckIn:     date(2025, 4, 1),
		CheckOut:    date(2025, 4, 3),
		Guests:      2,
	}, 1, 10)

	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if rooms.findBookableCalls != 0 {
		t.Errorf("store accessed %d times despite invalid dates", rooms.findBookableCalls)
	}
}

func TestSearchRejectsInvertedRange(t *testing.T) {
	resolver, _ := newTestResolver(&mockRoomSource{}, &mockBookingSource{})

	_, _, err := resolver.Search(context.Background(), SearchCriteria{
		Destination: "paris",
		CheckIn:     date(2025, 6, 5),
		CheckOut:    date(2025, 6, 5),
		Guests:      2,
	}, 1, 10)

	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSearchFiltersBookedRoomsAndPrices(t *testing.T) {
	rooms := &mockRoomSource{
		findBookableFunc: func(_ context.Context, _ string, _ int) ([]*model.Room, error) {
			return testRooms(), nil
		},
	}
	resolver, _ := newTestResolver(rooms, &mockBookingSource{})

	offers, pagination, err := resolver.Search(context.Background(), SearchCriteria{
		Destination: "paris",
		CheckIn:     date(2025, 6, 4),
		CheckOut:    date(2025, 6, 6),
		Guests:      2,
	}, 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(offers) != 1 {
		t.Fatalf("offers = %d, want 1 (booked room filtered out)", len(offers))
	}
	if offers[0].Room.ID != "665f1c2a9d1e4b0001a3c002" {
		t.Errorf("wrong room survived: %s", offers[0].Room.ID)
	}
	if offers[0].Nights != 2 {
		t.Errorf("nights = %d, want 2", offers[0].Nights)
	}
	if offers[0].TotalPrice != 500 {
		t.Errorf("total price = %v, want 500", offers[0].TotalPrice)
	}
	if pagination.TotalCount != 1 || pagination.Page != 1 || pagination.HasNext {
		t.Errorf("unexpected pagination: %+v", pagination)
	}
}

func TestSearchAllowsBackToBackTurnover(t *testing.T) {
	rooms := &mockRoomSource{
		findBookableFunc: func(_ context.Context, _ string, _ int) ([]*model.Room, error) {
			return testRooms(), nil
		},
	}
	resolver, _ := newTestResolver(rooms, &mockBookingSource{})

	// Check-in exactly on the existing booking's checkout day.
	offers, _, err := resolver.Search(context.Background(), SearchCriteria{
		Destination: "paris",
		CheckIn:     date(2025, 6, 5),
		CheckOut:    date(2025, 6, 8),
		Guests:      2,
	}, 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(offers) != 2 {
		t.Errorf("offers = %d, want 2 (same-day turnover permitted)", len(offers))
	}
}

func TestSearchServesSecondCallFromCache(t *testing.T) {
	rooms := &mockRoomSource{
		findBookableFunc: func(_ context.Context, _ string, _ int) ([]*model.Room, error) {
			return testRooms(), nil
		},
	}
	resolver, _ := newTestResolver(rooms, &mockBookingSource{})

	criteria := SearchCriteria{
		Destination: "paris",
		CheckIn:     date(2025, 6, 10),
		CheckOut:    date(2025, 6, 12),
		Guests:      2,
	}

	first, _, err := resolver.Search(context.Background(), criteria, 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _, err := resolver.Search(context.Background(), criteria, 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rooms.findBookableCalls != 1 {
		t.Errorf("store queried %d times, want 1 (second call cached)", rooms.findBookableCalls)
	}
	if len(first) != len(second) {
		t.Errorf("cached result differs: %d vs %d offers", len(first), len(second))
	}
}

// Cache transparency: identical queries against a cold cache every time must
// produce the same results as the cached path.
func TestSearchForcedMissEquivalence(t *testing.T) {
	makeRooms := func() *mockRoomSource {
		return &mockRoomSource{
			findBookableFunc: func(_ context.Context, _ string, _ int) ([]*model.Room, error) {
				return testRooms(), nil
			},
		}
	}
	criteria := SearchCriteria{
		Destination: "paris",
		CheckIn:     date(2025, 6, 4),
		CheckOut:    date(2025, 6, 6),
		Guests:      2,
	}

	warmResolver, _ := newTestResolver(makeRooms(), &mockBookingSource{})
	warmResolver.Search(context.Background(), criteria, 1, 10)
	cachedOffers, cachedPg, err := warmResolver.Search(context.Background(), criteria, 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	coldResolver, _ := newTestResolver(makeRooms(), &mockBookingSource{})
	coldOffers, coldPg, err := coldResolver.Search(context.Background(), criteria, 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cachedOffers) != len(coldOffers) {
		t.Fatalf("cached path returned %d offers, cold path %d", len(cachedOffers), len(coldOffers))
	}
	for i := range cachedOffers {
		if cachedOffers[i].Room.ID != coldOffers[i].Room.ID ||
			cachedOffers[i].TotalPrice != coldOffers[i].TotalPrice {
			t.Errorf("offer %d differs between cached and cold paths", i)
		}
	}
	if cachedPg != coldPg {
		t.Errorf("pagination differs: %+v vs %+v", cachedPg, coldPg)
	}
}

func TestSearchPagination(t *testing.T) {
	many := make([]*model.Room, 7)
	for i := range many {
		many[i] = &model.Room{
			ID:          string(rune('a'+i)) + "65f1c2a9d1e4b0001a3c00", // distinct ids
			Name:        "Room",
			Destination: "paris",
			Capacity:    2, NightlyRate: 100, Active: true, Available: true,
		}
	}
	rooms := &mockRoomSource{
		findBookableFunc: func(_ context.Context, _ string, _ int) ([]*model.Room, error) {
			return many, nil
		},
	}
	resolver, _ := newTestResolver(rooms, &mockBookingSource{})

	criteria := SearchCriteria{
		Destination: "paris",
		CheckIn:     date(2025, 6, 1),
		CheckOut:    date(2025, 6, 2),
		Guests:      2,
	}

	offers, pagination, err := resolver.Search(context.Background(), criteria, 2, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(offers) != 3 {
		t.Errorf("page 2 size = %d, want 3", len(offers))
	}
	if pagination.TotalPages != 3 || !pagination.HasNext || !pagination.HasPrev {
		t.Errorf("unexpected pagination: %+v", pagination)
	}

	offers, pagination, err = resolver.Search(context.Background(), criteria, 3, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(offers) != 1 {
		t.Errorf("last page size = %d, want 1", len(offers))
	}
	if pagination.HasNext || !pagination.HasPrev {
		t.Errorf("unexpected last-page pagination: %+v", pagination)
	}
}

func TestCheckBatchGroupsWithSingleQuery(t *testing.T) {
	bookings := &mockBookingSource{
		findConfirmedFunc: func(_ context.Context, roomIDs []string) ([]*model.Booking, error) {
			if len(roomIDs) != 2 {
				t.Fatalf("expected one query for 2 rooms, got ids %v", roomIDs)
			}
			return []*model.Booking{
				{
					RoomID:  "665f1c2a9d1e4b0001a3c001",
					CheckIn: date(2025, 6, 1), CheckOut: date(2025, 6, 5),
					Status: model.BookingStatusConfirmed,
				},
			}, nil
		},
	}
	resolver, _ := newTestResolver(&mockRoomSource{}, bookings)

	ids := []string{"665f1c2a9d1e4b0001a3c001", "665f1c2a9d1e4b0001a3c002"}
	result, err := resolver.CheckBatch(context.Background(), ids, date(2025, 6, 4), date(2025, 6, 6))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result["665f1c2a9d1e4b0001a3c001"] {
		t.Error("room with overlapping booking reported bookable")
	}
	if !result["665f1c2a9d1e4b0001a3c002"] {
		t.Error("free room reported unbookable")
	}
	if bookings.findCalls != 1 {
		t.Errorf("booking queries = %d, want 1", bookings.findCalls)
	}

	// Same set, different order: cache hit, still one query.
	_, err = resolver.CheckBatch(context.Background(),
		[]string{"665f1c2a9d1e4b0001a3c002", "665f1c2a9d1e4b0001a3c001"},
		date(2025, 6, 4), date(2025, 6, 6))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bookings.findCalls != 1 {
		t.Errorf("booking queries = %d after cached call, want 1", bookings.findCalls)
	}
}

func TestCheckBatchEmptySetSkipsStore(t *testing.T) {
	bookings := &mockBookingSource{}
	resolver, _ := newTestResolver(&mockRoomSource{}, bookings)

	result, err := resolver.CheckBatch(context.Background(), nil, date(2025, 6, 1), date(2025, 6, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 0 {
		t.Errorf("result = %v, want empty", result)
	}
	if bookings.findCalls != 0 {
		t.Error("store queried for empty room set")
	}
}

func TestBrowseUsesCachedCount(t *testing.T) {
	rooms := &mockRoomSource{
		countBookableFunc: func(_ context.Context) (int64, error) { return 25, nil },
		findBookablePageFunc: func(_ context.Context, page, pageSize int) ([]*model.Room, error) {
			return []*model.Room{{ID: "665f1c2a9d1e4b0001a3c001", Active: true, Available: true}}, nil
		},
	}
	resolver, c := newTestResolver(rooms, &mockBookingSource{})

	_, pagination, err := resolver.Browse(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pagination.TotalCount != 25 || pagination.TotalPages != 3 {
		t.Errorf("unexpected pagination: %+v", pagination)
	}

	// Drop only the page entry; the count aggregate must survive and spare
	// the expensive count query.
	c.Delete(BrowseKey(1, 10))

	_, _, err = resolver.Browse(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rooms.countCalls != 1 {
		t.Errorf("count queries = %d, want 1 (aggregate cached)", rooms.countCalls)
	}
	if rooms.findPageCalls != 2 {
		t.Errorf("page queries = %d, want 2", rooms.findPageCalls)
	}
}

func TestReadRetryOnTransientFailure(t *testing.T) {
	attempts := 0
	rooms := &mockRoomSource{
		countBookableFunc: func(_ context.Context) (int64, error) {
			attempts++
			if attempts == 1 {
				return 0, apperrors.Timeout("store read timed out")
			}
			return 7, nil
		},
	}
	resolver, _ := newTestResolver(rooms, &mockBookingSource{})

	_, pagination, err := resolver.Browse(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if pagination.TotalCount != 7 {
		t.Errorf("total = %d, want 7", pagination.TotalCount)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
}

func TestReadRetryDoesNotRetryPermanentErrors(t *testing.T) {
	rooms := &mockRoomSource{
		findBookableFunc: func(_ context.Context, _ string, _ int) ([]*model.Room, error) {
			return nil, apperrors.Internal("malformed document", nil)
		},
	}
	resolver, _ := newTestResolver(rooms, &mockBookingSource{})

	_, _, err := resolver.Search(context.Background(), SearchCriteria{
		Destination: "paris",
		CheckIn:     date(2025, 6, 1),
		CheckOut:    date(2025, 6, 2),
		Guests:      1,
	}, 1, 10)

	if err == nil {
		t.Fatal("expected error")
	}
	if rooms.findBookableCalls != 1 {
		t.Errorf("store queried %d times, permanent errors must not be retried", rooms.findBookableCalls)
	}
}
