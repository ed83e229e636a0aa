package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"innkeep/internal/availability"
	reserrors "innkeep/internal/reservations/errors"
	"innkeep/internal/reservations/service"
	roomserrors "innkeep/internal/rooms/errors"
	"innkeep/pkg/cache"
	"innkeep/pkg/config"
	mongotx "innkeep/pkg/db/mongo"
	"innkeep/pkg/events"
	"innkeep/pkg/logger"
	"innkeep/pkg/middleware"
	"innkeep/pkg/model"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/mongo"
)

const testRoomID = "507f1f77bcf86cd799439011"

// memStore backs both repositories with in-memory documents.
type memStore struct {
	mu       sync.Mutex
	room     *model.Room
	bookings map[string]*model.Booking
	nextID   int
}

func newMemStore() *memStore {
	return &memStore{
		room: &model.Room{
			ID:          testRoomID,
			Name:        "Seaview Double",
			Destination: "tel_aviv",
			Capacity:    4,
			NightlyRate: 250,
			Active:      true,
			Available:   true,
		},
		bookings: map[string]*model.Booking{},
	}
}

func (s *memStore) FindByID(_ context.Context, id string) (*model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.room.ID != id {
		return nil, roomserrors.ErrNotFound
	}
	clone := *s.room
	clone.BookedIntervals = append([]model.BookedInterval(nil), s.room.BookedIntervals...)
	return &clone, nil
}

func (s *memStore) FindBookable(context.Context, string, int) ([]*model.Room, error) {
	return nil, nil
}

func (s *memStore) FindBookablePage(context.Context, int, int) ([]*model.Room, error) {
	return nil, nil
}

func (s *memStore) CountBookable(context.Context) (int64, error) { return 0, nil }

func (s *memStore) AppendInterval(_ context.Context, roomID string, interval model.BookedInterval) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.room.BookedIntervals = append(s.room.BookedIntervals, interval)
	return nil
}

func (s *memStore) RemoveInterval(_ context.Context, _ string, bookingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.room.BookedIntervals[:0]
	for _, iv := range s.room.BookedIntervals {
		if iv.BookingID != bookingID {
			kept = append(kept, iv)
		}
	}
	s.room.BookedIntervals = kept
	return nil
}

func (s *memStore) ExecuteTransaction(_ context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.SessionContext(nil))
}

// bookings is a distinct type because both repositories expose FindByID.
type memBookings struct{ *memStore }

func (b memBookings) Create(_ context.Context, booking *model.Booking) (*model.Booking, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	booking.ID = fmt.Sprintf("%024d", b.nextID)
	booking.CreatedAt = time.Now().UTC()
	b.bookings[booking.ID] = booking
	return booking, nil
}

func (b memBookings) FindByID(_ context.Context, id string) (*model.Booking, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	booking, ok := b.bookings[id]
	if !ok {
		return nil, reserrors.ErrNotFound
	}
	clone := *booking
	return &clone, nil
}

func (b memBookings) FindConfirmedByRoomIDs(context.Context, []string) ([]*model.Booking, error) {
	return nil, nil
}

func (b memBookings) MarkCancelled(_ context.Context, id string, at time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	booking, ok := b.bookings[id]
	if !ok {
		return reserrors.ErrNotFound
	}
	booking.Status = model.BookingStatusCancelled
	booking.CancelledAt = &at
	return nil
}

func newTestServer() http.Handler {
	cfg := &config.Config{Log: logger.Discard()}
	store := newMemStore()
	c := cache.New(0)
	inv := availability.NewInvalidator(c, cfg.Log)
	svc := service.NewReservationService(cfg, store, memBookings{store}, inv, events.NewNoopPublisher(nil))

	router := httprouter.New()
	NewReservationHandler(svc, cfg.Log).RegisterRoutes(router)
	return middleware.Identity()(router)
}

func reserveBody() string {
	return `{
		"room_id": "` + testRoomID + `",
		"check_in": "2030-06-01",
		"check_out": "2030-06-03",
		"guest_count": 2,
		"guest_name": "Dana Levi",
		"guest_email": "dana@example.com"
	}`
}

func doReserve(t *testing.T, server http.Handler, userID string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(reserveBody()))
	if userID != "" {
		req.Header.Set(middleware.UserIDHeader, userID)
	}
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}

func decodeBooking(t *testing.T, rec *httptest.ResponseRecorder) model.Booking {
	t.Helper()
	var resp struct {
		Data model.Booking `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	return resp.Data
}

func TestReserveWithoutIdentityIsUnauthorized(t *testing.T) {
	server := newTestServer()

	rec := doReserve(t, server, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401; body: %s", rec.Code, rec.Body.String())
	}
}

func TestReserveInvalidBody(t *testing.T) {
	server := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader("{not json"))
	req.Header.Set(middleware.UserIDHeader, "user-42")
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestReserveCreated(t *testing.T) {
	server := newTestServer()

	rec := doReserve(t, server, "user-42")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body: %s", rec.Code, rec.Body.String())
	}

	booking := decodeBooking(t, rec)
	if booking.Status != model.BookingStatusConfirmed {
		t.Errorf("status = %q, want confirmed", booking.Status)
	}
	if booking.ConfirmationCode == "" {
		t.Error("confirmation code missing from response")
	}
	if booking.TotalAmount != 500 {
		t.Errorf("total = %v, want 500", booking.TotalAmount)
	}
}

func TestReserveTwiceIsConflict(t *testing.T) {
	server := newTestServer()

	if rec := doReserve(t, server, "user-42"); rec.Code != http.StatusCreated {
		t.Fatalf("first reserve: status = %d, want 201", rec.Code)
	}
	rec := doReserve(t, server, "user-other")
	if rec.Code != http.StatusConflict {
		t.Fatalf("second reserve: status = %d, want 409; body: %s", rec.Code, rec.Body.String())
	}
}

func TestCancelAndGetFlow(t *testing.T) {
	server := newTestServer()

	booking := decodeBooking(t, doReserve(t, server, "user-42"))

	// Another user may neither read nor cancel it.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reservations/id/"+booking.ID, nil)
	req.Header.Set(middleware.UserIDHeader, "user-other")
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("foreign get: status = %d, want 403", rec.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/reservations/id/"+booking.ID, nil)
	req.Header.Set(middleware.UserIDHeader, "user-42")
	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel: status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	if cancelled := decodeBooking(t, rec); cancelled.Status != model.BookingStatusCancelled {
		t.Errorf("status = %q, want cancelled", cancelled.Status)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/reservations/id/"+booking.ID, nil)
	req.Header.Set(middleware.UserIDHeader, "user-42")
	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("get after cancel: status = %d, want 200", rec.Code)
	}
	if got := decodeBooking(t, rec); got.CancelledAt == nil {
		t.Error("cancelled_at missing after cancellation")
	}
}
