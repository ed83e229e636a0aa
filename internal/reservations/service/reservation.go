package service

import (
	"context"
	"errors"
	"innkeep/internal/availability"
	reserrors "innkeep/internal/reservations/errors"
	"innkeep/internal/reservations/repository"
	"innkeep/internal/reservations/validator"
	roomserrors "innkeep/internal/rooms/errors"
	roomsrepo "innkeep/internal/rooms/repository"
	"innkeep/pkg/config"
	apperrors "innkeep/pkg/errors"
	"innkeep/pkg/events"
	"innkeep/pkg/model"
	"innkeep/pkg/sanitizer"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

const publishTimeout = 5 * time.Second

// ReservationService owns every mutation of booking state. Both commit paths
// run as a single multi-document transaction over the booking document and
// the room's embedded interval list, so no reader ever observes one without
// the other.
type ReservationService struct {
	cfg         *config.Config
	rooms       roomsrepo.RoomRepository
	bookings    repository.BookingRepository
	validator   *validator.ReservationValidator
	invalidator *availability.Invalidator
	publisher   events.Publisher
	now         func() time.Time
}

func NewReservationService(
	cfg *config.Config,
	rooms roomsrepo.RoomRepository,
	bookings repository.BookingRepository,
	invalidator *availability.Invalidator,
	publisher events.Publisher,
) *ReservationService {
	return &ReservationService{
		cfg:         cfg,
		rooms:       rooms,
		bookings:    bookings,
		validator:   validator.New(),
		invalidator: invalidator,
		publisher:   publisher,
		now:         time.Now,
	}
}

// Reserve books a room for the requested range. The availability check is
// repeated against a fresh read of the room inside the transaction, so two
// racing requests for overlapping dates cannot both commit: the loser's
// re-check sees the winner's interval and aborts with a conflict.
func (s *ReservationService) Reserve(ctx context.Context, userID string, req *model.ReservationRequest) (*model.Booking, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("user identity is required")
	}
	if err := s.validator.ValidateRequest(s.now(), req); err != nil {
		return nil, err
	}

	room, err := s.rooms.FindByID(ctx, req.RoomID)
	if err != nil {
		return nil, mapRoomError(err, req.RoomID)
	}
	if !room.Active || !room.Available {
		return nil, apperrors.NotFoundWithID("room", req.RoomID)
	}
	if req.GuestCount > room.Capacity {
		return nil, apperrors.Validation("guest count exceeds room capacity", map[string]any{
			"guest_count": req.GuestCount,
			"capacity":    room.Capacity,
		})
	}
	// Cheap pre-check on the already loaded document. The authoritative check
	// happens inside the transaction.
	if !availability.IsBookable(room, req.CheckIn, req.CheckOut) {
		return nil, conflictForRange(req.CheckIn, req.CheckOut)
	}

	code, err := NewConfirmationCode(req.CheckIn)
	if err != nil {
		return nil, apperrors.Internal("Failed to prepare reservation", err)
	}

	nights := availability.Nights(req.CheckIn, req.CheckOut)
	booking := &model.Booking{
		RoomID:           req.RoomID,
		UserID:           userID,
		CheckIn:          req.CheckIn,
		CheckOut:         req.CheckOut,
		GuestCount:       req.GuestCount,
		GuestName:        sanitizer.SanitizeGuestName(req.GuestName),
		GuestEmail:       sanitizer.SanitizeEmail(req.GuestEmail),
		GuestPhone:       req.GuestPhone,
		TotalAmount:      float64(nights) * room.NightlyRate,
		ConfirmationCode: code,
		Status:           model.BookingStatusConfirmed,
	}

	err = s.bookings.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		current, err := s.rooms.FindByID(sessCtx, req.RoomID)
		if err != nil {
			return mapRoomError(err, req.RoomID)
		}
		if !availability.IsBookable(current, req.CheckIn, req.CheckOut) {
			return conflictForRange(req.CheckIn, req.CheckOut)
		}

		created, err := s.bookings.Create(sessCtx, booking)
		if err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}

		interval := model.BookedInterval{
			CheckIn:   created.CheckIn,
			CheckOut:  created.CheckOut,
			BookingID: created.ID,
		}
		if err := s.rooms.AppendInterval(sessCtx, req.RoomID, interval); err != nil {
			return mapRoomError(err, req.RoomID)
		}
		return nil
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.Internal("Failed to commit reservation", err)
	}

	s.afterCommit(ctx, events.TypeBookingConfirmed, booking)

	s.cfg.Log.Info("Reservation confirmed",
		"booking_id", booking.ID,
		"room_id", booking.RoomID,
		"check_in", booking.CheckIn,
		"check_out", booking.CheckOut,
	)
	return booking, nil
}

// Cancel flips the booking to cancelled and frees the room's interval in the
// same transaction, so the dates become bookable at the exact moment the
// cancellation is visible.
func (s *ReservationService) Cancel(ctx context.Context, userID, bookingID string) (*model.Booking, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("user identity is required")
	}

	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, mapBookingError(err, bookingID)
	}
	if booking.UserID != userID {
		return nil, apperrors.Forbidden("booking belongs to a different user")
	}
	if booking.Status == model.BookingStatusCancelled {
		return nil, apperrors.Conflict(reserrors.ErrAlreadyCancelled.Error())
	}

	cancelledAt := s.now().UTC()
	err = s.bookings.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.bookings.MarkCancelled(sessCtx, bookingID, cancelledAt); err != nil {
			return mapBookingError(err, bookingID)
		}
		if err := s.rooms.RemoveInterval(sessCtx, booking.RoomID, bookingID); err != nil {
			return mapRoomError(err, booking.RoomID)
		}
		return nil
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.Internal("Failed to commit cancellation", err)
	}

	booking.Status = model.BookingStatusCancelled
	booking.CancelledAt = &cancelledAt

	s.afterCommit(ctx, events.TypeBookingCancelled, booking)

	s.cfg.Log.Info("Reservation cancelled",
		"booking_id", booking.ID,
		"room_id", booking.RoomID,
	)
	return booking, nil
}

// Get returns a booking to its owner.
func (s *ReservationService) Get(ctx context.Context, userID, bookingID string) (*model.Booking, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("user identity is required")
	}

	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, mapBookingError(err, bookingID)
	}
	if booking.UserID != userID {
		return nil, apperrors.Forbidden("booking belongs to a different user")
	}
	return booking, nil
}

// afterCommit runs the best-effort side effects of a committed state change:
// cache invalidation and the lifecycle event. Neither can fail the request,
// the transaction has already committed.
func (s *ReservationService) afterCommit(ctx context.Context, eventType string, booking *model.Booking) {
	s.invalidator.InvalidateRoom(booking.RoomID)

	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	event := events.BookingEvent{
		Type:             eventType,
		BookingID:        booking.ID,
		RoomID:           booking.RoomID,
		UserID:           booking.UserID,
		GuestEmail:       booking.GuestEmail,
		CheckIn:          booking.CheckIn,
		CheckOut:         booking.CheckOut,
		ConfirmationCode: booking.ConfirmationCode,
	}
	if err := s.publisher.Publish(publishCtx, event); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event",
			"type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
	}
}

func conflictForRange(checkIn, checkOut time.Time) *apperrors.AppError {
	return apperrors.Conflict("room is not available for the requested dates").WithDetails(map[string]any{
		"check_in":  checkIn,
		"check_out": checkOut,
	})
}

func mapRoomError(err error, roomID string) error {
	switch {
	case errors.Is(err, roomserrors.ErrNotFound):
		return apperrors.NotFoundWithID("room", roomID)
	case errors.Is(err, roomserrors.ErrInvalidID):
		return apperrors.InvalidInput("invalid room ID format")
	default:
		return apperrors.Internal("Room store operation failed", err)
	}
}

func mapBookingError(err error, bookingID string) error {
	switch {
	case errors.Is(err, reserrors.ErrNotFound):
		return apperrors.NotFoundWithID("booking", bookingID)
	case errors.Is(err, reserrors.ErrInvalidID):
		return apperrors.InvalidInput("invalid booking ID format")
	default:
		return apperrors.Internal("Booking store operation failed", err)
	}
}
