package events

import "time"

const (
	TypeBookingConfirmed = "booking.confirmed"
	TypeBookingCancelled = "booking.cancelled"
)

// Header keys shared with downstream consumers (the mailer keys off
// event-type to pick a template).
const (
	HeaderEventID   = "event-id"
	HeaderEventType = "event-type"
	HeaderSource    = "source"
	HeaderTimestamp = "timestamp"
)

// BookingEvent is the payload published after a reservation commit. Sending
// is best-effort: confirmation email delivery is owned by an external
// consumer of the topic, and a publish failure never rolls back a booking.
type BookingEvent struct {
	Type             string    `json:"type"`
	BookingID        string    `json:"booking_id"`
	RoomID           string    `json:"room_id"`
	UserID           string    `json:"user_id"`
	GuestEmail       string    `json:"guest_email"`
	CheckIn          time.Time `json:"check_in"`
	CheckOut         time.Time `json:"check_out"`
	ConfirmationCode string    `json:"confirmation_code,omitempty"`
	OccurredAt       time.Time `json:"occurred_at"`
}
