package model

import "time"

const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

type Booking struct {
	ID               string     `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	RoomID           string     `json:"room_id" bson:"room_id" validate:"required,mongodb"`
	UserID           string     `json:"user_id" bson:"user_id" validate:"required,min=1,max=100"`
	CheckIn          time.Time  `json:"check_in" bson:"check_in" validate:"required"`
	CheckOut         time.Time  `json:"check_out" bson:"check_out" validate:"required,gtfield=CheckIn"`
	GuestCount       int        `json:"guest_count" bson:"guest_count" validate:"required,min=1,max=20"`
	GuestName        string     `json:"guest_name" bson:"guest_name" validate:"required,min=2,max=100"`
	GuestEmail       string     `json:"guest_email" bson:"guest_email" validate:"required,email"`
	GuestPhone       string     `json:"guest_phone,omitempty" bson:"guest_phone" validate:"omitempty,e164"`
	TotalAmount      float64    `json:"total_amount" bson:"total_amount" validate:"omitempty,gte=0"`
	ConfirmationCode string     `json:"confirmation_code,omitempty" bson:"confirmation_code" validate:"omitempty"`
	Status           string     `json:"status" bson:"status" validate:"required,oneof=confirmed cancelled"`
	CreatedAt        time.Time  `json:"created_at" bson:"created_at" validate:"omitempty"`
	CancelledAt      *time.Time `json:"cancelled_at,omitempty" bson:"cancelled_at,omitempty" validate:"omitempty"`
}

// ReservationRequest is the inbound payload for creating a booking. The user
// id comes from the identity header, not the body.
type ReservationRequest struct {
	RoomID     string    `json:"room_id" validate:"required,mongodb"`
	CheckIn    time.Time `json:"check_in" validate:"required"`
	CheckOut   time.Time `json:"check_out" validate:"required"`
	GuestCount int       `json:"guest_count" validate:"required,min=1,max=20"`
	GuestName  string    `json:"guest_name" validate:"required,min=2,max=100"`
	GuestEmail string    `json:"guest_email" validate:"required,email"`
	GuestPhone string    `json:"guest_phone,omitempty" validate:"omitempty,e164"`
}
