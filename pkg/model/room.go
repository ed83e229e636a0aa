package model

import "time"

// Room is the authoritative document for a bookable unit. BookedIntervals is
// the source of truth for occupancy: entries are appended and removed only
// inside the reservation transactions, never by readers.
type Room struct {
	ID              string           `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name            string           `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Destination     string           `json:"destination" bson:"destination" validate:"required,min=2,max=50"`
	Capacity        int              `json:"capacity" bson:"capacity" validate:"required,min=1,max=20"`
	NightlyRate     float64          `json:"nightly_rate" bson:"nightly_rate" validate:"required,gt=0"`
	Active          bool             `json:"active" bson:"active"`
	Available       bool             `json:"available" bson:"available"`
	BookedIntervals []BookedInterval `json:"booked_intervals,omitempty" bson:"booked_intervals" validate:"omitempty,dive"`
	CreatedAt       time.Time        `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt       time.Time        `json:"updated_at,omitempty" bson:"updated_at" validate:"omitempty"`
}

// BookedInterval is a half-open [check_in, check_out) range owned by the room
// that embeds it. It exists exactly as long as its confirmed booking does.
type BookedInterval struct {
	CheckIn   time.Time `json:"check_in" bson:"check_in" validate:"required"`
	CheckOut  time.Time `json:"check_out" bson:"check_out" validate:"required,gtfield=CheckIn"`
	BookingID string    `json:"booking_id" bson:"booking_id" validate:"required,mongodb"`
}

// RoomOffer is a room priced for a concrete stay.
type RoomOffer struct {
	Room       Room    `json:"room"`
	Nights     int     `json:"nights"`
	TotalPrice float64 `json:"total_price"`
}
