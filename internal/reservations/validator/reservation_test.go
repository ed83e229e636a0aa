package validator

import (
	apperrors "innkeep/pkg/errors"
	"innkeep/pkg/model"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validRequest() *model.ReservationRequest {
	return &model.ReservationRequest{
		RoomID:     "507f1f77bcf86cd799439011",
		CheckIn:    date(2025, 6, 1),
		CheckOut:   date(2025, 6, 3),
		GuestCount: 2,
		GuestName:  "Dana Levi",
		GuestEmail: "dana@example.com",
	}
}

func TestValidRequestPasses(t *testing.T) {
	v := New()
	if err := v.ValidateRequest(date(2025, 5, 1), validRequest()); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
}

func TestNilRequestRejected(t *testing.T) {
	v := New()
	if err := v.ValidateRequest(date(2025, 5, 1), nil); !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

func TestStructuralFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.ReservationRequest)
		field  string
	}{
		{"missing room id", func(r *model.ReservationRequest) { r.RoomID = "" }, "RoomID"},
		{"malformed room id", func(r *model.ReservationRequest) { r.RoomID = "not-an-object-id" }, "RoomID"},
		{"zero guests", func(r *model.ReservationRequest) { r.GuestCount = 0 }, "GuestCount"},
		{"too many guests", func(r *model.ReservationRequest) { r.GuestCount = 21 }, "GuestCount"},
		{"short guest name", func(r *model.ReservationRequest) { r.GuestName = "D" }, "GuestName"},
		{"bad email", func(r *model.ReservationRequest) { r.GuestEmail = "not-an-email" }, "GuestEmail"},
		{"bad phone", func(r *model.ReservationRequest) { r.GuestPhone = "12345" }, "GuestPhone"},
	}

	v := New()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(req)

			err := v.ValidateRequest(date(2025, 5, 1), req)
			if !apperrors.HasCode(err, apperrors.CodeValidation) {
				t.Fatalf("expected VALIDATION_ERROR, got %v", err)
			}
			appErr := apperrors.AsAppError(err)
			if _, ok := appErr.Details[tc.field]; !ok {
				t.Errorf("details missing field %s: %v", tc.field, appErr.Details)
			}
		})
	}
}

func TestDateRules(t *testing.T) {
	v := New()

	req := validRequest()
	req.CheckIn = date(2025, 6, 3)
	req.CheckOut = date(2025, 6, 1)
	if err := v.ValidateRequest(date(2025, 5, 1), req); !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("inverted range: expected VALIDATION_ERROR, got %v", err)
	}

	req = validRequest()
	req.CheckIn = date(2025, 4, 1)
	req.CheckOut = date(2025, 4, 3)
	if err := v.ValidateRequest(date(2025, 5, 1), req); !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("past check-in: expected VALIDATION_ERROR, got %v", err)
	}

	// Same-day check-in is allowed.
	req = validRequest()
	req.CheckIn = date(2025, 5, 1)
	req.CheckOut = date(2025, 5, 2)
	if err := v.ValidateRequest(date(2025, 5, 1), req); err != nil {
		t.Fatalf("same-day check-in rejected: %v", err)
	}
}
