package validator

import (
	"innkeep/internal/availability"
	apperrors "innkeep/pkg/errors"
	"innkeep/pkg/model"
	"time"

	"github.com/go-playground/validator/v10"
)

// ReservationValidator checks inbound reservation payloads before any store
// access. Structural rules come from the model tags; the date rules are the
// same ones the availability resolver applies to searches.
type ReservationValidator struct {
	validate *validator.Validate
}

func New() *ReservationValidator {
	return &ReservationValidator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (v *ReservationValidator) ValidateRequest(now time.Time, req *model.ReservationRequest) error {
	if req == nil {
		return apperrors.InvalidInput("request body is required")
	}

	if err := v.validate.Struct(req); err != nil {
		return apperrors.Validation("reservation request is invalid", fieldDetails(err))
	}

	return availability.ValidateStayRange(now, req.CheckIn, req.CheckOut)
}

func fieldDetails(err error) map[string]any {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	details := make(map[string]any, len(validationErrors))
	for _, fe := range validationErrors {
		details[fe.Field()] = fieldMessage(fe)
	}
	return details
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "is below the minimum of " + fe.Param()
	case "max":
		return "exceeds the maximum of " + fe.Param()
	case "email":
		return "must be a valid email address"
	case "e164":
		return "must be an E.164 phone number"
	case "mongodb":
		return "must be a valid object ID"
	default:
		return "failed rule: " + fe.Tag()
	}
}
