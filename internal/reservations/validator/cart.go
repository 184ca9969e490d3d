package validator

import (
	"errors"
	"fmt"
	"strings"

	"staybook/pkg/logger"
	"staybook/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// CartValidator checks request payloads and commit preconditions. Capacity is
// deliberately not checked here; only the commit transaction can do that
// authoritatively.
type CartValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewCartValidator(log *logger.Logger) *CartValidator {
	v := validator.New()

	log.Info("Cart validator initialized successfully")

	return &CartValidator{
		validate: v,
		logger:   log,
	}
}

// ValidateRequest applies the struct tags of a request payload.
func (v *CartValidator) ValidateRequest(payload any) error {
	if err := v.validate.Struct(payload); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

// ValidateForCommit enforces the commit preconditions on a cart snapshot: a
// stay range must be set, the cart must not be empty, and a cart holding only
// services cannot be committed without a room.
func (v *CartValidator) ValidateForCommit(cart *model.Cart) error {
	var errs ValidationErrors

	if cart.IsEmpty() {
		errs = append(errs, ValidationError{
			Field:   "Cart",
			Message: "cart is empty",
		})
		return errs
	}

	if !cart.HasStay() {
		errs = append(errs, ValidationError{
			Field:   "Stay",
			Message: "check-in and check-out dates are required",
		})
	} else if !cart.CheckOut.After(cart.CheckIn) {
		errs = append(errs, ValidationError{
			Field:   "CheckOut",
			Message: "check_out must be after check_in",
		})
	} else if cart.Nights() < 1 {
		// A sub-day range expands to zero night keys, nothing to reserve.
		errs = append(errs, ValidationError{
			Field:   "Stay",
			Message: "stay must span at least one night",
		})
	}

	if len(cart.Rooms) == 0 {
		errs = append(errs, ValidationError{
			Field:   "Rooms",
			Message: "at least one room selection is required",
		})
	}

	for roomID, sel := range cart.Rooms {
		if sel.Quantity <= 0 {
			errs = append(errs, ValidationError{
				Field:   "Rooms",
				Message: fmt.Sprintf("room %s has non-positive quantity (%d)", roomID, sel.Quantity),
			})
		}
	}

	for i, sel := range cart.Services {
		if sel.Quantity <= 0 {
			errs = append(errs, ValidationError{
				Field:   "Services",
				Message: fmt.Sprintf("service line %d has non-positive quantity (%d)", i, sel.Quantity),
			})
		}
		if sel.ScheduledAt.IsZero() {
			errs = append(errs, ValidationError{
				Field:   "Services",
				Message: fmt.Sprintf("service line %d has no schedule", i),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (v *CartValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "datetime":
			message = fmt.Sprintf("%s must match layout %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
