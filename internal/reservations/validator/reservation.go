package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	reserrors "roomres/internal/reservations/errors"
	"roomres/pkg/logger"
	"roomres/pkg/model"
	"strings"

	"github.com/go-playground/validator/v10"
)

var clockRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Reason  string `json:"-"`
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

// Reason is the most fundamental reason among the errors: a missing field
// outranks a malformed one.
func (v ValidationErrors) Reason() string {
	if len(v) == 0 {
		return ""
	}
	for _, err := range v {
		if err.Reason == reserrors.ReasonMissingField {
			return reserrors.ReasonMissingField
		}
	}
	return v[0].Reason
}

func (v ValidationErrors) Fields() []string {
	fields := make([]string, 0, len(v))
	for _, err := range v {
		fields = append(fields, err.Field)
	}
	return fields
}

type ReservationValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewReservationValidator(log *logger.Logger) *ReservationValidator {
	v := validator.New()

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("clock", validateClock); err != nil {
		log.Fatal("Failed to register 'clock' validator",
			"error", err,
		)
	}

	log.Debug("Reservation validator initialized successfully")

	return &ReservationValidator{
		validate: v,
		logger:   log,
	}
}

func validateClock(fl validator.FieldLevel) bool {
	return clockRegex.MatchString(fl.Field().String())
}

// ValidateRequest checks that every field is present and well formed. The
// interval ordering is checked separately so its reason stays distinct.
func (v *ReservationValidator) ValidateRequest(req *model.ReservationRequest) error {
	if req == nil {
		return ValidationErrors{{Field: "request", Message: "request is required", Reason: reserrors.ReasonMissingField}}
	}
	return v.validateStruct(req)
}

// ValidateInterval requires start to be strictly before end.
func (v *ReservationValidator) ValidateInterval(start, end string) error {
	if start < end {
		return nil
	}
	return ValidationErrors{{
		Field:   "end_time",
		Message: "end_time must be after start_time",
		Reason:  reserrors.ReasonInvalidInterval,
	}}
}

// ValidateFilter checks an availability filter. The time window is all or
// nothing, and an inverted window is rejected like an inverted reservation.
func (v *ReservationValidator) ValidateFilter(filter *model.AvailabilityFilter) error {
	if filter == nil {
		return nil
	}

	if filter.PartialWindow() {
		return ValidationErrors{{
			Field:   "date",
			Message: "date, start_time and end_time must be provided together",
			Reason:  reserrors.ReasonPartialTimeWindow,
		}}
	}

	if filter.Capacity != nil && *filter.Capacity < model.DefaultMinCapacity {
		return ValidationErrors{{
			Field:   "capacity",
			Message: fmt.Sprintf("capacity must be at least %d", model.DefaultMinCapacity),
			Reason:  reserrors.ReasonInvalidCapacity,
		}}
	}

	if err := v.validateStruct(filter); err != nil {
		return err
	}

	if filter.HasWindow() {
		return v.ValidateInterval(filter.StartTime, filter.EndTime)
	}
	return nil
}

// ValidateDate requires a YYYY-MM-DD calendar date.
func (v *ReservationValidator) ValidateDate(date string) error {
	if date == "" {
		return ValidationErrors{{Field: "date", Message: "date is required", Reason: reserrors.ReasonMissingField}}
	}
	if err := v.validate.Var(date, "datetime="+model.DateLayout); err != nil {
		return ValidationErrors{{
			Field:   "date",
			Message: "date must be a date in YYYY-MM-DD format",
			Reason:  reserrors.ReasonInvalidFormat,
		}}
	}
	return nil
}

func (v *ReservationValidator) validateStruct(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *ReservationValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()
		reason := reserrors.ReasonInvalidFormat

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
			reason = reserrors.ReasonMissingField
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
			if err.Field() == "capacity" {
				reason = reserrors.ReasonInvalidCapacity
			}
		case "datetime":
			message = fmt.Sprintf("%s must be a date in YYYY-MM-DD format", err.Field())
		case "clock":
			message = fmt.Sprintf("%s must be a time in HH:MM format", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
			Reason:  reason,
		})
	}

	return validationErrors
}
