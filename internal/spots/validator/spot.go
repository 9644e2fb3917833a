package validator

import (
	"errors"
	"fmt"
	"strings"

	"parkspot/pkg/logger"
	"parkspot/pkg/model"
	"parkspot/pkg/schedule"

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

type SpotValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewSpotValidator(log *logger.Logger) *SpotValidator {
	v := validator.New()

	log.Info("Spot validator initialized successfully")

	return &SpotValidator{
		validate: v,
		logger:   log,
	}
}

func (v *SpotValidator) ValidateCreate(create *model.SpotCreate) error {
	if err := v.validate.Struct(create); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if errs := validateCoordinates(create.Location); errs != nil {
		return errs
	}

	if !create.Days.Any() {
		return ValidationErrors{
			ValidationError{
				Field:   "AvailableDays",
				Message: "at least one day must be available",
			},
		}
	}

	return nil
}

func (v *SpotValidator) ValidateUpdate(update *model.SpotUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if update.Location != nil {
		if errs := validateCoordinates(*update.Location); errs != nil {
			return errs
		}
	}

	if update.Days != nil && !update.Days.Any() {
		return ValidationErrors{
			ValidationError{
				Field:   "AvailableDays",
				Message: "at least one day must be available",
			},
		}
	}

	return nil
}

func (v *SpotValidator) ValidateNearby(query *model.NearbyQuery) error {
	var errs ValidationErrors

	if query.Latitude < -90 || query.Latitude > 90 {
		errs = append(errs, ValidationError{
			Field:   "Latitude",
			Message: "latitude must be between -90 and 90",
		})
	}
	if query.Longitude < -180 || query.Longitude > 180 {
		errs = append(errs, ValidationError{
			Field:   "Longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if query.StartTime != "" && !schedule.ValidHHMM(query.StartTime) {
		errs = append(errs, ValidationError{
			Field:   "StartTime",
			Message: "start_time must be in HH:MM format",
		})
	}
	if query.EndTime != "" && !schedule.ValidHHMM(query.EndTime) {
		errs = append(errs, ValidationError{
			Field:   "EndTime",
			Message: "end_time must be in HH:MM format",
		})
	}

	if query.StartTime != "" && query.EndTime != "" &&
		schedule.ValidHHMM(query.StartTime) && schedule.ValidHHMM(query.EndTime) {
		start, _ := schedule.ParseMinute(query.StartTime)
		end, _ := schedule.ParseMinute(query.EndTime)
		if end <= start {
			errs = append(errs, ValidationError{
				Field:   "EndTime",
				Message: "end_time must be after start_time",
			})
		}
	}

	if query.MaxPrice != nil && *query.MaxPrice < 0 {
		errs = append(errs, ValidationError{
			Field:   "MaxPrice",
			Message: "max_price cannot be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateCoordinates(point model.GeoPoint) ValidationErrors {
	if len(point.Coordinates) != 2 {
		return ValidationErrors{
			ValidationError{
				Field:   "Location",
				Message: "coordinates must be [longitude, latitude]",
			},
		}
	}
	lon, lat := point.Coordinates[0], point.Coordinates[1]
	if lon < -180 || lon > 180 {
		return ValidationErrors{
			ValidationError{
				Field:   "Location",
				Message: "longitude must be between -180 and 180",
			},
		}
	}
	if lat < -90 || lat > 90 {
		return ValidationErrors{
			ValidationError{
				Field:   "Location",
				Message: "latitude must be between -90 and 90",
			},
		}
	}
	return nil
}

func (v *SpotValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
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
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "uuid4":
			message = fmt.Sprintf("%s must be a valid UUID", err.Field())
		case "gte":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "len":
			message = fmt.Sprintf("%s must have exactly %s elements", err.Field(), err.Param())
		case "eq":
			message = fmt.Sprintf("%s must equal %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
