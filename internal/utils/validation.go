package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var vinRegex = regexp.MustCompile(fmt.Sprintf(`^[A-HJ-NPR-Z0-9]{%d}$`, VINLength))

func init() {
	validate = validator.New()

	// Register custom validators
	validate.RegisterValidation("vin_number", validateVIN)
	validate.RegisterValidation("testing_schedule", validateTestingSchedule)
	validate.RegisterValidation("test_result", validateTestResult)
	validate.RegisterValidation("reminder_type", validateReminderType)
	validate.RegisterValidation("fuel_type", validateFuelType)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateVIN(fl validator.FieldLevel) bool {
	vin := strings.ToUpper(fl.Field().String())
	return vinRegex.MatchString(vin)
}

func validateTestingSchedule(fl validator.FieldLevel) bool {
	schedule := fl.Field().String()
	return schedule == "SEMI_ANNUAL" || schedule == "QUARTERLY"
}

func validateTestResult(fl validator.FieldLevel) bool {
	result := fl.Field().String()
	return result == "PASS" || result == "FAIL"
}

func validateReminderType(fl validator.FieldLevel) bool {
	reminderType := fl.Field().String()
	return reminderType == "EMAIL" || reminderType == "SMS"
}

func validateFuelType(fl validator.FieldLevel) bool {
	fuelType := fl.Field().String()
	return fuelType == "DIESEL" || fuelType == "ALT_FUEL"
}

// ValidationErrorDetails flattens validator errors into a field -> message
// map suitable for an API error payload.
func ValidationErrorDetails(err error) map[string]string {
	details := make(map[string]string)

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		details["error"] = err.Error()
		return details
	}

	for _, fieldErr := range validationErrors {
		field := strings.ToLower(fieldErr.Field())
		switch fieldErr.Tag() {
		case "required":
			details[field] = "This field is required"
		case "email":
			details[field] = "Invalid email address"
		case "vin_number", "len":
			details[field] = "Invalid VIN"
		case "testing_schedule":
			details[field] = "Must be SEMI_ANNUAL or QUARTERLY"
		case "test_result":
			details[field] = "Must be PASS or FAIL"
		case "reminder_type":
			details[field] = "Must be EMAIL or SMS"
		case "fuel_type":
			details[field] = "Must be DIESEL or ALT_FUEL"
		default:
			details[field] = "Invalid value"
		}
	}

	return details
}
