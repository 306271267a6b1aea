package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// DecodeAndValidate decodes the JSON body into v and checks its validate tags.
func DecodeAndValidate(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return validate.Struct(v)
}

// ValidationError is one failed field in a request payload.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FormatValidationErrors flattens validator errors into field/message pairs.
// Returns nil for errors that did not come from the validator, such as JSON
// decode failures.
func FormatValidationErrors(err error) []ValidationError {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}

	out := make([]ValidationError, 0, len(validationErrors))
	for _, e := range validationErrors {
		out = append(out, ValidationError{
			Field:   e.Field(),
			Message: messageForTag(e),
		})
	}
	return out
}

func messageForTag(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		return "Value is too short"
	case "max":
		return "Value is too long"
	case "gte":
		return "Value must be greater than or equal to " + e.Param()
	case "lte":
		return "Value must be less than or equal to " + e.Param()
	default:
		return "Invalid value"
	}
}
