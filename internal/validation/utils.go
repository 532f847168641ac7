package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/deppfellow/registration-service/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validatable is implemented by request payload types that know how to validate themselves.
//
// Typical pattern:
// - Define a request struct with validator tags (`validate:"required,email"`)
// - Implement Validate() error that runs validation.Struct(req)
// - Return validator.ValidationErrors (or CustomValidationErrors for custom cases)
type Validatable interface {
	Validate() error
}

// CustomValidationError represents a single validation issue for a specific field.
// Used for rules that cannot be expressed via validator tags.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors is a slice of custom validation errors that satisfies error.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

// BindAndValidate binds request data into payload and validates it.
//
// Flow:
//  1. The body is decoded as JSON whatever the Content-Type header says.
//     A JSON type mismatch on one field does not stop decoding of the others;
//     it is recorded as a field error and validation still runs.
//  2. payload.Validate() applies validation rules.
//  3. Every failure is returned at once as a 400 *errs.HTTPError.
//
// payload must be a pointer so it can be populated.
func BindAndValidate(c echo.Context, payload Validatable) error {
	var fieldErrors []errs.FieldError

	if err := bindBody(c, payload); err != nil {
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &typeErr) && typeErr.Field != "":
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field:   typeErr.Field,
				Message: typeMismatchMessage(typeErr.Type),
			})
		case errors.As(err, &typeErr):
			return errs.NewBadRequestError(NonObjectBodyMessage, false, nil, nil)
		default:
			return errs.NewBadRequestError(bindErrorMessage(err), false, nil, nil)
		}
	}

	if _, validationErrors := validateStruct(payload); validationErrors != nil {
		fieldErrors = mergeFieldErrors(fieldErrors, validationErrors)
	}

	if len(fieldErrors) > 0 {
		return errs.NewBadRequestError("Validation failed", true, nil, fieldErrors)
	}

	return nil
}

// NonObjectBodyMessage is returned when the body is valid JSON but not an object.
const NonObjectBodyMessage = "Request body must be a JSON object"

// bindBody decodes the request body with echo's JSON serializer. Clients that
// omit the Content-Type header are still decoded instead of getting a 415.
// An empty body leaves payload zeroed so validation reports every missing field.
func bindBody(c echo.Context, payload any) error {
	if c.Request().ContentLength == 0 {
		return nil
	}

	err := c.Echo().JSONSerializer.Deserialize(c, payload)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// validateStruct calls v.Validate() and extracts field errors if validation fails.
func validateStruct(v Validatable) (string, []errs.FieldError) {
	if err := v.Validate(); err != nil {
		return extractValidationError(err)
	}
	return "", nil
}

// mergeFieldErrors appends extra to base, skipping fields base already reports.
// A field that failed to decode is also empty, so validation would report it twice.
func mergeFieldErrors(base, extra []errs.FieldError) []errs.FieldError {
	seen := make(map[string]bool, len(base))
	for _, fe := range base {
		seen[fe.Field] = true
	}
	for _, fe := range extra {
		if !seen[fe.Field] {
			base = append(base, fe)
		}
	}
	return base
}

func extractValidationError(err error) (string, []errs.FieldError) {
	var fieldErrors []errs.FieldError

	var customValidationErrors CustomValidationErrors
	if errors.As(err, &customValidationErrors) {
		for _, err := range customValidationErrors {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field:   err.Field,
				Message: err.Message,
			})
		}
		return "Validation failed", fieldErrors
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "Validation failed", []errs.FieldError{{Field: "body", Message: err.Error()}}
	}

	for _, err := range validationErrors {
		var msg string

		switch err.Tag() {
		case "required":
			msg = "is required"

		case "min":
			if err.Type().Kind() == reflect.String {
				msg = fmt.Sprintf("must be at least %s characters", err.Param())
			} else {
				msg = fmt.Sprintf("must be at least %s", err.Param())
			}

		case "max":
			if err.Type().Kind() == reflect.String {
				msg = fmt.Sprintf("must not exceed %s characters", err.Param())
			} else {
				msg = fmt.Sprintf("must not exceed %s", err.Param())
			}

		case "oneof":
			msg = fmt.Sprintf("must be one of: %s", err.Param())

		case "email", "email_domain":
			msg = "must be a valid email address"

		case "string_array":
			msg = "must be an array of strings"

		default:
			if err.Param() != "" {
				msg = fmt.Sprintf("%s: %s:%s", err.Field(), err.Tag(), err.Param())
			} else {
				msg = fmt.Sprintf("%s: %s", err.Field(), err.Tag())
			}
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field:   err.Field(),
			Message: msg,
		})
	}

	return "Validation failed", fieldErrors
}

func typeMismatchMessage(t reflect.Type) string {
	if t == nil {
		return "has an invalid type"
	}
	switch t.Kind() {
	case reflect.String:
		return "must be a string"
	case reflect.Slice, reflect.Array:
		return "must be an array"
	default:
		return fmt.Sprintf("must be of type %s", t.Kind())
	}
}

// bindErrorMessage extracts echo's message without depending on its formatting.
func bindErrorMessage(err error) string {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return "Request body is not valid JSON"
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		if msg, ok := echoErr.Message.(string); ok {
			return msg
		}
	}
	return "Invalid request body"
}
