package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const maxRequestBodyBytes = 1 << 20

var (
	// validate is the singleton validator instance
	validate *validator.Validate
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names so loc matches the request body
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
}

// ValidationError carries the field errors of a rejected request
type ValidationError struct {
	Message string
	Fields  []FieldError
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", strings.Join(f.Loc, "."), f.Msg))
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(parts, "; "))
}

// NewFieldValidationError builds a ValidationError from explicit field errors
func NewFieldValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{
		Message: "Validation failed",
		Fields:  fields,
	}
}

// ValidateStruct validates a request body struct; field locations are prefixed with "body"
func ValidateStruct(s interface{}) error {
	return validateIn("body", s)
}

func validateIn(location string, s interface{}) error {
	if err := validate.Struct(s); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return NewValidationError(location, validationErrors)
		}
		return err
	}
	return nil
}

// NewValidationError creates a ValidationError from validator.ValidationErrors
func NewValidationError(location string, errs validator.ValidationErrors) *ValidationError {
	fields := make([]FieldError, 0, len(errs))
	for _, err := range errs {
		fields = append(fields, fieldError(location, err))
	}
	return NewFieldValidationError(fields...)
}

func fieldError(location string, err validator.FieldError) FieldError {
	loc := []string{location, err.Field()}
	param := err.Param()
	isString := err.Kind() == reflect.String

	switch err.Tag() {
	case "required":
		return FieldError{Loc: loc, Msg: "Field required", Type: "missing"}
	case "uuid", "uuid4":
		return FieldError{Loc: loc, Msg: "Input should be a valid UUID", Type: "uuid_parsing"}
	case "min":
		if isString {
			return FieldError{Loc: loc, Msg: fmt.Sprintf("String should have at least %s %s", param, plural(param, "character")), Type: "string_too_short"}
		}
		return FieldError{Loc: loc, Msg: fmt.Sprintf("Input should be greater than or equal to %s", param), Type: "greater_than_equal"}
	case "max":
		if isString {
			return FieldError{Loc: loc, Msg: fmt.Sprintf("String should have at most %s %s", param, plural(param, "character")), Type: "string_too_long"}
		}
		return FieldError{Loc: loc, Msg: fmt.Sprintf("Input should be less than or equal to %s", param), Type: "less_than_equal"}
	case "gte":
		return FieldError{Loc: loc, Msg: fmt.Sprintf("Input should be greater than or equal to %s", param), Type: "greater_than_equal"}
	case "lte":
		return FieldError{Loc: loc, Msg: fmt.Sprintf("Input should be less than or equal to %s", param), Type: "less_than_equal"}
	case "oneof":
		return FieldError{Loc: loc, Msg: fmt.Sprintf("Input should be one of: %s", param), Type: "enum"}
	default:
		return FieldError{Loc: loc, Msg: fmt.Sprintf("Value failed the '%s' check", err.Tag()), Type: "value_error"}
	}
}

func plural(count, word string) string {
	if count == "1" {
		return word
	}
	return word + "s"
}

// DecodeJSON decodes a JSON object request body into dst and validates it.
// Malformed bodies are reported as validation errors located at "body".
func DecodeJSON(r *http.Request, dst interface{}) error {
	body := http.MaxBytesReader(nil, r.Body, maxRequestBodyBytes)
	defer body.Close()

	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return NewFieldValidationError(FieldError{Loc: []string{"body"}, Msg: "Field required", Type: "missing"})
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return NewFieldValidationError(FieldError{
				Loc:  []string{"body", typeErr.Field},
				Msg:  fmt.Sprintf("Input should be a valid %s", jsonKind(typeErr.Type)),
				Type: jsonKind(typeErr.Type) + "_type",
			})
		}
		return NewFieldValidationError(FieldError{Loc: []string{"body"}, Msg: "JSON decode error", Type: "json_invalid"})
	}

	return ValidateStruct(dst)
}

func jsonKind(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	default:
		return "dictionary"
	}
}

// IsValidationError checks if an error is a ValidationError
func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// GetValidationFields extracts field errors from a ValidationError
func GetValidationFields(err error) []FieldError {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Fields
	}
	return nil
}

// ParseUUIDParam parses a path parameter as a UUID, reporting failures at ["path", name]
func ParseUUIDParam(name, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, NewFieldValidationError(FieldError{
			Loc:  []string{"path", name},
			Msg:  "Input should be a valid UUID",
			Type: "uuid_parsing",
		})
	}
	return id, nil
}
