// Package validate runs go-playground/validator rules on request structs and
// reports failures as a map of JSON field name to message.
//
//	type TaskInput struct {
//	    ProjectID   int64  `json:"projectId"   validate:"required,gt=0"`
//	    Description string `json:"description" validate:"required,max=2000"`
//	    Status      string `json:"status"      validate:"omitempty,oneof=Pending 'In Progress' Completed"`
//	}
//
//	if errs := validate.Struct(in); validate.HasErrors(errs) { ... }
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once sync.Once
	v    *validator.Validate
)

// Validator returns the shared validator, keyed on json tag names.
func Validator() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			switch name {
			case "-":
				return ""
			case "":
				return f.Name
			}
			return name
		})
	})
	return v
}

// Struct validates s. The returned map is empty when s is valid.
func Struct(s interface{}) map[string]string {
	errs := make(map[string]string)

	err := Validator().Struct(s)
	if err == nil {
		return errs
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		// InvalidValidationError: s is not a struct.
		return errs
	}
	for _, fe := range ve {
		name := fieldPath(fe)
		if _, seen := errs[name]; !seen {
			errs[name] = message(fe, fe.Field())
		}
	}
	return errs
}

// Var validates a single value against tag, reporting it under field.
func Var(field string, value interface{}, tag string) map[string]string {
	errs := make(map[string]string)

	var ve validator.ValidationErrors
	if err := Validator().Var(value, tag); errors.As(err, &ve) && len(ve) > 0 {
		errs[field] = message(ve[0], field)
	}
	return errs
}

// HasErrors returns true when the errs map is non-empty.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

// fieldPath drops the top-level struct name: "TaskInput.status" → "status".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func message(fe validator.FieldError, field string) string {
	param := fe.Param()
	numeric := isNumeric(fe.Kind())

	switch fe.Tag() {
	case "required", "required_if", "required_with", "required_without":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", field)
	case "url", "http_url":
		return fmt.Sprintf("The %s must be a valid URL.", field)
	case "uuid", "uuid4":
		return fmt.Sprintf("The %s must be a valid UUID.", field)
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid (one of: %s).", field, param)
	case "datetime":
		return fmt.Sprintf("The %s does not match the format %s.", field, param)
	case "min":
		if numeric {
			return fmt.Sprintf("The %s must be at least %s.", field, param)
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("The %s must have at least %s items.", field, param)
		}
		return fmt.Sprintf("The %s must be at least %s characters.", field, param)
	case "max":
		if numeric {
			return fmt.Sprintf("The %s must not be greater than %s.", field, param)
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("The %s must not have more than %s items.", field, param)
		}
		return fmt.Sprintf("The %s must not be greater than %s characters.", field, param)
	case "gt":
		return fmt.Sprintf("The %s must be greater than %s.", field, param)
	case "gte":
		return fmt.Sprintf("The %s must be greater than or equal to %s.", field, param)
	case "lt":
		return fmt.Sprintf("The %s must be less than %s.", field, param)
	case "lte":
		return fmt.Sprintf("The %s must be less than or equal to %s.", field, param)
	case "gtefield", "gtfield":
		return fmt.Sprintf("The %s must not be before %s.", field, param)
	case "eqfield":
		return fmt.Sprintf("The %s confirmation does not match.", field)
	default:
		return fmt.Sprintf("The %s is invalid (%s).", field, fe.Tag())
	}
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
