package entity

import (
	"fmt"
	"reflect"
	"strings"

	domainerrors "rutopia/internal/domain/errors"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var fieldValidator = newFieldValidator()

func newFieldValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report field paths by their JSON names (location.longitude, not Location.Longitude).
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// ValidateAlert checks every field-level constraint of the alert.
func ValidateAlert(alert *Alert) error {
	return validateStruct(alert, nil)
}

// ValidateAlertFields checks only the constraints belonging to the given top-level
// fields (JSON names, e.g. "title", "location"). Violations on other fields are ignored.
func ValidateAlertFields(alert *Alert, fields ...string) error {
	touched := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		touched[field] = struct{}{}
	}

	return validateStruct(alert, func(field string) bool {
		_, ok := touched[field]

		return ok
	})
}

// ValidateReport checks every field-level constraint of the report.
func ValidateReport(report *Report) error {
	return validateStruct(report, nil)
}

func validateStruct(value any, keep func(field string) bool) error {
	err := fieldValidator.Struct(value)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.WithStack(err)
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		path := fieldPath(fieldErr.Namespace())
		if keep != nil && !keep(topLevelField(path)) {
			continue
		}
		messages = append(messages, describeFieldError(path, fieldErr))
	}

	if len(messages) == 0 {
		return nil
	}

	return domainerrors.ErrValidationFailed.WithDetails(strings.Join(messages, "; "))
}

// fieldPath drops the leading struct type name from a validator namespace.
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}

	return namespace
}

func topLevelField(path string) string {
	head, _, _ := strings.Cut(path, ".")
	head, _, _ = strings.Cut(head, "[")

	return head
}

func describeFieldError(path string, fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", path)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", path, fieldErr.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", path, fieldErr.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", path, fieldErr.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", path, fieldErr.Param())
	default:
		return fmt.Sprintf("%s failed the %q rule", path, fieldErr.Tag())
	}
}
