package postgres

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Helper functions for PostgreSQL error checking
func isNotNullConstraintViolation(err error) bool {
	errMsg := strings.ToLower(err.Error())

	return strings.Contains(errMsg, "null value") ||
		strings.Contains(errMsg, "not-null constraint") ||
		strings.Contains(errMsg, "23502") // PostgreSQL not_null_violation error code
}

func isCheckConstraintViolation(err error) bool {
	// GORM only translates this when TranslateError is enabled on the dialector
	if errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return true
	}

	errMsg := strings.ToLower(err.Error())

	return strings.Contains(errMsg, "check constraint") ||
		strings.Contains(errMsg, "23514") // PostgreSQL check_violation error code
}

func isStringTooLong(err error) bool {
	errMsg := strings.ToLower(err.Error())

	return strings.Contains(errMsg, "value too long") ||
		strings.Contains(errMsg, "22001") // PostgreSQL string_data_right_truncation error code
}

// isConstraintViolation reports whether the database rejected the row itself,
// as opposed to being unreachable or failing for an unrelated reason.
func isConstraintViolation(err error) bool {
	return isCheckConstraintViolation(err) || isNotNullConstraintViolation(err) || isStringTooLong(err)
}
