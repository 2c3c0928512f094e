// backend/src/security/validation/field_validator.go
package validation

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/username/kuyumcu/backend/src/logger"
)

var ErrValidationFailed = fmt.Errorf("validation failed")

// DateLayout is the calendar date format used by the store and the report API.
const DateLayout = "2006-01-02"

// MaxReportNameLength bounds a counterparty name in the fixed-width report.
const MaxReportNameLength = 120

// --- String Validators ---

// ValidateStringNotEmpty checks if a string is not empty after trimming.
func ValidateStringNotEmpty(s, fieldName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s cannot be empty", ErrValidationFailed, fieldName)
	}
	return nil
}

// --- Numeric Validators ---

// ValidateIntString parses a string to int and checks if it's within a range.
// An empty string yields the fallback.
func ValidateIntString(s, fieldName string, fallback, minVal, maxVal int) (int, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return fallback, nil
	}
	val, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: %s ('%s') is not a valid integer", ErrValidationFailed, fieldName, s)
	}
	if val < minVal || val > maxVal {
		logger.L.Warn("Integer value out of range", "field", fieldName, "value", val, "min", minVal, "max", maxVal)
		return 0, fmt.Errorf("%w: %s must be between %d and %d, got %d", ErrValidationFailed, fieldName, minVal, maxVal, val)
	}
	return val, nil
}

// --- Date Validator ---

// ValidateDateString checks if a string is a valid calendar date in "YYYY-MM-DD" format
// and returns it normalised.
func ValidateDateString(s, fieldName string) (string, error) {
	trimmed := strings.TrimSpace(s)
	if err := ValidateStringNotEmpty(trimmed, fieldName); err != nil {
		return "", err
	}
	t, err := time.Parse(DateLayout, trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %s ('%s') is not a valid date (expected YYYY-MM-DD)", ErrValidationFailed, fieldName, s)
	}
	if t.Format(DateLayout) != trimmed {
		return "", fmt.Errorf("%w: %s ('%s') is an invalid date", ErrValidationFailed, fieldName, s)
	}
	return trimmed, nil
}
