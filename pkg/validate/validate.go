// Package validate provides validation, sanitization, and limits for the launch packages.
package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ronuchit/predicators/pkg/core"
)

// Limits for grid field values and stored messages.
const (
	// MaxFieldValueLength is the maximum length for a single identity field
	// value (environment, method, axis value).
	MaxFieldValueLength = 128

	// MaxIdentityLength is the maximum length for a composed job identity.
	// Matches the size of the identity column in the record store.
	MaxIdentityLength = 255

	// MaxReasonLength is the maximum length for stored failure reasons.
	MaxReasonLength = 4096

	// MaxSeeds is the hard limit on the number of seeds in one axis.
	MaxSeeds = 10000
)

// validFieldValue matches alphanumeric, hyphens, underscores, and dots.
// Double underscores are excluded separately since they are the identity
// separator.
var validFieldValue = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_\-\.]*$`)

// FieldValue validates one identity field value. Values containing the
// "__" identity separator are rejected so that distinct specs can never
// compose to the same identity string.
func FieldValue(field, value string) error {
	if value == "" || !validFieldValue.MatchString(value) {
		return &core.IdentityError{Field: field, Value: value, Err: core.ErrInvalidFieldValue}
	}
	if len(value) > MaxFieldValueLength {
		return &core.IdentityError{Field: field, Value: value, Err: core.ErrFieldValueTooLong}
	}
	if strings.Contains(value, "__") {
		return &core.IdentityError{Field: field, Value: value, Err: core.ErrSeparatorInField}
	}
	return nil
}

// SanitizeReason truncates and sanitizes failure messages for storage.
func SanitizeReason(msg string) string {
	if msg == "" {
		return ""
	}

	// Strip null bytes and control characters (except newlines and tabs).
	var sanitized strings.Builder
	sanitized.Grow(len(msg))
	for _, r := range msg {
		if r == '\n' || r == '\r' || r == '\t' || (r >= 32 && r != 127) {
			sanitized.WriteRune(r)
		}
	}

	result := sanitized.String()
	if utf8.RuneCountInString(result) > MaxReasonLength {
		runes := []rune(result)
		result = string(runes[:MaxReasonLength-3]) + "..."
	}
	return result
}

// ClampSeedCount ensures a seed count is within limits.
func ClampSeedCount(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxSeeds {
		return MaxSeeds
	}
	return n
}
