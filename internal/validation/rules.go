// Package validation provides the custom jellydator rules used by request DTOs and configuration.
package validation

import (
	"encoding/base64"
	"strings"
	"unicode"
	"unicode/utf8"

	validation "github.com/jellydator/validation"

	apperrors "github.com/saferoute/vault/internal/errors"
)

// MaxRequestIDLength bounds request ids accepted by the vault.
const MaxRequestIDLength = 256

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// RequestID validates a caller supplied request id: at most MaxRequestIDLength bytes, no
// slash (it is used as a path segment on retrieve), and no control characters.
var RequestID = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_request_id_type", "must be a string")
	}
	if s == "" {
		return nil
	}
	if len(s) > MaxRequestIDLength {
		return validation.NewError("validation_request_id_length", "must be at most 256 bytes")
	}
	if !utf8.ValidString(s) {
		return validation.NewError("validation_request_id_utf8", "must be valid UTF-8")
	}
	for _, r := range s {
		if r == '/' || unicode.IsControl(r) {
			return validation.NewError(
				"validation_request_id_chars",
				"must not contain '/' or control characters",
			)
		}
	}
	return nil
})

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// Base64 validates that a string is valid standard base64.
var Base64 = validation.NewStringRuleWithError(
	func(s string) bool {
		_, err := base64.StdEncoding.DecodeString(s)
		return err == nil
	},
	validation.NewError("validation_base64", "must be valid base64-encoded data"),
)

// PowerOfTwo validates that an int is a positive power of two.
var PowerOfTwo = validation.By(func(value interface{}) error {
	n, ok := value.(int)
	if !ok {
		return validation.NewError("validation_power_of_two_type", "must be an integer")
	}
	if n <= 0 || n&(n-1) != 0 {
		return validation.NewError("validation_power_of_two", "must be a power of two")
	}
	return nil
})
