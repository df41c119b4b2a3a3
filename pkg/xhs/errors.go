package xhs

import (
	"errors"
	"fmt"
)

// ErrorType classifies remote catalog API failures.
type ErrorType string

const (
	// ErrorTypeAuthInvalid means the credential bundle was rejected or has
	// expired. Not retryable; the account needs a fresh cookie.
	ErrorTypeAuthInvalid ErrorType = "auth_invalid"

	// ErrorTypeVerificationRequired means the remote side demands
	// interactive human verification. Not recoverable automatically; must
	// be surfaced to an operator.
	ErrorTypeVerificationRequired ErrorType = "verification_required"

	// ErrorTypeRateLimited means the caller should back off.
	ErrorTypeRateLimited ErrorType = "rate_limited"

	// ErrorTypeUnknown covers any other failure, message preserved.
	ErrorTypeUnknown ErrorType = "unknown"
)

// Error is a structured remote catalog API failure. Code carries the remote
// business code when present, or the HTTP status otherwise.
type Error struct {
	Type    ErrorType
	Message string
	Code    int
}

func (e *Error) Error() string {
	return fmt.Sprintf("xhs %s error (code %d): %s", e.Type, e.Code, e.Message)
}

// typeOf extracts the ErrorType from an error chain, or ErrorTypeUnknown.
func typeOf(err error) ErrorType {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Type
	}
	return ErrorTypeUnknown
}

// IsAuthInvalid reports whether err is a credential rejection.
func IsAuthInvalid(err error) bool {
	return typeOf(err) == ErrorTypeAuthInvalid
}

// IsVerificationRequired reports whether err demands human verification.
func IsVerificationRequired(err error) bool {
	return typeOf(err) == ErrorTypeVerificationRequired
}

// IsRateLimited reports whether err is a back-off signal.
func IsRateLimited(err error) bool {
	return typeOf(err) == ErrorTypeRateLimited
}
