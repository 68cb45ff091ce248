// Package errors provides structured domain errors with machine-readable codes.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// User errors
	CodeUserEmptyEmail      Code = "USER_EMPTY_EMAIL"
	CodeUserInvalidEmail    Code = "USER_INVALID_EMAIL"
	CodeUserPasswordTooWeak Code = "USER_PASSWORD_TOO_WEAK"
	CodeUserPasswordTooLong Code = "USER_PASSWORD_TOO_LONG"
	CodeUserPasswordHash    Code = "USER_PASSWORD_HASH"

	// Session errors
	CodeSessionInvalid Code = "SESSION_INVALID"
	CodeSessionExpired Code = "SESSION_EXPIRED"

	// Storage errors
	CodeNotFound      Code = "NOT_FOUND"
	CodeAlreadyExists Code = "ALREADY_EXISTS"
)

// IsValidation reports whether the code describes caller input that failed
// validation rather than an infrastructure fault.
func (c Code) IsValidation() bool {
	switch c {
	case CodeUserEmptyEmail, CodeUserInvalidEmail, CodeUserPasswordTooWeak, CodeUserPasswordTooLong:
		return true
	default:
		return false
	}
}
