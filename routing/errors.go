package routing

import (
	"errors"
	"fmt"
)

// ErrorType classifies a routing or invocation failure.
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeConfiguration
	ErrorTypeMissingCredential
	ErrorTypeRequest
	ErrorTypeResponse
	ErrorTypeAPI
	ErrorTypeRateLimit
	ErrorTypeAuthentication
	ErrorTypeProvider
)

// Error represents a failure anywhere between configuration resolution
// and the single provider round trip. The Type tells a caller whether
// the user forgot a key (Configuration, MissingCredential) or the call
// to the model itself failed (everything else).
type Error struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %v", e.TypeString(), e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.TypeString(), e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) TypeString() string {
	switch e.Type {
	case ErrorTypeConfiguration:
		return "ConfigurationError"
	case ErrorTypeMissingCredential:
		return "MissingCredentialError"
	case ErrorTypeRequest:
		return "RequestError"
	case ErrorTypeResponse:
		return "ResponseError"
	case ErrorTypeAPI:
		return "APIError"
	case ErrorTypeRateLimit:
		return "RateLimitError"
	case ErrorTypeAuthentication:
		return "AuthenticationError"
	case ErrorTypeProvider:
		return "ProviderError"
	default:
		return "UnknownError"
	}
}

// NewError creates a new routing Error.
func NewError(errType ErrorType, message string, err error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// TypeOf returns the ErrorType carried by err, or ErrorTypeUnknown if
// err is not a routing Error.
func TypeOf(err error) ErrorType {
	var re *Error
	if errors.As(err, &re) {
		return re.Type
	}
	return ErrorTypeUnknown
}

// IsCredentialError reports whether err means the user has to fix
// their configuration rather than the call itself failing.
func IsCredentialError(err error) bool {
	switch TypeOf(err) {
	case ErrorTypeConfiguration, ErrorTypeMissingCredential:
		return true
	default:
		return false
	}
}
