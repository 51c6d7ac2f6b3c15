// Package error defines domain-specific errors for the fitness companion.
package error

import "errors"

// Fetch domain errors.
var (
	// ErrTransientFetch is returned when a fetch fails for a reason expected to
	// clear up on its own (network failure, timeout, 429, 5xx).
	ErrTransientFetch = errors.New("transient fetch failure")

	// ErrFetchRejected is returned when the fitness API rejects a request (4xx).
	ErrFetchRejected = errors.New("fetch rejected by server")

	// ErrMalformedResponse is returned when a response body cannot be decoded.
	ErrMalformedResponse = errors.New("malformed response from fitness API")

	// ErrUnknownEntityKind is returned for an entity kind the companion does not poll.
	ErrUnknownEntityKind = errors.New("unknown entity kind")
)

// FetchErrorCode defines error codes for fetch errors.
// Format: FET-XXYYYY where XX is category and YYYY is specific error.
type FetchErrorCode string

const (
	// Transport errors (01XXXX)
	ErrCodeTransientFetch FetchErrorCode = "FET-010001"
	ErrCodeFetchTimeout   FetchErrorCode = "FET-010002"

	// Server errors (02XXXX)
	ErrCodeFetchRejected     FetchErrorCode = "FET-020001"
	ErrCodeFetchUnauthorized FetchErrorCode = "FET-020002"
	ErrCodeFetchNotFound     FetchErrorCode = "FET-020003"

	// Payload errors (03XXXX)
	ErrCodeMalformedResponse FetchErrorCode = "FET-030001"
	ErrCodeUnknownEntityKind FetchErrorCode = "FET-030002"
)

// FetchError represents a fetch error with code and message.
type FetchError struct {
	Code       FetchErrorCode
	Message    string
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether the failure may succeed on a later poll.
func (e *FetchError) IsTransient() bool {
	return errors.Is(e.Err, ErrTransientFetch)
}

// NewFetchError creates a new FetchError with the given code and message.
func NewFetchError(code FetchErrorCode, message string, statusCode int, err error) *FetchError {
	return &FetchError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Err:        err,
	}
}

// IsTransientFetch reports whether err is, or wraps, a transient fetch failure.
func IsTransientFetch(err error) bool {
	return errors.Is(err, ErrTransientFetch)
}
