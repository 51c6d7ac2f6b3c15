package error

import "errors"

// Ledger domain errors.
var (
	// ErrLedgerUnavailable is returned when the idempotency ledger backend cannot be reached.
	ErrLedgerUnavailable = errors.New("idempotency ledger unavailable")

	// ErrUnknownLedgerBackend is returned when the configured ledger backend is not supported.
	ErrUnknownLedgerBackend = errors.New("unknown ledger backend")
)

// LedgerErrorCode defines error codes for ledger errors.
// Format: LDG-XXYYYY where XX is category and YYYY is specific error.
type LedgerErrorCode string

const (
	ErrCodeLedgerUnavailable    LedgerErrorCode = "LDG-010001"
	ErrCodeLedgerWriteFailed    LedgerErrorCode = "LDG-010002"
	ErrCodeUnknownLedgerBackend LedgerErrorCode = "LDG-020001"
)

// LedgerError represents a ledger error with code and message.
type LedgerError struct {
	Code    LedgerErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *LedgerError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *LedgerError) Unwrap() error {
	return e.Err
}

// NewLedgerError creates a new LedgerError with the given code and message.
func NewLedgerError(code LedgerErrorCode, message string, err error) *LedgerError {
	return &LedgerError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
