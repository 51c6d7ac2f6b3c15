package error

// APIErrorCode defines error codes for the companion HTTP API.
// Format: API-XXYYYY where XX is category and YYYY is specific error.
type APIErrorCode string

const (
	// Authentication errors (01XXXX)
	ErrCodeMissingToken APIErrorCode = "API-010001"
	ErrCodeInvalidToken APIErrorCode = "API-010002"

	// Throttling errors (02XXXX)
	ErrCodeRateLimited APIErrorCode = "API-020001"

	// Request errors (03XXXX)
	ErrCodeInvalidRequest    APIErrorCode = "API-030001"
	ErrCodeInvalidEntityKind APIErrorCode = "API-030002"
	ErrCodeSnapshotNotFound  APIErrorCode = "API-030003"
	ErrCodeInternal          APIErrorCode = "API-030004"
)
