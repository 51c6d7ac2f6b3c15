package error

import "errors"

// Scheduled workout domain errors.
var (
	// ErrScheduledWorkoutNotFound is returned when a scheduled workout does not exist.
	ErrScheduledWorkoutNotFound = errors.New("scheduled workout not found")

	// ErrCompletionRejected is returned when the server refuses to complete a workout.
	ErrCompletionRejected = errors.New("scheduled workout completion rejected")

	// ErrMissingWorkoutSessionID is returned when completion is requested without a session id.
	ErrMissingWorkoutSessionID = errors.New("workout session id is required")

	// ErrMissingScheduledWorkoutID is returned when an operation is requested without a workout id.
	ErrMissingScheduledWorkoutID = errors.New("scheduled workout id is required")

	// ErrSessionCreationFailed is returned when the workout session record could not be created.
	ErrSessionCreationFailed = errors.New("failed to create workout session")
)

// WorkoutErrorCode defines error codes for scheduled workout errors.
// Format: WRK-XXYYYY where XX is category and YYYY is specific error.
type WorkoutErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeMissingScheduledWorkoutID WorkoutErrorCode = "WRK-010001"
	ErrCodeMissingWorkoutSessionID   WorkoutErrorCode = "WRK-010002"
	ErrCodeScheduledWorkoutNotFound  WorkoutErrorCode = "WRK-010003"

	// Completion errors (02XXXX)
	ErrCodeCompletionRejected WorkoutErrorCode = "WRK-020001"
	ErrCodeCompletionFailed   WorkoutErrorCode = "WRK-020002"

	// Session errors (03XXXX)
	ErrCodeSessionCreationFailed WorkoutErrorCode = "WRK-030001"
)

// WorkoutError represents a scheduled workout error with code and message.
type WorkoutError struct {
	Code    WorkoutErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *WorkoutError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *WorkoutError) Unwrap() error {
	return e.Err
}

// NewWorkoutError creates a new WorkoutError with the given code and message.
func NewWorkoutError(code WorkoutErrorCode, message string, err error) *WorkoutError {
	return &WorkoutError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
