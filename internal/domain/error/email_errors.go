package error

import "errors"

// Celebration e-mail errors.
var (
	ErrMissingRecipient      = errors.New("celebration email recipient is required")
	ErrTemplateRenderFailed  = errors.New("failed to render celebration template")
	ErrEmailSendFailed       = errors.New("failed to send celebration email")
	ErrPermanentEmailFailure = errors.New("celebration email rejected by provider")
	ErrTemporaryEmailFailure = errors.New("celebration email provider unavailable")
)

// EmailErrorCode defines error codes for celebration e-mail errors.
// Format: EMAIL-XXYYYY where XX is category and YYYY is specific error.
type EmailErrorCode string

const (
	// Configuration (01XXXX)
	ErrCodeMissingRecipient EmailErrorCode = "EMAIL-010001"

	// Delivery (02XXXX)
	ErrCodeEmailSendFailed       EmailErrorCode = "EMAIL-020001"
	ErrCodePermanentEmailFailure EmailErrorCode = "EMAIL-020002"
	ErrCodeTemporaryEmailFailure EmailErrorCode = "EMAIL-020003"

	// Templates (03XXXX)
	ErrCodeTemplateRenderFailed EmailErrorCode = "EMAIL-030001"
)

// EmailError is a coded celebration e-mail failure.
type EmailError struct {
	Code    EmailErrorCode
	Message string
	Err     error
}

func (e *EmailError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *EmailError) Unwrap() error {
	return e.Err
}

// Permanent reports whether resending the same e-mail would fail again.
// Configuration and template errors are permanent too.
func (e *EmailError) Permanent() bool {
	return e.Code != ErrCodeTemporaryEmailFailure && e.Code != ErrCodeEmailSendFailed
}

// NewEmailError creates a new EmailError.
func NewEmailError(code EmailErrorCode, message string, err error) *EmailError {
	return &EmailError{Code: code, Message: message, Err: err}
}
