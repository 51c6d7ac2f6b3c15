package entity

// Severity is the display level of a user-facing message.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// IsValidSeverity reports whether s is a known severity.
func IsValidSeverity(s Severity) bool {
	switch s {
	case SeverityInfo, SeveritySuccess, SeverityWarning, SeverityError:
		return true
	}
	return false
}

// MessageKey builds the dedupe key for a message.
func MessageKey(severity Severity, text string) string {
	return string(severity) + "|" + text
}
