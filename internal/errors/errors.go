package errors

// Domain is the error domain for Copperline errors.
const Domain = "github.com/copperline/copperline"

// Error is the domain error type with structured metadata.
type Error struct {
	Code     Code              // Machine-readable error code
	Field    string            // Input field the error is attributed to, if any
	Message  string            // Internal message (for logs/telemetry)
	Metadata map[string]string // Additional context for templating
	Cause    error             // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a simple domain error with a code and message.
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// NewField creates a domain error attributed to one input field.
func NewField(code Code, field, message string) *Error {
	return &Error{
		Code:    code,
		Field:   field,
		Message: message,
	}
}

// WithMetadata creates a field error carrying metadata for i18n templating.
func WithMetadata(code Code, field, message string, metadata map[string]string) *Error {
	return &Error{
		Code:     code,
		Field:    field,
		Message:  message,
		Metadata: metadata,
	}
}

// Wrap creates a domain error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
