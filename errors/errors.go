package errors

import (
	"fmt"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the failed operation can be retried.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an *AppError with the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// --- Stream Error Constructors ---

// Transform creates a new AppError for a failed transform stage.
func Transform(stage string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeTransformFailed, Message: fmt.Sprintf("The %s stage failed.", stage),
		Retryable: true, Details: map[string]any{"stage": stage}, Cause: cause,
	}
}

// SubscriberPanic creates a new AppError for a recovered subscriber panic.
func SubscriberPanic(subscription string, recovered any) *AppError {
	return &AppError{
		Code: ErrCodeSubscriberPanic, Message: fmt.Sprintf("Subscriber panicked: %v", recovered),
		Details: map[string]any{"subscription_id": subscription},
	}
}

// SubjectFinished creates a new AppError reporting a send after completion.
func SubjectFinished(subject string) *AppError {
	return &AppError{
		Code: ErrCodeSubjectFinished, Message: "Value dropped: the subject has already finished.",
		Details: map[string]any{"subject": subject},
	}
}

// NotCompleted creates a new AppError for a publisher that did not complete
// during a synchronous collect.
func NotCompleted() *AppError {
	return &AppError{
		Code: ErrCodeNotCompleted, Message: "The publisher did not complete synchronously.",
		Retryable: true,
	}
}

// NilFailure creates the error stored by a failure built from a nil error.
func NilFailure() *AppError {
	return &AppError{
		Code: ErrCodeNilFailure, Message: "A failure was created without an error.",
	}
}

// TypeMismatch creates a new AppError for a topic requested with the wrong element type.
func TypeMismatch(topic, have, want string) *AppError {
	return &AppError{
		Code: ErrCodeTypeMismatch, Message: fmt.Sprintf("Topic %s carries %s, not %s.", topic, have, want),
		Details: map[string]any{"topic": topic, "have": have, "want": want},
	}
}

// BusStopped creates a new AppError for a topic request on a stopped bus.
func BusStopped(bus string) *AppError {
	return &AppError{
		Code: ErrCodeBusStopped, Message: fmt.Sprintf("The %s bus is stopped.", bus),
		Details: map[string]any{"bus": bus},
	}
}

// --- Common Error Constructors ---

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		Details: details,
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidInput, Message: message}
}

// Internal creates a new AppError for an unexpected error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		Cause: cause,
	}
}
