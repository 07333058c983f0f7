package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Stream errors
const (
	// ErrCodeTransformFailed indicates a transform stage returned an error.
	ErrCodeTransformFailed ErrorCode = "TRANSFORM_FAILED"
	// ErrCodeSubscriberPanic indicates a subscriber delivery panicked.
	ErrCodeSubscriberPanic ErrorCode = "SUBSCRIBER_PANIC"
	// ErrCodeSubjectFinished indicates a send on a finished subject.
	ErrCodeSubjectFinished ErrorCode = "SUBJECT_FINISHED"
	// ErrCodeNotCompleted indicates a publisher did not complete synchronously.
	ErrCodeNotCompleted ErrorCode = "NOT_COMPLETED"
	// ErrCodeNilFailure indicates a failure was constructed without an error.
	ErrCodeNilFailure ErrorCode = "NIL_FAILURE"
)

// Topic errors
const (
	// ErrCodeTypeMismatch indicates a topic exists with another element type.
	ErrCodeTypeMismatch ErrorCode = "TYPE_MISMATCH"
	// ErrCodeBusStopped indicates the bus no longer accepts topics.
	ErrCodeBusStopped ErrorCode = "BUS_STOPPED"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeTransformFailed: true,
	ErrCodeNotCompleted:    true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
// Retry in package rx resubscribes regardless of code; this flag is advisory
// for callers deciding whether to wrap a publisher in Retry.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
