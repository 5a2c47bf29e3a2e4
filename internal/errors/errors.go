package errors

import "fmt"

// Error codes
const (
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeInternal            = "INTERNAL_ERROR"
	ErrCodeBadRequest          = "BAD_REQUEST"
	ErrCodeNoActiveQuestion    = "NO_ACTIVE_QUESTION"
	ErrCodeSessionFinished     = "SESSION_FINISHED"
	ErrCodeUnknownSeniority    = "UNKNOWN_SENIORITY"
	ErrCodeNoQuestionAvailable = "NO_QUESTION_AVAILABLE"
	ErrCodeSinkUnavailable     = "SINK_UNAVAILABLE"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "NO_ACTIVE_QUESTION")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  404,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  400,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  500,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  400,
	}
}

// NewNoActiveQuestionError reports an answer submitted with no pending question.
func NewNoActiveQuestionError() *AppError {
	return &AppError{
		Code:    ErrCodeNoActiveQuestion,
		Message: "no active question",
		Status:  409,
	}
}

// NewSessionFinishedError reports a call against an already finished session.
func NewSessionFinishedError(skill string) *AppError {
	return &AppError{
		Code:    ErrCodeSessionFinished,
		Message: fmt.Sprintf("session for skill %q already finished", skill),
		Status:  409,
	}
}

// NewUnknownSeniorityError reports a starting seniority outside the four
// recognized values.
func NewUnknownSeniorityError(value string) *AppError {
	return &AppError{
		Code:    ErrCodeUnknownSeniority,
		Message: fmt.Sprintf("unknown seniority %q", value),
		Status:  400,
	}
}

// NewSinkUnavailableError reports a failed report submission. The report stays
// available so the caller can retry without re-running the assessment.
func NewSinkUnavailableError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeSinkUnavailable,
		Message: "result sink unavailable",
		Status:  503,
		Err:     err,
	}
}
