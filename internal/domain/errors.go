package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeExternalService   = "EXTERNAL_SERVICE_ERROR"
	ErrCodeMalformedResponse = "MALFORMED_RESPONSE"
	ErrCodeConfiguration     = "CONFIGURATION_ERROR"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrMissingRequestID     = NewDomainError(ErrCodeValidation, "request_id is required")
	ErrNoQuestions          = NewDomainError(ErrCodeValidation, "at least one question is required")
	ErrMissingQuestionID    = NewDomainError(ErrCodeValidation, "question_id is required")
	ErrMissingQuestionText  = NewDomainError(ErrCodeValidation, "question_text is required")
	ErrMissingRequiredField = NewDomainError(ErrCodeValidation, "missing required field")
)

// Not found errors
var (
	ErrVerifiedAnswerNotFound = NewDomainError(ErrCodeNotFound, "verified answer not found")
	ErrEmployeeNotFound       = NewDomainError(ErrCodeNotFound, "employee not found")
	ErrJobNotFound            = NewDomainError(ErrCodeNotFound, "questionnaire job not found")
)

// External service errors
var (
	ErrEmbeddingUnavailable  = NewDomainError(ErrCodeExternalService, "embedding service unavailable")
	ErrCompletionUnavailable = NewDomainError(ErrCodeExternalService, "completion service unavailable")
)

// Malformed response errors
var (
	ErrMalformedModelOutput = NewDomainError(ErrCodeMalformedResponse, "model output is not valid JSON")
)

// Configuration errors
var (
	ErrMissingLLMKey = NewDomainError(ErrCodeConfiguration, "LLM API key is not configured")
)
