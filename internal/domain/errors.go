package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain.
type ErrorCode string

const (
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeValidation   ErrorCode = "VALIDATION_ERROR"

	CodeGenerationFailed  ErrorCode = "GENERATION_FAILED"
	CodeLLMServiceError   ErrorCode = "LLM_SERVICE_ERROR"
	CodeExtractionFailed  ErrorCode = "EXTRACTION_FAILED"
	CodeNoActiveQuiz      ErrorCode = "NO_ACTIVE_QUIZ"
	CodeQuizAlreadyActive ErrorCode = "QUIZ_ALREADY_ACTIVE"
	CodeRenderFailed      ErrorCode = "RENDER_FAILED"
)

// DomainError is the single error type crossing service boundaries.
// Cause is kept for logs only and never serialized to clients.
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// MarshalJSON hides the wrapped cause from API responses.
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError.
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(CodeInternal, message, err)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

// NewGenerationFailedError reports a completion result that was rejected
// wholesale: malformed JSON, missing keys or a wrong element count.
func NewGenerationFailedError(task string, err error) *DomainError {
	return NewError(CodeGenerationFailed, fmt.Sprintf("Failed to generate %s", task), err)
}

func NewLLMServiceError(err error) *DomainError {
	return NewError(CodeLLMServiceError, "Failed to reach the completion backend", err)
}

func NewExtractionFailedError(filename string, err error) *DomainError {
	return NewError(CodeExtractionFailed, fmt.Sprintf("Could not extract text from %s", filename), err)
}

func NewNoActiveQuizError() *DomainError {
	return NewError(CodeNoActiveQuiz, "No quiz is currently active", nil)
}

func NewQuizAlreadyActiveError() *DomainError {
	return NewError(CodeQuizAlreadyActive, "A quiz is already in progress; reset it first", nil)
}

func NewRenderFailedError(message string, err error) *DomainError {
	return NewError(CodeRenderFailed, message, err)
}
