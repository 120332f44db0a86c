// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Business errors. These are thrown as BPMN errors and never retried.
const (
	ErrCodeParseError          ErrorCode = "PARSE_ERROR"
	ErrCodeAssessmentNotFound  ErrorCode = "ASSESSMENT_NOT_FOUND"
	ErrCodeInvalidAnswer       ErrorCode = "INVALID_ANSWER"
	ErrCodeUnsupportedLanguage ErrorCode = "UNSUPPORTED_LANGUAGE"
	ErrCodeInvalidAvailability ErrorCode = "INVALID_AVAILABILITY"
	ErrCodeInvalidAttempt      ErrorCode = "INVALID_ATTEMPT"
	ErrCodeUnknownGoal         ErrorCode = "UNKNOWN_GOAL"
	ErrCodeNoRecipient         ErrorCode = "NO_RECIPIENT"
)

// Technical errors. The job is failed with retries first.
const (
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"
	ErrCodeDatabaseInsertFailed     ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeCacheUnavailable         ErrorCode = "CACHE_UNAVAILABLE"
	ErrCodeSearchQueryFailed        ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeNotificationSendFailed   ErrorCode = "NOTIFICATION_SEND_FAILED"
)

const ErrCodeInternal ErrorCode = "INTERNAL_ERROR"

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// WithMetadata attaches a key/value pair that is copied into the BPMN error
// variables.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = map[string]interface{}{}
	}
	e.Metadata[key] = value
	return e
}

// AsStandardError unwraps err to a *StandardError if one is in its chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newBusiness(code ErrorCode, message, details string) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func newTechnical(code ErrorCode, message string, err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewParseError(err error) *StandardError {
	return newBusiness(ErrCodeParseError, "Failed to parse job variables", err.Error())
}

func NewAssessmentNotFoundError(assessmentID string) *StandardError {
	return newBusiness(ErrCodeAssessmentNotFound, "Assessment not found",
		fmt.Sprintf("assessmentId: %s", assessmentID))
}

func NewInvalidAnswerError(details string) *StandardError {
	return newBusiness(ErrCodeInvalidAnswer, "Answer failed validation", details)
}

func NewUnsupportedLanguageError(lang string) *StandardError {
	return newBusiness(ErrCodeUnsupportedLanguage, "Language is not supported",
		fmt.Sprintf("language: %s", lang))
}

func NewInvalidAvailabilityError(details string) *StandardError {
	return newBusiness(ErrCodeInvalidAvailability, "Availability failed validation", details)
}

func NewInvalidAttemptError(details string) *StandardError {
	return newBusiness(ErrCodeInvalidAttempt, "Interview attempt failed validation", details)
}

func NewUnknownGoalError(goal string) *StandardError {
	return newBusiness(ErrCodeUnknownGoal, "No profile for goal", fmt.Sprintf("goal: %s", goal))
}

func NewNoRecipientError(channel string) *StandardError {
	return newBusiness(ErrCodeNoRecipient, "No recipient for channel", fmt.Sprintf("channel: %s", channel))
}

// NewDatabaseConnectionFailedError creates a retryable database error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newTechnical(ErrCodeDatabaseConnectionFailed, "Database connection failed", err)
}

func NewQueryExecutionFailedError(operation string, err error) *StandardError {
	return newTechnical(ErrCodeQueryExecutionFailed,
		fmt.Sprintf("Query execution failed: %s", operation), err)
}

func NewQueryTimeoutError(operation string) *StandardError {
	return newTechnical(ErrCodeQueryTimeout,
		fmt.Sprintf("Query timed out: %s", operation), nil)
}

// FromQueryError classifies a failed repository read. A deadline becomes
// QUERY_TIMEOUT and anything else QUERY_EXECUTION_FAILED.
func FromQueryError(operation string, err error) *StandardError {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return NewQueryTimeoutError(operation)
	}
	return NewQueryExecutionFailedError(operation, err)
}

func NewDatabaseInsertFailedError(err error) *StandardError {
	return newTechnical(ErrCodeDatabaseInsertFailed, "Database insert failed", err)
}

func NewCacheUnavailableError(err error) *StandardError {
	return newTechnical(ErrCodeCacheUnavailable, "Cache unavailable", err)
}

func NewSearchQueryFailedError(index string, err error) *StandardError {
	return newTechnical(ErrCodeSearchQueryFailed,
		fmt.Sprintf("Search query failed on %s", index), err)
}

// NewNotificationSendFailedError creates a retryable delivery error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newTechnical(ErrCodeNotificationSendFailed,
		fmt.Sprintf("Failed to send %s notification", channel), err)
}

func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeDatabaseInsertFailed,
		ErrCodeSearchQueryFailed,
		ErrCodeNotificationSendFailed:
		return 3

	case ErrCodeQueryTimeout,
		ErrCodeCacheUnavailable:
		return 2

	default:
		return 0 // Business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
// BPMN codes are the internal codes.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           string(stdErr.Code),
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "CACHE"):
		return "CACHE"
	case strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "NOTIFICATION") || strings.Contains(codeStr, "RECIPIENT"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "ASSESSMENT") || strings.Contains(codeStr, "GOAL"):
		return "DOMAIN"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "UNSUPPORTED") ||
		strings.Contains(codeStr, "PARSE"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
