// Package errors provides standardized error handling for the RAG pipeline.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Configuration errors (detected before any network call is attempted).
const (
	ErrCodeInvalidConfiguration ErrorCode = "INVALID_CONFIGURATION"
	ErrCodeMissingAPIKey        ErrorCode = "MISSING_API_KEY"
	ErrCodeInvalidCredentials   ErrorCode = "INVALID_CREDENTIALS"
)

// Connectivity errors (ElasticSearch or Gemini unreachable or answering abnormally).
const (
	ErrCodeElasticsearchConnectionFailed ErrorCode = "ELASTICSEARCH_CONNECTION_FAILED"
	ErrCodeSearchQueryFailed             ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchTimeout                 ErrorCode = "SEARCH_TIMEOUT"
	ErrCodeIndexNotFound                 ErrorCode = "INDEX_NOT_FOUND"
	ErrCodeGeminiConnectionFailed        ErrorCode = "GEMINI_CONNECTION_FAILED"
)

// Generation errors (the model rejected or failed the request).
const (
	ErrCodeGenerationAuthFailed     ErrorCode = "GENERATION_AUTH_FAILED"
	ErrCodeGenerationQuotaExceeded  ErrorCode = "GENERATION_QUOTA_EXCEEDED"
	ErrCodeGenerationInvalidRequest ErrorCode = "GENERATION_INVALID_REQUEST"
	ErrCodeGenerationFailed         ErrorCode = "GENERATION_FAILED"
)

// Internal errors.
const (
	ErrCodeResultWriteFailed ErrorCode = "RESULT_WRITE_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// ==========================
// Error Constructors
// ==========================

// NewInvalidConfigurationError creates a non-retryable configuration error.
func NewInvalidConfigurationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidConfiguration,
		Message:   "Invalid configuration",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMissingAPIKeyError creates a non-retryable missing API key error.
func NewMissingAPIKeyError() *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingAPIKey,
		Message:   "GEMINI_API_KEY environment variable is required",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidCredentialsError creates a non-retryable credentials error.
func NewInvalidCredentialsError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidCredentials,
		Message:   "Elasticsearch authentication failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewElasticsearchConnectionFailedError creates a retryable Elasticsearch connection error.
func NewElasticsearchConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeElasticsearchConnectionFailed,
		Message:   "Elasticsearch connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchQueryFailedError creates a retryable search query error.
func NewSearchQueryFailedError(index string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchQueryFailed,
		Message:   "Elasticsearch query error",
		Details:   fmt.Sprintf("index: %s, error: %s", index, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchTimeoutError creates a retryable search timeout error.
func NewSearchTimeoutError(index string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchTimeout,
		Message:   "Elasticsearch query timeout",
		Details:   fmt.Sprintf("index: %s", index),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewIndexNotFoundError creates a non-retryable index not found error.
func NewIndexNotFoundError(indexName string) *StandardError {
	return &StandardError{
		Code:      ErrCodeIndexNotFound,
		Message:   "Elasticsearch index not found",
		Details:   fmt.Sprintf("indexName: %s", indexName),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewGeminiConnectionFailedError creates a retryable Gemini connection error.
func NewGeminiConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeGeminiConnectionFailed,
		Message:   "Gemini API connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewGenerationAuthFailedError creates a non-retryable generation auth error.
func NewGenerationAuthFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeGenerationAuthFailed,
		Message:   "Gemini API authentication failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewGenerationQuotaExceededError creates a retryable quota error.
func NewGenerationQuotaExceededError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeGenerationQuotaExceeded,
		Message:   "Gemini API quota exceeded",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewGenerationInvalidRequestError creates a non-retryable invalid request error.
func NewGenerationInvalidRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeGenerationInvalidRequest,
		Message:   "Gemini API rejected the request",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewGenerationFailedError creates a retryable generation error.
func NewGenerationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeGenerationFailed,
		Message:   "Gemini response generation failed",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewResultWriteFailedError creates a non-retryable result write error.
func NewResultWriteFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeResultWriteFailed,
		Message:   "Failed to write results file",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// Utility Functions
// ==========================

// IsRetryableErrorCode reports whether a failure with this code could succeed
// on a later run. The CLI makes a single attempt regardless; callers embedding
// the pipeline can use this to decide.
func IsRetryableErrorCode(code ErrorCode) bool {
	switch code {
	case ErrCodeElasticsearchConnectionFailed,
		ErrCodeSearchQueryFailed,
		ErrCodeSearchTimeout,
		ErrCodeGeminiConnectionFailed,
		ErrCodeGenerationQuotaExceeded,
		ErrCodeGenerationFailed:
		return true
	default:
		return false
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "CONFIGURATION") ||
		strings.Contains(codeStr, "API_KEY") ||
		strings.Contains(codeStr, "CREDENTIALS"):
		return "CONFIGURATION"
	case strings.Contains(codeStr, "GENERATION"):
		return "GENERATION"
	case strings.Contains(codeStr, "CONNECTION") ||
		strings.Contains(codeStr, "SEARCH") ||
		strings.Contains(codeStr, "INDEX"):
		return "CONNECTIVITY"
	default:
		return "INTERNAL"
	}
}
