package common

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Extraction failure taxonomy. Strategy-level failures are caught inside the
// orchestrator and turned into diagnostics entries; only these sentinels
// cross package boundaries.
var (
	// ErrUnsupportedFormat is a client input error: neither content sniffing
	// nor extension mapping yielded a supported document kind.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrConversionFailed marks a broken office-to-PDF conversion step.
	ErrConversionFailed = errors.New("office to pdf conversion failed")

	// ErrEmptyExtraction marks a strategy that produced only whitespace.
	ErrEmptyExtraction = errors.New("extraction produced no text")

	// ErrGarbageText marks structural text rejected by the quality gate.
	ErrGarbageText = errors.New("extracted text failed quality gate")

	// ErrPageLimit marks a document exceeding the configured page ceiling.
	ErrPageLimit = errors.New("page count exceeds limit")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// HTTPStatus maps a failure to the status code the service boundary reports.
// Client input problems are 4xx, never server faults.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnsupportedFormat):
		return http.StatusBadRequest
	case errors.Is(err, ErrPageLimit):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}
