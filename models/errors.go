package models

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes used in API responses and internal error handling.
const (
	ErrCodeInvalidField        = "INVALID_FIELD"
	ErrCodeUnavailableDocument = "UNAVAILABLE_DOCUMENT"
	ErrCodeStructuralMismatch  = "STRUCTURAL_MISMATCH"
	ErrCodeInvalidDocument     = "INVALID_DOCUMENT"
	ErrCodeUnknownPage         = "UNKNOWN_PAGE"
	ErrCodeFetch               = "FETCH_FAILED"
	ErrCodeTimeout             = "FETCH_TIMEOUT"
	ErrCodeInvalidInput        = "INVALID_INPUT"
	ErrCodeRateLimited         = "RATE_LIMITED"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeInternal            = "INTERNAL_ERROR"
)

// Sentinel errors. ScrapeError and InvalidFieldError wrap them so callers can
// branch with errors.Is.
var (
	ErrInvalidField        = errors.New("invalid field")
	ErrUnavailableDocument = errors.New("document not available")
	ErrStructuralMismatch  = errors.New("structural mismatch")
	ErrInvalidDocument     = errors.New("invalid document")
	ErrUnknownPage         = errors.New("unknown page")
)

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ScrapeError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type ScrapeError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// NewScrapeError creates a new ScrapeError.
func NewScrapeError(code, message string, err error) *ScrapeError {
	return &ScrapeError{Code: code, Message: message, Err: err}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *ScrapeError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message}
}

// Mismatch reports that an expected structure is absent from a document.
func Mismatch(format string, args ...any) *ScrapeError {
	return NewScrapeError(ErrCodeStructuralMismatch, fmt.Sprintf(format, args...), ErrStructuralMismatch)
}

// Unavailable reports an access to a scraper that has no document bound.
func Unavailable(identifier string) *ScrapeError {
	return NewScrapeError(ErrCodeUnavailableDocument,
		fmt.Sprintf("no document bound for %q", identifier), ErrUnavailableDocument)
}

// InvalidFieldError is returned when a requested field is not part of the
// available set. Valid lists the accepted names in catalog order.
type InvalidFieldError struct {
	Field string
	Valid []string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid field %q, valid fields are: %s", e.Field, strings.Join(e.Valid, ", "))
}

func (e *InvalidFieldError) Unwrap() error { return ErrInvalidField }

// CodeOf maps any error to the error code used in API responses.
func CodeOf(err error) string {
	var se *ScrapeError
	if errors.As(err, &se) {
		return se.Code
	}
	switch {
	case errors.Is(err, ErrInvalidField):
		return ErrCodeInvalidField
	case errors.Is(err, ErrUnavailableDocument):
		return ErrCodeUnavailableDocument
	case errors.Is(err, ErrStructuralMismatch):
		return ErrCodeStructuralMismatch
	case errors.Is(err, ErrInvalidDocument):
		return ErrCodeInvalidDocument
	case errors.Is(err, ErrUnknownPage):
		return ErrCodeUnknownPage
	}
	return ErrCodeInternal
}

// AsScrapeError returns err as a *ScrapeError, wrapping it with the code from
// CodeOf when it is not one already.
func AsScrapeError(err error) *ScrapeError {
	var se *ScrapeError
	if errors.As(err, &se) {
		return se
	}
	return NewScrapeError(CodeOf(err), err.Error(), err)
}
