package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"syscall"
)

// ErrorType represents the classification of errors for retry logic
type ErrorType int

const (
	// ErrorTypeTransient - retry-able errors
	ErrorTypeTransient ErrorType = iota
	// ErrorTypePermanent - non-retry-able errors
	ErrorTypePermanent
	// ErrorTypeDegraded - can continue with reduced functionality
	ErrorTypeDegraded
)

func (t ErrorType) String() string {
	switch t {
	case ErrorTypeTransient:
		return "transient"
	case ErrorTypeDegraded:
		return "degraded"
	default:
		return "permanent"
	}
}

// TransientError represents an error that can be retried
type TransientError struct {
	Err        error
	RetryAfter int    // Seconds to wait before retry (from Retry-After header)
	StatusCode int    // HTTP status code if applicable
	Message    string // Caller-facing message
}

func (e *TransientError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("transient error: %v", e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// PermanentError represents an error that should not be retried
type PermanentError struct {
	Err        error
	StatusCode int    // HTTP status code if applicable
	Message    string // Caller-facing message
}

func (e *PermanentError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("permanent error: %v", e.Err)
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// DegradedError represents an error where service can continue with reduced functionality
type DegradedError struct {
	Err      error
	Fallback string // Name of the fallback path taken
	Message  string // Caller-facing message
}

func (e *DegradedError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("degraded error: %v", e.Err)
}

func (e *DegradedError) Unwrap() error {
	return e.Err
}

// IsTransient checks if an error is retry-able
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var transientErr *TransientError
	if errors.As(err, &transientErr) {
		return true
	}
	var permanentErr *PermanentError
	if errors.As(err, &permanentErr) {
		return false
	}

	// A cancelled caller must not be retried; a per-attempt deadline may be.
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	if isNetworkError(err) {
		return true
	}
	if statusCode := extractHTTPStatusCode(err); statusCode > 0 {
		return isTransientHTTPStatus(statusCode)
	}
	return isSyscallError(err)
}

// IsPermanent checks if an error is non-retry-able
func IsPermanent(err error) bool {
	if err == nil {
		return false
	}

	var permanentErr *PermanentError
	if errors.As(err, &permanentErr) {
		return true
	}
	var transientErr *TransientError
	if errors.As(err, &transientErr) {
		return false
	}

	if statusCode := extractHTTPStatusCode(err); statusCode > 0 {
		return isPermanentHTTPStatus(statusCode)
	}

	lowerErr := strings.ToLower(err.Error())
	for _, pattern := range []string{"not found", "permission denied", "invalid", "unauthorized", "forbidden", "bad request"} {
		if strings.Contains(lowerErr, pattern) {
			return true
		}
	}
	return false
}

// IsDegraded checks if an error allows degraded service
func IsDegraded(err error) bool {
	var degradedErr *DegradedError
	return errors.As(err, &degradedErr)
}

// GetErrorType classifies an error
func GetErrorType(err error) ErrorType {
	switch {
	case err == nil:
		return ErrorTypePermanent
	case IsDegraded(err):
		return ErrorTypeDegraded
	case IsTransient(err):
		return ErrorTypeTransient
	default:
		return ErrorTypePermanent
	}
}

// StatusCode returns the HTTP status code carried by err, or 0.
func StatusCode(err error) int {
	var transientErr *TransientError
	if errors.As(err, &transientErr) && transientErr.StatusCode > 0 {
		return transientErr.StatusCode
	}
	var permanentErr *PermanentError
	if errors.As(err, &permanentErr) && permanentErr.StatusCode > 0 {
		return permanentErr.StatusCode
	}
	return 0
}

// FromHTTPStatus classifies a provider response status into a typed error.
func FromHTTPStatus(statusCode int, retryAfter int, err error) error {
	if isTransientHTTPStatus(statusCode) {
		return &TransientError{
			Err:        err,
			StatusCode: statusCode,
			RetryAfter: retryAfter,
			Message:    fmt.Sprintf("provider unavailable (status %d): %v", statusCode, err),
		}
	}
	return &PermanentError{
		Err:        err,
		StatusCode: statusCode,
		Message:    fmt.Sprintf("provider rejected request (status %d): %v", statusCode, err),
	}
}

func isNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.IsTemporary || dnsErr.IsTimeout
	}

	errStr := strings.ToLower(err.Error())
	for _, pattern := range []string{"connection refused", "timeout", "connection reset", "broken pipe", "no such host"} {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

func isSyscallError(err error) bool {
	var syscallErr syscall.Errno
	if errors.As(err, &syscallErr) {
		switch syscallErr {
		case syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.EPIPE,
			syscall.ETIMEDOUT, syscall.ENETUNREACH, syscall.EHOSTUNREACH:
			return true
		}
	}
	return false
}

func isTransientHTTPStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	// Anthropic reports overload as 529.
	return statusCode == 529
}

func isPermanentHTTPStatus(statusCode int) bool {
	return statusCode >= 400 && statusCode < 500 && !isTransientHTTPStatus(statusCode)
}

// extractHTTPStatusCode looks for "status NNN" in untyped error messages.
func extractHTTPStatusCode(err error) int {
	lowerErr := strings.ToLower(err.Error())
	idx := strings.Index(lowerErr, "status ")
	if idx < 0 {
		return 0
	}
	rest := lowerErr[idx+len("status "):]
	if len(rest) < 3 {
		return 0
	}
	code, convErr := strconv.Atoi(rest[:3])
	if convErr != nil || code < 100 || code > 599 {
		return 0
	}
	return code
}

// NewTransientError creates a new transient error with a caller-facing message
func NewTransientError(err error, message string) *TransientError {
	return &TransientError{
		Err:     err,
		Message: message,
	}
}

// NewPermanentError creates a new permanent error with a caller-facing message
func NewPermanentError(err error, message string) *PermanentError {
	return &PermanentError{
		Err:     err,
		Message: message,
	}
}

// NewDegradedError creates a new degraded error naming the fallback path
func NewDegradedError(err error, message, fallback string) *DegradedError {
	return &DegradedError{
		Err:      err,
		Message:  message,
		Fallback: fallback,
	}
}
