// Package errors provides custom error types for the promptdeck API client.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for common cases
var (
	ErrEmptyPrompt        = errors.New("prompt is required")
	ErrNoContent          = errors.New("no usable response from the model")
	ErrSubmissionInFlight = errors.New("a submission is already in progress")
	ErrClientClosed       = errors.New("client is closed")
)

// ErrorCode classifies a failed submission
type ErrorCode int

const (
	ErrCodeUnknown ErrorCode = iota
	ErrCodeNetwork
	ErrCodeTimeout
	ErrCodeUpstream
	ErrCodeAuth
	ErrCodeQuota
	ErrCodeRateLimit
	ErrCodeNoContent
	ErrCodeDownload
)

func (c ErrorCode) String() string {
	switch c {
	case ErrCodeNetwork:
		return "network"
	case ErrCodeTimeout:
		return "timeout"
	case ErrCodeUpstream:
		return "upstream"
	case ErrCodeAuth:
		return "auth"
	case ErrCodeQuota:
		return "quota"
	case ErrCodeRateLimit:
		return "rate_limit"
	case ErrCodeNoContent:
		return "no_content"
	case ErrCodeDownload:
		return "download"
	default:
		return "unknown"
	}
}

// CodeForStatus maps a non-2xx HTTP status to an ErrorCode
func CodeForStatus(status int) ErrorCode {
	switch status {
	case http.StatusUnauthorized:
		return ErrCodeAuth
	case http.StatusForbidden:
		// the backend answers 403 once the free trial is used up
		return ErrCodeQuota
	case http.StatusTooManyRequests:
		return ErrCodeRateLimit
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return ErrCodeTimeout
	default:
		return ErrCodeUpstream
	}
}

// APIError is the structured error returned for every failed request
type APIError struct {
	Code       ErrorCode
	HTTPStatus int
	Endpoint   string
	Message    string
	Body       string
	Cause      error
}

func (e *APIError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if e.HTTPStatus > 0 {
		return fmt.Sprintf("API error [%d] at %s: %s", e.HTTPStatus, e.Endpoint, msg)
	}
	if e.Endpoint != "" {
		return fmt.Sprintf("API error at %s: %s", e.Endpoint, msg)
	}
	return fmt.Sprintf("API error: %s", msg)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// Is allows comparison with sentinel errors
func (e *APIError) Is(target error) bool {
	if target == ErrNoContent {
		return e.Code == ErrCodeNoContent
	}
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return t.Code == ErrCodeUnknown || t.Code == e.Code
}

// NewAPIError creates an upstream rejection error from a non-2xx response
func NewAPIError(statusCode int, endpoint, message string) *APIError {
	return &APIError{
		Code:       CodeForStatus(statusCode),
		HTTPStatus: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// NewAPIErrorWithBody creates an upstream rejection error keeping the response body
func NewAPIErrorWithBody(statusCode int, endpoint, message, body string) *APIError {
	e := NewAPIError(statusCode, endpoint, message)
	e.Body = body
	return e
}

// NewNetworkError creates a transport failure error
func NewNetworkError(endpoint string, cause error) *APIError {
	code := ErrCodeNetwork
	if errors.Is(cause, context.DeadlineExceeded) {
		code = ErrCodeTimeout
	}
	return &APIError{
		Code:     code,
		Endpoint: endpoint,
		Message:  "request failed",
		Cause:    cause,
	}
}

// NewTimeoutError creates a timeout error
func NewTimeoutError(endpoint string) *APIError {
	return &APIError{
		Code:     ErrCodeTimeout,
		Endpoint: endpoint,
		Message:  "request timed out",
		Cause:    context.DeadlineExceeded,
	}
}

// NewNoContentError is returned when a 2xx response lacks the expected field
func NewNoContentError(endpoint, field string) *APIError {
	return &APIError{
		Code:       ErrCodeNoContent,
		HTTPStatus: 0,
		Endpoint:   endpoint,
		Message:    fmt.Sprintf("response has no %q field", field),
		Cause:      ErrNoContent,
	}
}

// NewDownloadError creates an asset download error
func NewDownloadError(url string, statusCode int, cause error) *APIError {
	return &APIError{
		Code:       ErrCodeDownload,
		HTTPStatus: statusCode,
		Endpoint:   url,
		Message:    "download failed",
		Cause:      cause,
	}
}

func asAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// GetErrorCode returns the ErrorCode of err, or ErrCodeUnknown
func GetErrorCode(err error) ErrorCode {
	if apiErr, ok := asAPIError(err); ok {
		return apiErr.Code
	}
	return ErrCodeUnknown
}

// GetHTTPStatus returns the HTTP status carried by err, or 0
func GetHTTPStatus(err error) int {
	if apiErr, ok := asAPIError(err); ok {
		return apiErr.HTTPStatus
	}
	return 0
}

// GetEndpoint returns the endpoint carried by err
func GetEndpoint(err error) string {
	if apiErr, ok := asAPIError(err); ok {
		return apiErr.Endpoint
	}
	return ""
}

// GetResponseBody returns the upstream response body carried by err
func GetResponseBody(err error) string {
	if apiErr, ok := asAPIError(err); ok {
		return apiErr.Body
	}
	return ""
}

// IsNetworkError reports a transport failure
func IsNetworkError(err error) bool {
	return GetErrorCode(err) == ErrCodeNetwork
}

// IsTimeoutError reports a timed out request
func IsTimeoutError(err error) bool {
	return GetErrorCode(err) == ErrCodeTimeout || errors.Is(err, context.DeadlineExceeded)
}

// IsAuthError reports a 401 rejection
func IsAuthError(err error) bool {
	return GetErrorCode(err) == ErrCodeAuth
}

// IsQuotaError reports an exhausted free tier
func IsQuotaError(err error) bool {
	return GetErrorCode(err) == ErrCodeQuota
}

// IsRateLimitError reports a 429 rejection
func IsRateLimitError(err error) bool {
	return GetErrorCode(err) == ErrCodeRateLimit
}

// IsNoContentError reports a 2xx response without a usable field
func IsNoContentError(err error) bool {
	return errors.Is(err, ErrNoContent)
}

// IsUpstreamError reports any non-2xx rejection
func IsUpstreamError(err error) bool {
	return GetHTTPStatus(err) > 0 && GetErrorCode(err) != ErrCodeDownload
}
