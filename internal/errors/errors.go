package errors

import "fmt"

// ErrorCode represents an hmchef error code.
type ErrorCode string

const (
	ErrInvalidRequest   ErrorCode = "INVALID_REQUEST"   // 400
	ErrPermissionDenied ErrorCode = "PERMISSION_DENIED" // 403
	ErrNotFound         ErrorCode = "NOT_FOUND"         // 404
	ErrPayloadTooLarge  ErrorCode = "PAYLOAD_TOO_LARGE" // 413
	ErrUnsupportedMedia ErrorCode = "UNSUPPORTED_MEDIA" // 415
	ErrInternal         ErrorCode = "INTERNAL"          // 500
)

// ChefError represents a structured error with code, status, and details.
type ChefError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *ChefError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *ChefError {
	return &ChefError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewPermissionDenied creates a 403 error for a refused device permission.
func NewPermissionDenied(msg string) *ChefError {
	return &ChefError{
		Code:    ErrPermissionDenied,
		Status:  403,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a missing resource.
func NewNotFound(what string) *ChefError {
	return &ChefError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("not found: %s", what),
		Details: map[string]any{"identifier": what},
	}
}

// NewPayloadTooLarge creates a 413 error when an upload exceeds the limit.
func NewPayloadTooLarge(max int64) *ChefError {
	return &ChefError{
		Code:    ErrPayloadTooLarge,
		Status:  413,
		Message: fmt.Sprintf("upload exceeds maximum size of %d bytes", max),
		Details: map[string]any{"max_bytes": max},
	}
}

// NewUnsupportedMedia creates a 415 error for uploads that are not images.
func NewUnsupportedMedia(contentType string) *ChefError {
	return &ChefError{
		Code:    ErrUnsupportedMedia,
		Status:  415,
		Message: fmt.Sprintf("unsupported media type: %s", contentType),
		Details: map[string]any{"content_type": contentType},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *ChefError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &ChefError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a ChefError with the given code.
func Is(err error, code ErrorCode) bool {
	if cErr, ok := err.(*ChefError); ok {
		return cErr.Code == code
	}
	return false
}
