package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodePermissionDenied indicates the caller may not access the resource.
	ErrCodePermissionDenied ErrorCode = "permission_denied"
	// ErrCodeServiceDown indicates a required collaborator is unavailable.
	ErrCodeServiceDown ErrorCode = "service_down"
	// ErrCodeConflict indicates a conflict with existing data.
	ErrCodeConflict ErrorCode = "conflict"
	// ErrCodeIO indicates an I/O failure while writing the response.
	ErrCodeIO ErrorCode = "io"
	// ErrCodeUnexpected indicates an uncategorized runtime failure.
	ErrCodeUnexpected ErrorCode = "unexpected"
	// ErrCodeInvalidCredentials indicates a failed credential check.
	// It is handled by the authenticating handler (challenge or login page)
	// and never surfaces through the status mapping.
	ErrCodeInvalidCredentials ErrorCode = "invalid_credentials"

	// Share-specific codes. All of these surface as 404 to avoid leaking
	// whether a token ever existed.

	// ErrCodeUnknownShare indicates the share token is unknown.
	ErrCodeUnknownShare ErrorCode = "unknown_share"
	// ErrCodeInvalidLink indicates the share link is malformed.
	ErrCodeInvalidLink ErrorCode = "invalid_link"
	// ErrCodeUnknownGuest indicates the guest behind a share no longer exists.
	ErrCodeUnknownGuest ErrorCode = "unknown_guest"
	// ErrCodeInvalidToken indicates the token failed validation.
	ErrCodeInvalidToken ErrorCode = "invalid_token"
	// ErrCodeInvalidLinkTarget indicates the link's target is not accessible.
	ErrCodeInvalidLinkTarget ErrorCode = "invalid_link_target"
)

// AppError represents a structured application error with a code, message,
// and optional cause. It supports error wrapping and unwrapping for use with
// errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is the sole human-readable message shown to end users
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates an AppError with the given code and message.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Newf creates an AppError with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// NotFound creates a new NotFound error.
func NotFound(message string) *AppError {
	return New(ErrCodeNotFound, message)
}

// NotFoundf creates a new NotFound error with formatted message.
func NotFoundf(format string, args ...any) *AppError {
	return Newf(ErrCodeNotFound, format, args...)
}

// PermissionDenied creates a new PermissionDenied error.
func PermissionDenied(message string) *AppError {
	return New(ErrCodePermissionDenied, message)
}

// ServiceDown creates a new ServiceDown error.
func ServiceDown(message string) *AppError {
	return New(ErrCodeServiceDown, message)
}

// Conflict creates a new Conflict error.
func Conflict(message string) *AppError {
	return New(ErrCodeConflict, message)
}

// InvalidCredentials creates a new InvalidCredentials error.
func InvalidCredentials(message string) *AppError {
	return New(ErrCodeInvalidCredentials, message)
}

// UnknownShare creates a new UnknownShare error.
func UnknownShare(token string) *AppError {
	return Newf(ErrCodeUnknownShare, "unknown share %q", token)
}

// UnknownGuest creates a new UnknownGuest error.
func UnknownGuest(guestID string) *AppError {
	return Newf(ErrCodeUnknownGuest, "unknown guest %q", guestID)
}

// InvalidLinkTarget creates a new InvalidLinkTarget error.
func InvalidLinkTarget(message string) *AppError {
	return New(ErrCodeInvalidLinkTarget, message)
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...), Cause: err}
}

// WrapIO wraps a response-writing failure as an I/O-category error.
func WrapIO(err error) *AppError {
	return Wrap(err, ErrCodeIO, "writing response failed")
}

// WrapUnexpected wraps an uncategorized failure, carrying the original
// message. Already-categorized errors pass through unchanged.
func WrapUnexpected(err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}
	return Wrap(err, ErrCodeUnexpected, "unexpected error")
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool {
	return isCode(err, ErrCodeNotFound)
}

// IsPermissionDenied checks if an error is a PermissionDenied error.
func IsPermissionDenied(err error) bool {
	return isCode(err, ErrCodePermissionDenied)
}

// IsInvalidCredentials checks if an error is an InvalidCredentials error.
func IsInvalidCredentials(err error) bool {
	return isCode(err, ErrCodeInvalidCredentials)
}

// IsIO checks if an error is an I/O-category error.
func IsIO(err error) bool {
	return isCode(err, ErrCodeIO)
}

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// UserMessage returns the sole human-readable message of an error, without
// wrapped causes or internal identifiers.
func UserMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return http.StatusText(http.StatusInternalServerError)
}

// StatusCode translates a failure into the HTTP status surfaced to clients.
// This is the single point of status translation used by the dispatcher.
func StatusCode(err error) int {
	switch GetCode(err) {
	case ErrCodeNotFound,
		ErrCodeUnknownShare,
		ErrCodeInvalidLink,
		ErrCodeUnknownGuest,
		ErrCodeInvalidToken,
		ErrCodeInvalidLinkTarget:
		return http.StatusNotFound
	case ErrCodePermissionDenied:
		return http.StatusForbidden
	case ErrCodeServiceDown:
		return http.StatusServiceUnavailable
	case ErrCodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
