package apperr

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

type Code string

const (
	CodeInvalidCode      Code = "INVALID_CODE"
	CodeExpired          Code = "EXPIRED"
	CodeAlreadyUsed      Code = "ALREADY_USED"
	CodeAlreadyMember    Code = "ALREADY_MEMBER"
	CodePermissionDenied Code = "PERMISSION_DENIED"
	CodeFamilyNotFound   Code = "FAMILY_NOT_FOUND"
	CodeUserNotFound     Code = "USER_NOT_FOUND"
	CodeNetworkError     Code = "NETWORK_ERROR"
	CodeUnknownError     Code = "UNKNOWN_ERROR"
)

// Backend identifiers reported by the datastore layer.
const (
	BackendPermissionDenied = "permission-denied"
	BackendNotFound         = "not-found"
	BackendAlreadyExists    = "already-exists"
	BackendUnavailable      = "unavailable"
	BackendUnauthenticated  = "unauthenticated"
)

const fallbackMessage = "An unexpected error occurred."

var codeMessages = map[Code]string{
	CodeInvalidCode:      "The invite code is invalid or does not exist.",
	CodeExpired:          "This invite has expired. Please request a new one.",
	CodeAlreadyUsed:      "This invite has already been used.",
	CodeAlreadyMember:    "You are already a member of this family.",
	CodePermissionDenied: "You do not have permission to perform this action.",
	CodeFamilyNotFound:   "The family associated with this invite could not be found.",
	CodeUserNotFound:     "User not found. Please sign in and try again.",
	CodeNetworkError:     "Network error. Please check your connection and try again.",
}

var backendMessages = map[string]string{
	BackendPermissionDenied: "You do not have permission to perform this action.",
	BackendNotFound:         "The requested resource was not found.",
	BackendAlreadyExists:    "This resource already exists.",
	BackendUnavailable:      "Service is temporarily unavailable. Please try again later.",
	BackendUnauthenticated:  "You must be signed in to perform this action.",
}

// InviteError is a coded failure from the invite and membership flows.
// Two InviteErrors match under errors.Is when their codes are equal.
// UserMessage, when set, replaces the code's default sentence in Message.
type InviteError struct {
	Code        Code
	Message     string
	UserMessage string
	Err         error
}

func NewInviteError(code Code, message string) *InviteError {
	return &InviteError{Code: code, Message: message}
}

func (e *InviteError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

func (e *InviteError) Unwrap() error {
	return e.Err
}

func (e *InviteError) Is(target error) bool {
	var other *InviteError
	if !errors.As(target, &other) {
		return false
	}
	return other.Code == e.Code
}

// Wrap returns a copy of e carrying cause.
func (e *InviteError) Wrap(cause error) *InviteError {
	return &InviteError{Code: e.Code, Message: e.Message, UserMessage: e.UserMessage, Err: cause}
}

// WithUserMessage returns a copy of e that resolves to message for end users.
func (e *InviteError) WithUserMessage(message string) *InviteError {
	return &InviteError{Code: e.Code, Message: e.Message, UserMessage: message, Err: e.Err}
}

type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

type PermissionError struct {
	Message string
}

func NewPermissionError(message string) *PermissionError {
	return &PermissionError{Message: message}
}

func (e *PermissionError) Error() string {
	if e.Message == "" {
		return "permission denied"
	}
	return e.Message
}

// BackendError carries one of the Backend* identifiers.
type BackendError struct {
	Code    string
	Message string
	Err     error
}

func NewBackendError(code, message string, cause error) *BackendError {
	return &BackendError{Code: code, Message: message, Err: cause}
}

func (e *BackendError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Code + ": " + e.Err.Error()
	}
	return e.Code
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// CodeOf reports the invite code carried by err, if any.
func CodeOf(err error) (Code, bool) {
	var inviteErr *InviteError
	if errors.As(err, &inviteErr) {
		return inviteErr.Code, true
	}
	return "", false
}

// Message resolves err into a sentence suitable for end users.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var inviteErr *InviteError
	if errors.As(err, &inviteErr) {
		if inviteErr.UserMessage != "" {
			return inviteErr.UserMessage
		}
		if msg, ok := codeMessages[inviteErr.Code]; ok {
			return msg
		}
		return rawOrFallback(inviteErr.Message)
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return rawOrFallback(validationErr.Message)
	}

	var permissionErr *PermissionError
	if errors.As(err, &permissionErr) {
		return rawOrFallback(permissionErr.Message)
	}

	var backendErr *BackendError
	if errors.As(err, &backendErr) {
		if msg, ok := backendMessages[backendErr.Code]; ok {
			return msg
		}
		return rawOrFallback(backendErr.Message)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return codeMessages[CodeNetworkError]
	}

	return rawOrFallback(err.Error())
}

// IsBusiness reports whether err is an expected domain failure rather than an internal one.
func IsBusiness(err error) bool {
	var inviteErr *InviteError
	var validationErr *ValidationError
	var permissionErr *PermissionError
	var backendErr *BackendError
	switch {
	case errors.As(err, &inviteErr), errors.As(err, &validationErr), errors.As(err, &permissionErr):
		return true
	case errors.As(err, &backendErr):
		return backendErr.Code != BackendUnavailable
	default:
		return false
	}
}

// HTTPStatus maps err to the status code the transport layer answers with.
func HTTPStatus(err error) int {
	var inviteErr *InviteError
	if errors.As(err, &inviteErr) {
		switch inviteErr.Code {
		case CodeInvalidCode, CodeFamilyNotFound, CodeUserNotFound:
			return http.StatusNotFound
		case CodeExpired:
			return http.StatusGone
		case CodeAlreadyUsed, CodeAlreadyMember:
			return http.StatusConflict
		case CodePermissionDenied:
			return http.StatusForbidden
		case CodeNetworkError:
			return http.StatusServiceUnavailable
		default:
			return http.StatusInternalServerError
		}
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest
	}

	var permissionErr *PermissionError
	if errors.As(err, &permissionErr) {
		return http.StatusForbidden
	}

	var backendErr *BackendError
	if errors.As(err, &backendErr) {
		switch backendErr.Code {
		case BackendPermissionDenied:
			return http.StatusForbidden
		case BackendNotFound:
			return http.StatusNotFound
		case BackendAlreadyExists:
			return http.StatusConflict
		case BackendUnavailable:
			return http.StatusServiceUnavailable
		case BackendUnauthenticated:
			return http.StatusUnauthorized
		}
	}

	return http.StatusInternalServerError
}

// ResponseCode is the machine-readable code placed in JSON error bodies.
func ResponseCode(err error) string {
	if code, ok := CodeOf(err); ok {
		return strings.ToLower(string(code))
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return "invalid_request"
	}

	var permissionErr *PermissionError
	if errors.As(err, &permissionErr) {
		return "permission_denied"
	}

	var backendErr *BackendError
	if errors.As(err, &backendErr) {
		return strings.ReplaceAll(backendErr.Code, "-", "_")
	}

	return "internal_error"
}

func rawOrFallback(message string) string {
	if strings.TrimSpace(message) == "" {
		return fallbackMessage
	}
	return message
}
