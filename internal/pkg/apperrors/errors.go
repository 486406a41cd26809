package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")
	ErrGone                  = errors.New("resource no longer available")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrUnauthenticated    = errors.New("authentication required")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// User errors
var (
	ErrUserNotFound          = NewResourceNotFoundError("User not found")
	ErrEmailAlreadyExists    = NewConflictError("Email already exists")
	ErrUsernameAlreadyExists = NewConflictError("Username already exists")
)

// Project errors
var (
	ErrProjectNotFound      = NewResourceNotFoundError("Project not found")
	ErrCollaboratorNotFound = NewResourceNotFoundError("Collaborator not found")
	ErrAlreadyCollaborator  = NewConflictError("User is already a collaborator")
)

// ErrPlanLimitReached is returned when a free plan user already owns the maximum number of projects
var ErrPlanLimitReached error = NewCustomError(ErrPermissionDenied, "Project limit reached for the free plan").WithCode("PLAN_001")

// Channel and message errors
var (
	ErrChannelNotFound      = NewResourceNotFoundError("Channel not found")
	ErrChannelAlreadyExists = NewConflictError("A channel with this name already exists")
	ErrMessageNotFound      = NewResourceNotFoundError("Message not found")
)

// Membership lifecycle errors
var (
	ErrInviteNotFound  = NewResourceNotFoundError("Invite not found")
	ErrInviteExpired   = NewGoneError("Invite has expired")
	ErrRequestNotFound = NewResourceNotFoundError("Project request not found")
)

// Storage errors
var (
	ErrStorageUnavailable = errors.New("object storage unavailable")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// NewGoneError creates a new custom error for resources that expired
func NewGoneError(message string) error {
	return &CustomError{
		Err:     ErrGone,
		Message: message,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err       error
	Message   string
	StatusMsg string
	Code      string
	Details   map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// UserMessage returns the message meant for API clients, if err carries one.
func UserMessage(err error) (string, bool) {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message, true
	}
	return "", false
}

// Is reports whether err matches target or any of errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}
