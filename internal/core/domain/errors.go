package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// DomainError is an error carrying a stable code, e.g. "WF-BUILD-4001".
// The last four digits start with the HTTP status the code maps to.
type DomainError struct {
	Code    string
	Message string
	Details string
	Cause   error
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches any DomainError with the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError reports whether err is a DomainError with the given code.
// An empty code matches any DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return code == "" || de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code, or "" for foreign errors.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// HTTPStatus maps an error to the HTTP status its code encodes.
// Foreign errors map to 500.
func HTTPStatus(err error) int {
	code := GetErrorCode(err)
	i := strings.LastIndexByte(code, '-')
	if i < 0 || len(code)-i-1 != 4 {
		return http.StatusInternalServerError
	}
	var status int
	if _, err := fmt.Sscanf(code[i+1:i+4], "%d", &status); err != nil || http.StatusText(status) == "" {
		return http.StatusInternalServerError
	}
	return status
}

// Build configuration errors (BUILD).
var (
	// ErrPluginNameEmpty indicates a plugin entry without a name.
	ErrPluginNameEmpty = NewDomainError("WF-BUILD-4001", "plugin name is empty")

	// ErrPluginDuplicate indicates the same plugin listed twice.
	ErrPluginDuplicate = NewDomainError("WF-BUILD-4002", "duplicate plugin")

	// ErrMinifierManaged indicates the minifier was listed explicitly; it is
	// added from the node environment instead.
	ErrMinifierManaged = NewDomainError("WF-BUILD-4003", "minifier is selected by node environment")

	// ErrConfigNotLoaded indicates no build configuration has been loaded yet.
	ErrConfigNotLoaded = NewDomainError("WF-BUILD-5030", "build configuration not loaded")
)

// System errors (SYS).
var (
	// ErrInternalServer indicates an internal server error.
	ErrInternalServer = NewDomainError("WF-SYS-5000", "internal server error")

	// ErrShuttingDown indicates the process is inside its shutdown grace period.
	ErrShuttingDown = NewDomainError("WF-SYS-5031", "shutting down")

	// ErrRateLimited indicates too many requests.
	ErrRateLimited = NewDomainError("WF-SYS-4290", "too many requests")

	// ErrNotFound indicates an unknown route.
	ErrNotFound = NewDomainError("WF-SYS-4040", "not found")
)
