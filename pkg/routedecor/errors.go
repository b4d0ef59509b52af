package routedecor

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents the class of error that occurred
type ErrorCode int

const (
	UnknownErrorCode ErrorCode = iota
	ValidationErrorCode
	ConfigurationErrorCode
	ResolutionErrorCode
	HandlerErrorCode
)

// String returns the string representation of the error code
func (e ErrorCode) String() string {
	switch e {
	case ValidationErrorCode:
		return "ValidationError"
	case ConfigurationErrorCode:
		return "ConfigurationError"
	case ResolutionErrorCode:
		return "ResolutionError"
	case HandlerErrorCode:
		return "HandlerError"
	default:
		return "UnknownError"
	}
}

// BaseError carries the parts shared by every error in the taxonomy
type BaseError struct {
	Code        ErrorCode
	Message     string
	Cause       error
	ContextData map[string]any
	Hints       []string
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Cause != nil && e.Message == "" {
		return e.Cause.Error()
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// ErrorCode returns the error code
func (e *BaseError) ErrorCode() ErrorCode {
	return e.Code
}

// Context returns the error context data
func (e *BaseError) Context() map[string]any {
	if e.ContextData == nil {
		return map[string]any{}
	}
	return e.ContextData
}

// Suggestions returns hints for fixing the error
func (e *BaseError) Suggestions() []string {
	return e.Hints
}

// Unwrap returns the underlying cause
func (e *BaseError) Unwrap() error {
	return e.Cause
}

func (e *BaseError) with(key string, value any) {
	if e.ContextData == nil {
		e.ContextData = make(map[string]any)
	}
	e.ContextData[key] = value
}

func newBase(code ErrorCode, cause error, format string, args ...any) *BaseError {
	return &BaseError{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// ValidationError reports malformed annotation arguments: a bad path type, a
// non-callable middleware, an unknown method token or a missing action.
type ValidationError struct {
	*BaseError
	Action string
}

func newValidationError(action, format string, args ...any) *ValidationError {
	e := &ValidationError{BaseError: newBase(ValidationErrorCode, nil, format, args...), Action: action}
	if action != "" {
		e.with("action", action)
	}
	return e
}

// WithAction records the action the annotation was applied to
func (e *ValidationError) WithAction(action string) *ValidationError {
	e.Action = action
	e.with("action", action)
	return e
}

// ConfigurationError reports malformed registration configuration.
type ConfigurationError struct {
	*BaseError
	Field string
}

func newConfigurationError(field, format string, args ...any) *ConfigurationError {
	e := &ConfigurationError{BaseError: newBase(ConfigurationErrorCode, nil, format, args...), Field: field}
	e.with("field", field)
	return e
}

// WithContext adds context data to the error
func (e *ConfigurationError) WithContext(key string, value any) *ConfigurationError {
	e.with(key, value)
	return e
}

// ResolutionError reports a failure to turn a controller into an invokable action.
type ResolutionError struct {
	*BaseError
	Controller string
	Endpoint   string
}

func newResolutionError(controller, endpoint string, cause error, format string, args ...any) *ResolutionError {
	e := &ResolutionError{
		BaseError:  newBase(ResolutionErrorCode, cause, format, args...),
		Controller: controller,
		Endpoint:   endpoint,
	}
	e.with("controller", controller)
	e.with("endpoint", endpoint)
	return e
}

// HandlerError wraps anything returned, rejected or panicked by an application handler.
type HandlerError struct {
	*BaseError
	Panicked bool
}

// NewHandlerError wraps cause unless it already belongs to the taxonomy.
func NewHandlerError(cause error) error {
	var coded interface{ ErrorCode() ErrorCode }
	if errors.As(cause, &coded) {
		return cause
	}
	return &HandlerError{BaseError: &BaseError{Code: HandlerErrorCode, Cause: cause}}
}

func newPanicError(v any) *HandlerError {
	cause, ok := v.(error)
	if !ok {
		cause = fmt.Errorf("%v", v)
	}
	return &HandlerError{BaseError: &BaseError{Code: HandlerErrorCode, Message: "handler panicked", Cause: cause}, Panicked: true}
}

// IsValidationError reports whether err is or wraps a ValidationError
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsConfigurationError reports whether err is or wraps a ConfigurationError
func IsConfigurationError(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

// IsResolutionError reports whether err is or wraps a ResolutionError
func IsResolutionError(err error) bool {
	var target *ResolutionError
	return errors.As(err, &target)
}

// IsHandlerError reports whether err is or wraps a HandlerError
func IsHandlerError(err error) bool {
	var target *HandlerError
	return errors.As(err, &target)
}

// HttpError represents an HTTP error with a specific status code and message.
// Handlers return it when the error chain should answer with that status.
type HttpError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
}

// Error implements the error interface
func (e *HttpError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// NewHttpError creates a new HttpError with the given status code and message
func NewHttpError(statusCode int, message string) *HttpError {
	return &HttpError{StatusCode: statusCode, Message: message}
}

// ErrBadRequest creates a 400 Bad Request error
func ErrBadRequest(message string) *HttpError {
	return NewHttpError(http.StatusBadRequest, message)
}

// ErrNotFound creates a 404 Not Found error
func ErrNotFound(message string) *HttpError {
	return NewHttpError(http.StatusNotFound, message)
}

// StatusOf maps an error forwarded by the adapter to a response status and
// a message safe to send to clients. Anything but an HttpError is a 500 with
// the generic status text; the cause is logged where the error is forwarded.
func StatusOf(err error) (int, string) {
	var httpErr *HttpError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode, httpErr.Message
	}
	return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
}
