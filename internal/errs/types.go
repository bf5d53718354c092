package errs

import (
	"net/http"
)

// NewUnauthorizedError creates a 401 NOT_LOGIN_ERROR. It is used both when
// no session resolves and when the session is not entitled to the resource.
func NewUnauthorizedError(message string, override bool) *HTTPError {
	return &HTTPError{
		Code:     CodeNotLogin,
		Message:  message,
		Status:   http.StatusUnauthorized,
		Override: override,
	}
}

// NewForbiddenError creates a 403 NO_AUTH_ERROR.
func NewForbiddenError(message string, override bool) *HTTPError {
	return &HTTPError{
		Code:     CodeNoAuth,
		Message:  message,
		Status:   http.StatusForbidden,
		Override: override,
	}
}

// NewBadRequestError creates a 400 error. code defaults to PARAMS_ERROR;
// errors carries per-field validation failures.
func NewBadRequestError(message string, override bool, code *string, errors []FieldError, action *Action) *HTTPError {
	formattedCode := CodeParams
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusBadRequest,
		Override: override,
		Errors:   errors,
		Action:   action,
	}
}

// NewNotFoundError creates a 404 error; code defaults to NOT_FOUND_ERROR.
func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	formattedCode := CodeNotFound
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusNotFound,
		Override: override,
	}
}

// NewTooManyRequestsError creates a 429 error.
func NewTooManyRequestsError(message string) *HTTPError {
	return &HTTPError{
		Code:     CodeTooManyRequests,
		Message:  message,
		Status:   http.StatusTooManyRequests,
		Override: true,
	}
}

// NewInternalServerError creates a generic 500. The message never carries
// the underlying cause; that is only logged.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:     CodeSystem,
		Message:  http.StatusText(http.StatusInternalServerError),
		Status:   http.StatusInternalServerError,
		Override: false,
	}
}

// ValidationError converts a validation failure into a 400 PARAMS_ERROR.
func ValidationError(err error) *HTTPError {
	return NewBadRequestError("Validation failed: "+err.Error(), false, nil, nil, nil)
}
