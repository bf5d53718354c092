// Package response defines the uniform envelope every API route answers with.
package response

import "github.com/deppfellow/defect-service/internal/errs"

// Envelope is the body of every /api response.
//
//	{ "success": true, "data": [...], "errorCode": "", "errorMessage": "" }
type Envelope[T any] struct {
	Success      bool              `json:"success"`
	Data         T                 `json:"data"`
	ErrorCode    string            `json:"errorCode"`
	ErrorMessage string            `json:"errorMessage"`
	Errors       []errs.FieldError `json:"errors,omitempty"`
}

// Success wraps data in a successful envelope.
func Success[T any](data T) Envelope[T] {
	return Envelope[T]{Success: true, Data: data}
}

// Failure builds the envelope for an error response. Data is always null.
func Failure(code, message string, fieldErrors []errs.FieldError) Envelope[any] {
	return Envelope[any]{
		Success:      false,
		ErrorCode:    code,
		ErrorMessage: message,
		Errors:       fieldErrors,
	}
}

// FromError renders an application error as an envelope.
func FromError(err *errs.HTTPError) Envelope[any] {
	return Failure(err.Code, err.Message, err.Errors)
}
