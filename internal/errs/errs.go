// Package errs defines the application error type and its constructors.
//
// Every failure that reaches a client is an *HTTPError: it carries a
// machine readable code from a small fixed set (PARAMS_ERROR,
// NOT_LOGIN_ERROR, NOT_FOUND_ERROR, ...), a message, the transport status
// and, for validation failures, per-field errors. The global error handler
// turns it into the response envelope.
package errs

// Error codes exposed to clients in the envelope's errorCode field.
const (
	CodeParams          = "PARAMS_ERROR"
	CodeNotLogin        = "NOT_LOGIN_ERROR"
	CodeNoAuth          = "NO_AUTH_ERROR"
	CodeNotFound        = "NOT_FOUND_ERROR"
	CodeTooManyRequests = "TOO_MANY_REQUEST"
	CodeSystem          = "SYSTEM_ERROR"
)
