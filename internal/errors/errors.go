package errors

import "errors"

// Sentinel errors shared by every layer. Services wrap them with
// fmt.Errorf("%w: ...") and the API layer maps them to status codes with
// errors.Is, so no layer below the API knows about HTTP.

var (
	// ErrNotFound signifies that a user or session could not be located, or
	// that a supplied session identifier is malformed. Never retried.
	// This is typically mapped to a 404 Not Found HTTP status.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation signifies that input data provided by a client failed
	// business rule validation.
	// This is typically mapped to a 400 Bad Request HTTP status.
	ErrValidation = errors.New("validation failed")

	// ErrConflict signifies that a create would duplicate a unique field,
	// such as a username.
	// This is typically mapped to a 409 Conflict HTTP status.
	ErrConflict = errors.New("resource already exists")

	// ErrDatabase signifies a persistence-layer failure. It always wraps the
	// underlying cause and is never swallowed.
	ErrDatabase = errors.New("database failure")

	// ErrSafetyBlocked signifies that a guardrail rejected model input or output.
	ErrSafetyBlocked = errors.New("blocked by guardrail")

	// ErrInvocation signifies a model provider or network failure.
	ErrInvocation = errors.New("model invocation failed")

	// ErrInternal signifies an unexpected error on the server. This is a generic
	// error used to prevent leaking sensitive implementation details to the client.
	// This is typically mapped to a 500 Internal Server Error HTTP status.
	ErrInternal = errors.New("internal server error")
)
