package errors

import "errors"

// This package defines a centralized set of sentinel errors for the application.
// Services wrap these sentinels with context (`fmt.Errorf("%w: ...")`) and the
// API layer uses `errors.Is()` to map them to HTTP responses, so no service
// ever needs to know about status codes.

var (
	// ErrNotFound signifies that a requested resource could not be located,
	// or that it exists but is not owned by the caller. The two cases are
	// deliberately indistinguishable to clients.
	// This is typically mapped to a 404 Not Found HTTP status.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation signifies that input data provided by a client failed
	// business rule validation.
	// This is typically mapped to a 400 Bad Request HTTP status.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized signifies missing, malformed or expired credentials.
	// This is typically mapped to a 401 Unauthorized HTTP status.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrConflict signifies that an operation could not be completed because
	// it conflicts with the current state of a resource (e.g., an email that
	// is already registered, or a conversation that is busy with another turn).
	// This is typically mapped to a 409 Conflict HTTP status.
	ErrConflict = errors.New("resource conflict")

	// ErrPermission signifies that the authenticated user is not authorized
	// to perform the requested action.
	// This is typically mapped to a 403 Forbidden HTTP status.
	ErrPermission = errors.New("permission denied")

	// ErrProvider signifies that the external completion provider failed
	// (quota, credentials, network). No state was changed.
	// This is mapped to a 500 Internal Server Error HTTP status.
	ErrProvider = errors.New("completion provider failed")

	// ErrReplyNotSaved signifies that a reply was generated but the turn
	// could not be persisted. Callers receive the reply text alongside it.
	ErrReplyNotSaved = errors.New("reply generated but not saved")

	// ErrInternal signifies an unexpected error on the server. This is a generic
	// error used to prevent leaking sensitive implementation details to the client.
	// This is typically mapped to a 500 Internal Server Error HTTP status.
	ErrInternal = errors.New("internal server error")
)
