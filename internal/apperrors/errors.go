package apperrors

import "errors"

// Error kinds used across the service layer. Handlers map them to HTTP
// statuses with errors.Is; everything else stays an opaque internal error.
var (
	ErrValidation     = errors.New("validation error")
	ErrNotFound       = errors.New("not found")
	ErrNotInitialized = errors.New("not initialized")
	ErrPersistence    = errors.New("persistence failure")
)

type kindError struct {
	kind  error
	msg   string
	cause error
}

func (e *kindError) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

func (e *kindError) Unwrap() []error {
	if e.cause != nil {
		return []error{e.kind, e.cause}
	}
	return []error{e.kind}
}

// New returns an error of the given kind whose Error() is exactly msg,
// so handlers can surface it verbatim.
func New(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

// Wrap attaches a cause to a kinded error. The cause is part of Error()
// for logging but callers should only expose msg to clients.
func Wrap(kind error, msg string, cause error) error {
	return &kindError{kind: kind, msg: msg, cause: cause}
}

// Message returns the client-safe message of a kinded error, or the plain
// Error() string for anything else.
func Message(err error) string {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.msg
	}
	return err.Error()
}
