package apierr

import "fmt"

// Error carries the HTTP status and machine-readable code a handler should answer
// with, wrapping the cause. Handlers unwrap it with errors.As.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an *Error; err may be nil when the code says enough.
func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}
