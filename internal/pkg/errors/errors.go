package errors

import "errors"

var (
	// ErrNotFound is returned by repos when the target row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
)
