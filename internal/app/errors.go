package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrUnknownCommand indicates a session line that is not a command.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrBadArgument indicates a malformed command argument.
	ErrBadArgument = errors.New("bad argument")
)

// InitError represents a failure to initialize a component.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("failed to initialize %s: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}
