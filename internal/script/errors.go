package script

import (
	"errors"
	"fmt"
)

// ErrClosed is returned once the runtime is closed.
var ErrClosed = errors.New("script runtime closed")

// Error is a compile or execution failure of one command.
type Error struct {
	Command string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("command %s: %v", e.Command, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
