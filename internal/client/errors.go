package client

import (
	"errors"
	"fmt"
)

var (
	// ErrWouldBlock is returned by a non-blocking Socket that is not ready.
	ErrWouldBlock = errors.New("operation would block")
	ErrIO         = errors.New("i/o failure")
)

// IOError is a socket or poller failure other than ErrWouldBlock. It
// matches ErrIO and the underlying error.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() []error {
	return []error{ErrIO, e.Err}
}
