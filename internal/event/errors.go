package event

import (
	"errors"
	"fmt"
)

var (
	ErrSubscriberFailure      = errors.New("subscriber failure")
	ErrDisconnected           = errors.New("disconnected by server")
	ErrCompressionUnsupported = errors.New("server enabled compression")
)

// SubscriberError is returned when a callback fails. It matches both
// ErrSubscriberFailure and the callback's own error.
type SubscriberError struct {
	Callback string
	Err      error
}

func (e *SubscriberError) Error() string {
	return fmt.Sprintf("subscriber %s: %v", e.Callback, e.Err)
}

func (e *SubscriberError) Unwrap() []error {
	return []error{ErrSubscriberFailure, e.Err}
}

// DisconnectError carries the kick reason sent by the server.
type DisconnectError struct {
	Reason string
}

func (e *DisconnectError) Error() string {
	return "disconnected by server: " + e.Reason
}

func (e *DisconnectError) Is(target error) bool {
	return target == ErrDisconnected
}
