//go:build !unix

package client

import (
	"context"
	"errors"
)

var errNoSockets = errors.New("non-blocking sockets are not supported on this platform")

func NewSocket(fd int) (Socket, error) {
	return nil, errNoSockets
}

func Dial(ctx context.Context, addr string) (Socket, error) {
	return nil, errNoSockets
}
