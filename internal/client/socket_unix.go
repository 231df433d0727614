//go:build unix

package client

import (
	"context"
	"errors"
	"io"
	"net"
	"syscall"

	"golang.org/x/sys/unix"
)

type fdSocket struct {
	fd int
}

// NewSocket puts fd in non-blocking mode and takes ownership of it.
func NewSocket(fd int) (Socket, error) {
	if err := unix.SetNonblock(fd, true); err != nil {
		return nil, &IOError{Op: "set nonblock", Err: err}
	}
	return &fdSocket{fd: fd}, nil
}

func (s *fdSocket) Fd() int {
	return s.fd
}

func (s *fdSocket) Read(p []byte) (int, error) {
	for {
		n, err := unix.Read(s.fd, p)
		switch {
		case errors.Is(err, unix.EINTR):
			continue
		case errors.Is(err, unix.EAGAIN):
			return 0, ErrWouldBlock
		case err != nil:
			return 0, err
		case n == 0 && len(p) > 0:
			return 0, io.EOF
		}
		return n, nil
	}
}

func (s *fdSocket) Write(p []byte) (int, error) {
	for {
		n, err := unix.Write(s.fd, p)
		switch {
		case errors.Is(err, unix.EINTR):
			continue
		case errors.Is(err, unix.EAGAIN):
			return 0, ErrWouldBlock
		case err != nil:
			return 0, err
		}
		return n, nil
	}
}

func (s *fdSocket) Close() error {
	return unix.Close(s.fd)
}

func noDelay(network, address string, c syscall.RawConn) error {
	var err error
	e := c.Control(func(fd uintptr) {
		err = unix.SetsockoptInt(int(fd), unix.IPPROTO_TCP, unix.TCP_NODELAY, 1)
	})
	if e != nil {
		return e
	}
	return err
}

// Dial connects to addr and detaches the connection from the Go runtime
// poller, returning a socket driven by raw non-blocking reads and writes.
func Dial(ctx context.Context, addr string) (Socket, error) {
	d := net.Dialer{Control: noDelay}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	raw, err := conn.(*net.TCPConn).SyscallConn()
	if err != nil {
		return nil, err
	}
	var fd int
	var dupErr error
	if err := raw.Control(func(f uintptr) {
		fd, dupErr = unix.Dup(int(f))
	}); err != nil {
		return nil, err
	}
	if dupErr != nil {
		return nil, &IOError{Op: "dup", Err: dupErr}
	}
	unix.CloseOnExec(fd)
	sock, err := NewSocket(fd)
	if err != nil {
		_ = unix.Close(fd)
		return nil, err
	}
	return sock, nil
}
