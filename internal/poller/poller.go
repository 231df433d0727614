// Package poller reports socket readiness for a set of file descriptors,
// each registered under a caller chosen key.
package poller

import (
	"errors"
	"time"
)

var (
	ErrUnsupported = errors.New("poller: unsupported platform")
	ErrClosed      = errors.New("poller: closed")
)

// Interest is the readiness a caller wants to hear about.
type Interest struct {
	Readable bool
	Writable bool
}

func (i Interest) String() string {
	switch {
	case i.Readable && i.Writable:
		return "rw"
	case i.Readable:
		return "r"
	case i.Writable:
		return "w"
	default:
		return "-"
	}
}

// Event is one ready descriptor. Hangup is set on peer hangup or a socket
// error; a read or write then reports the actual condition.
type Event struct {
	Key      uint64
	Readable bool
	Writable bool
	Hangup   bool
}

// Poller is level-triggered: a descriptor keeps being reported while the
// condition holds. The key ^uint64(0) is reserved.
type Poller interface {
	Add(fd int, key uint64, in Interest) error
	Modify(fd int, key uint64, in Interest) error
	Delete(fd int) error
	// Wait blocks until at least one registered descriptor is ready, Wake is
	// called or timeout elapses, and fills events. A negative timeout blocks
	// indefinitely. A wake-up alone returns 0 events.
	Wait(events []Event, timeout time.Duration) (int, error)
	// Wake interrupts a concurrent Wait. It is safe to call from any goroutine.
	Wake() error
	Close() error
}
