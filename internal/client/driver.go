// Package client drives one game connection with a readiness-polled,
// non-blocking loop.
package client

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/Versifine/dune/internal/metrics"
	"github.com/Versifine/dune/internal/poller"
	"github.com/Versifine/dune/internal/protocol"
	"github.com/Versifine/dune/internal/session"
)

const (
	DefaultReadBufferSize = 4096

	connKey = 0
)

// FrameHandler consumes the frames completed by one read, in wire order.
// *event.Dispatcher satisfies it.
type FrameHandler interface {
	HandleFrames(frames []session.Frame) error
}

// Sender queues a packet for writing.
type Sender interface {
	EnqueuePacket(pkt *protocol.Packet) error
}

// SenderFunc adapts a function such as (*event.Dispatcher).Send to Sender.
type SenderFunc func(pkt *protocol.Packet) error

func (f SenderFunc) EnqueuePacket(pkt *protocol.Packet) error {
	return f(pkt)
}

type Option func(*Driver)

func WithReadBufferSize(n int) Option {
	return func(d *Driver) {
		if n > 0 {
			d.readBuf = make([]byte, n)
		}
	}
}

// WithPollTimeout bounds each readiness wait. Zero or negative waits until
// an event or a Wake.
func WithPollTimeout(timeout time.Duration) Option {
	return func(d *Driver) {
		if timeout <= 0 {
			timeout = -1
		}
		d.pollTimeout = timeout
	}
}

func WithMetrics(m metrics.Collector) Option {
	return func(d *Driver) {
		d.metrics = metrics.OrNoop(m)
	}
}

// WithSender routes packets passed to Submit through s instead of straight
// into the session, so a recorder or dispatcher can see them.
func WithSender(s Sender) Option {
	return func(d *Driver) {
		d.sender = s
	}
}

// Driver owns one socket and its session. Run, the FrameHandler and the
// session all execute on the calling goroutine; Submit is the only method
// safe to call from elsewhere.
type Driver struct {
	sock        Socket
	sess        *session.Session
	handler     FrameHandler
	poller      poller.Poller
	sender      Sender
	metrics     metrics.Collector
	readBuf     []byte
	pollTimeout time.Duration

	registered poller.Interest

	mu        sync.Mutex
	submitted []*protocol.Packet
}

func NewDriver(sock Socket, sess *session.Session, handler FrameHandler, p poller.Poller, opts ...Option) *Driver {
	d := &Driver{
		sock:        sock,
		sess:        sess,
		handler:     handler,
		poller:      p,
		sender:      sess,
		metrics:     metrics.Noop{},
		readBuf:     make([]byte, DefaultReadBufferSize),
		pollTimeout: -1,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Driver) Session() *session.Session {
	return d.sess
}

// Interest is the readiness the next wait will ask for: readable always,
// writable only while output is pending.
func (d *Driver) Interest() poller.Interest {
	return poller.Interest{Readable: true, Writable: d.sess.HasPending()}
}

// Submit queues pkt for sending from any goroutine and wakes the loop.
func (d *Driver) Submit(pkt *protocol.Packet) error {
	d.mu.Lock()
	d.submitted = append(d.submitted, pkt)
	d.mu.Unlock()
	return d.poller.Wake()
}

func (d *Driver) takeSubmitted() error {
	d.mu.Lock()
	pkts := d.submitted
	d.submitted = nil
	d.mu.Unlock()
	for _, pkt := range pkts {
		if err := d.sender.EnqueuePacket(pkt); err != nil {
			return err
		}
	}
	return nil
}

// Run drives the connection until the peer closes it, which returns nil,
// or until a read, write, framing or handler error, which is returned.
// Cancelling ctx stops the loop with ctx.Err() without closing the socket.
func (d *Driver) Run(ctx context.Context) error {
	fd := d.sock.Fd()
	d.registered = d.Interest()
	if err := d.poller.Add(fd, connKey, d.registered); err != nil {
		return &IOError{Op: "poll add", Err: err}
	}
	defer func() {
		_ = d.poller.Delete(fd)
	}()

	stop := context.AfterFunc(ctx, func() {
		_ = d.poller.Wake()
	})
	defer stop()

	d.metrics.IncConns()
	start := time.Now()
	defer func() {
		d.metrics.DecConns()
		d.metrics.ObserveConnDuration(time.Since(start))
	}()

	events := make([]poller.Event, 8)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.takeSubmitted(); err != nil {
			return err
		}
		if err := d.updateInterest(fd); err != nil {
			return err
		}

		n, err := d.poller.Wait(events, d.pollTimeout)
		if err != nil {
			return &IOError{Op: "poll wait", Err: err}
		}
		for _, ev := range events[:n] {
			if ev.Key != connKey {
				continue
			}
			if ev.Readable || ev.Hangup {
				closed, err := d.readOnce()
				if err != nil {
					return err
				}
				if closed {
					slog.Info("Connection closed by peer")
					return nil
				}
			}
			if ev.Writable {
				if err := d.writeOnce(); err != nil {
					return err
				}
			}
		}
	}
}

func (d *Driver) updateInterest(fd int) error {
	want := d.Interest()
	if want == d.registered {
		return nil
	}
	if err := d.poller.Modify(fd, connKey, want); err != nil {
		return &IOError{Op: "poll modify", Err: err}
	}
	slog.Debug("Interest changed", "from", d.registered.String(), "to", want.String())
	d.registered = want
	return nil
}

// readOnce does one read and dispatches every frame it completes. Frames
// completed before a framing violation are still dispatched.
func (d *Driver) readOnce() (closed bool, err error) {
	n, err := d.sock.Read(d.readBuf)
	switch {
	case errors.Is(err, ErrWouldBlock):
		return false, nil
	case errors.Is(err, io.EOF):
		return true, nil
	case err != nil:
		d.metrics.IncErrors("read")
		return false, &IOError{Op: "read", Err: err}
	case n == 0:
		return true, nil
	}
	d.metrics.AddReceivedBytes(n)

	frames, feedErr := d.sess.Feed(d.readBuf[:n])
	for range frames {
		d.metrics.IncFrames(protocol.S2C.String())
	}
	if len(frames) > 0 {
		if err := d.handler.HandleFrames(frames); err != nil {
			return false, err
		}
	}
	if feedErr != nil {
		d.metrics.IncErrors("framing")
		return false, feedErr
	}
	return false, nil
}

func (d *Driver) writeOnce() error {
	if !d.sess.HasPending() {
		return nil
	}
	n, err := d.sock.Write(d.sess.Pending())
	if errors.Is(err, ErrWouldBlock) {
		return nil
	}
	if err != nil {
		d.metrics.IncErrors("write")
		return &IOError{Op: "write", Err: err}
	}
	d.sess.Drain(n)
	d.metrics.AddSentBytes(n)
	return nil
}
