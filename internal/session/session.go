// Package session frames a byte stream into length-prefixed packets and
// queues length-prefixed packets for writing.
package session

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/Versifine/dune/internal/protocol"
)

// Frame is one complete inbound packet. Raw is the frame as it appeared on
// the wire; Payload is Raw without its length prefix.
type Frame struct {
	Raw     []byte
	Payload []byte
}

type Option func(*Session)

// WithMaxFrameSize overrides protocol.MaxPacketSize as the largest accepted
// frame payload, in both directions.
func WithMaxFrameSize(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.maxFrameSize = n
		}
	}
}

// Session owns the inbound accumulator and the outbound queue of one
// connection. It is driven from a single goroutine and does no locking.
type Session struct {
	in           bytes.Buffer
	out          bytes.Buffer
	maxFrameSize int
	err          error
}

func New(opts ...Option) *Session {
	s := &Session{maxFrameSize: protocol.MaxPacketSize}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) MaxFrameSize() int {
	return s.maxFrameSize
}

// Feed appends data to the inbound accumulator and returns every frame it
// completes, in wire order. A length prefix that is malformed, negative or
// over the limit is fatal: frames completed before it are returned together
// with the error, and every later call fails with the same error.
func (s *Session) Feed(data []byte) ([]Frame, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.in.Write(data)

	var frames []Frame
	for {
		buf := s.in.Bytes()
		length, n, err := protocol.DecodeVarInt(buf)
		if errors.Is(err, protocol.ErrUnexpectedEOF) {
			return frames, nil
		}
		if err != nil {
			s.err = fmt.Errorf("%w: %w", protocol.ErrMalformedLength, err)
			return frames, s.err
		}
		if length < 0 {
			s.err = fmt.Errorf("%w: negative length %d", protocol.ErrMalformedLength, length)
			return frames, s.err
		}
		if int(length) > s.maxFrameSize {
			s.err = fmt.Errorf("%w: %d > %d", protocol.ErrFrameTooLarge, length, s.maxFrameSize)
			return frames, s.err
		}
		total := n + int(length)
		if len(buf) < total {
			return frames, nil
		}
		raw := make([]byte, total)
		copy(raw, s.in.Next(total))
		frames = append(frames, Frame{Raw: raw, Payload: raw[n:]})
	}
}

// Buffered reports how many inbound bytes are waiting for their frame to complete.
func (s *Session) Buffered() int {
	return s.in.Len()
}

// Enqueue prefixes payload with its VarInt length and appends it to the
// outbound queue.
func (s *Session) Enqueue(payload []byte) error {
	if len(payload) > s.maxFrameSize {
		return fmt.Errorf("%w: outbound %d > %d", protocol.ErrFrameTooLarge, len(payload), s.maxFrameSize)
	}
	var prefix [protocol.MaxVarIntLen]byte
	s.out.Write(protocol.AppendVarInt(prefix[:0], int32(len(payload))))
	s.out.Write(payload)
	return nil
}

// EnqueuePacket is Enqueue of pkt.Marshal().
func (s *Session) EnqueuePacket(pkt *protocol.Packet) error {
	return s.Enqueue(pkt.Marshal())
}

// Pending returns the unsent outbound bytes without consuming them. The
// slice is valid until the next Enqueue or Drain.
func (s *Session) Pending() []byte {
	return s.out.Bytes()
}

func (s *Session) HasPending() bool {
	return s.out.Len() > 0
}

// Drain removes up to n bytes from the front of the outbound queue and
// returns them. The slice is valid until the next Enqueue.
func (s *Session) Drain(n int) []byte {
	return s.out.Next(n)
}
