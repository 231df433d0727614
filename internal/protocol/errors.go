package protocol

import (
	"errors"
	"io"
)

var (
	ErrMalformedVarInt = errors.New("malformed varint: too many continuation bytes")
	// ErrUnexpectedEOF is returned when input ends in the middle of a value or frame.
	// It is io.ErrUnexpectedEOF so callers can match either name.
	ErrUnexpectedEOF   = io.ErrUnexpectedEOF
	ErrFrameTooLarge   = errors.New("frame size exceeds maximum allowed")
	ErrMalformedLength = errors.New("malformed frame length")
	ErrInvalidPacket   = errors.New("invalid packet structure")
	ErrNestingTooDeep  = errors.New("NBT nesting too deep")
	ErrUnknownTag      = errors.New("unknown NBT tag type")
	ErrInvalidNBTType  = errors.New("invalid NBT type")
	ErrStringTooLong   = errors.New("string length exceeds maximum allowed")
)

// eof turns a clean io.EOF into ErrUnexpectedEOF; every caller has already
// committed to reading a value when it hits the end of the stream.
func eof(err error) error {
	if errors.Is(err, io.EOF) {
		return ErrUnexpectedEOF
	}
	return err
}
