package protocol

import (
	"io"
)

const (
	SEGMENT_BITS = 0x7F
	CONTINUE_BIT = 0x80

	MaxVarIntLen  = 5
	MaxVarLongLen = 10
)

// ReadVarInt reads one VarInt from r and reports how many bytes it consumed.
// The accumulated bit pattern is reinterpreted as a two's complement int32.
func ReadVarInt(r io.Reader) (value int32, n int, err error) {
	var uvalue uint32
	var buf [1]byte
	for {
		if _, err = io.ReadFull(r, buf[:]); err != nil {
			return 0, n, eof(err)
		}
		b := buf[0]
		uvalue |= uint32(b&SEGMENT_BITS) << (7 * n)
		n++
		if b&CONTINUE_BIT == 0 {
			return int32(uvalue), n, nil
		}
		if n >= MaxVarIntLen {
			return 0, n, ErrMalformedVarInt
		}
	}
}

// ReadVarLong is the 64-bit form of ReadVarInt with a 10 byte ceiling.
func ReadVarLong(r io.Reader) (value int64, n int, err error) {
	var uvalue uint64
	var buf [1]byte
	for {
		if _, err = io.ReadFull(r, buf[:]); err != nil {
			return 0, n, eof(err)
		}
		b := buf[0]
		uvalue |= uint64(b&SEGMENT_BITS) << (7 * n)
		n++
		if b&CONTINUE_BIT == 0 {
			return int64(uvalue), n, nil
		}
		if n >= MaxVarLongLen {
			return 0, n, ErrMalformedVarInt
		}
	}
}

// DecodeVarInt decodes a VarInt from the front of buf. ErrUnexpectedEOF means
// buf holds a valid but incomplete prefix and more bytes are needed.
func DecodeVarInt(buf []byte) (int32, int, error) {
	var uvalue uint32
	for i, b := range buf {
		if i >= MaxVarIntLen {
			return 0, 0, ErrMalformedVarInt
		}
		uvalue |= uint32(b&SEGMENT_BITS) << (7 * i)
		if b&CONTINUE_BIT == 0 {
			return int32(uvalue), i + 1, nil
		}
	}
	if len(buf) >= MaxVarIntLen {
		return 0, 0, ErrMalformedVarInt
	}
	return 0, 0, ErrUnexpectedEOF
}

// AppendVarInt appends the canonical encoding of value to dst.
func AppendVarInt(dst []byte, value int32) []byte {
	uvalue := uint32(value)
	for uvalue >= CONTINUE_BIT {
		dst = append(dst, byte(uvalue&SEGMENT_BITS)|CONTINUE_BIT)
		uvalue >>= 7
	}
	return append(dst, byte(uvalue))
}

func AppendVarLong(dst []byte, value int64) []byte {
	uvalue := uint64(value)
	for uvalue >= CONTINUE_BIT {
		dst = append(dst, byte(uvalue&SEGMENT_BITS)|CONTINUE_BIT)
		uvalue >>= 7
	}
	return append(dst, byte(uvalue))
}

func WriteVarInt(w io.Writer, value int32) error {
	var buf [MaxVarIntLen]byte
	_, err := w.Write(AppendVarInt(buf[:0], value))
	return err
}

func WriteVarLong(w io.Writer, value int64) error {
	var buf [MaxVarLongLen]byte
	_, err := w.Write(AppendVarLong(buf[:0], value))
	return err
}

// VarIntLen returns the encoded length of value in bytes.
func VarIntLen(value int32) int {
	uvalue := uint32(value)
	count := 1
	for uvalue >= CONTINUE_BIT {
		uvalue >>= 7
		count++
	}
	return count
}

func VarLongLen(value int64) int {
	uvalue := uint64(value)
	count := 1
	for uvalue >= CONTINUE_BIT {
		uvalue >>= 7
		count++
	}
	return count
}
