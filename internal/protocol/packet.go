package protocol

import (
	"bytes"
	"fmt"
)

// MaxPacketSize is the default upper bound for one frame payload.
const MaxPacketSize = 2097152 // 2MB

// Packet is a decoded frame payload: [VarInt ID][Payload].
type Packet struct {
	ID      int32
	Payload []byte
}

// ParsePacket splits a frame payload into its packet id and body.
// Payload aliases the input.
func ParsePacket(framePayload []byte) (*Packet, error) {
	if len(framePayload) == 0 {
		return nil, fmt.Errorf("%w: empty frame", ErrInvalidPacket)
	}
	id, n, err := DecodeVarInt(framePayload)
	if err != nil {
		return nil, fmt.Errorf("%w: packet id: %w", ErrInvalidPacket, err)
	}
	return &Packet{
		ID:      id,
		Payload: framePayload[n:],
	}, nil
}

// Marshal returns [VarInt ID][Payload]. The frame length prefix is added by the session.
func (p *Packet) Marshal() []byte {
	out := make([]byte, 0, VarIntLen(p.ID)+len(p.Payload))
	out = AppendVarInt(out, p.ID)
	return append(out, p.Payload...)
}

// Reader returns a reader over the packet body.
func (p *Packet) Reader() *bytes.Reader {
	return bytes.NewReader(p.Payload)
}
