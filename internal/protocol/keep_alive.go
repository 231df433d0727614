package protocol

import (
	"bytes"
	"io"
)

// KeepAlive is the play-state liveness probe. A client that does not echo
// ID back within 30 seconds is dropped by the server.
type KeepAlive struct {
	ID int64
}

// CreateKeepAlivePacket builds a keep-alive with the given packet ID, which
// picks the direction.
func CreateKeepAlivePacket(id int64, packetID int32) *Packet {
	buf := new(bytes.Buffer)
	_ = WriteInt64(buf, id)
	return &Packet{ID: packetID, Payload: buf.Bytes()}
}

func ParseKeepAlive(r io.Reader) (*KeepAlive, error) {
	id, err := ReadInt64(r)
	if err != nil {
		return nil, err
	}
	return &KeepAlive{ID: id}, nil
}

// Reply is the serverbound echo of k.
func (k *KeepAlive) Reply() *Packet {
	return CreateKeepAlivePacket(k.ID, C2SPlayKeepAlive)
}
