// Package replay records packet traffic to disk and plays it back through
// an event dispatcher.
package replay

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/Versifine/dune/internal/protocol"
)

// A record on disk is
//
//	u32 size | u32 id | u8 direction | data
//
// big-endian, where size counts id, direction and data.
const recordHeaderLen = 4 + 1

var ErrCorruptRecord = errors.New("corrupt record")

type DiskPacket struct {
	ID        int32
	Direction protocol.Direction
	Data      []byte
}

func (p *DiskPacket) Packet() *protocol.Packet {
	return &protocol.Packet{ID: p.ID, Payload: p.Data}
}

func (p *DiskPacket) WriteTo(w io.Writer) (int64, error) {
	var hdr [4 + recordHeaderLen]byte
	binary.BigEndian.PutUint32(hdr[0:4], uint32(recordHeaderLen+len(p.Data)))
	binary.BigEndian.PutUint32(hdr[4:8], uint32(p.ID))
	hdr[8] = byte(p.Direction)
	n, err := w.Write(hdr[:])
	if err != nil {
		return int64(n), err
	}
	m, err := w.Write(p.Data)
	return int64(n + m), err
}

// ReadDiskPacket returns io.EOF at a clean record boundary and
// ErrUnexpectedEOF inside a record.
func ReadDiskPacket(r io.Reader) (*DiskPacket, error) {
	var hdr [4 + recordHeaderLen]byte
	if _, err := io.ReadFull(r, hdr[:4]); err != nil {
		return nil, err
	}
	size := binary.BigEndian.Uint32(hdr[0:4])
	if size < recordHeaderLen || size > recordHeaderLen+protocol.MaxPacketSize {
		return nil, fmt.Errorf("%w: size %d", ErrCorruptRecord, size)
	}
	if _, err := io.ReadFull(r, hdr[4:]); err != nil {
		return nil, unexpected(err)
	}
	dir := protocol.Direction(hdr[8])
	if dir != protocol.C2S && dir != protocol.S2C {
		return nil, fmt.Errorf("%w: direction %d", ErrCorruptRecord, hdr[8])
	}
	p := &DiskPacket{
		ID:        int32(binary.BigEndian.Uint32(hdr[4:8])),
		Direction: dir,
		Data:      make([]byte, size-recordHeaderLen),
	}
	if _, err := io.ReadFull(r, p.Data); err != nil {
		return nil, unexpected(err)
	}
	return p, nil
}

func unexpected(err error) error {
	if errors.Is(err, io.EOF) {
		return protocol.ErrUnexpectedEOF
	}
	return err
}
