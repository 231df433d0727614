package client

import (
	"fmt"

	"github.com/Versifine/dune/internal/protocol"
)

const MaxUsernameLen = 16

// Login describes how the client introduces itself.
type Login struct {
	Host            string
	Port            uint16
	Username        string
	ProtocolVersion int32
}

// PacketSender sends a serverbound packet and updates the connection state
// it implies. *event.Dispatcher satisfies it.
type PacketSender interface {
	Send(pkt *protocol.Packet) error
}

// Bootstrap queues the handshake (next state login) and login start that
// open a play session.
func Bootstrap(s PacketSender, l Login) error {
	if l.Username == "" || len(l.Username) > MaxUsernameLen {
		return fmt.Errorf("invalid username %q: must be 1-%d bytes", l.Username, MaxUsernameLen)
	}
	version := l.ProtocolVersion
	if version == 0 {
		version = protocol.CurrentProtocolVersion
	}
	if err := s.Send(protocol.CreateHandshakePacket(version, l.Host, l.Port, protocol.NextStateLogin)); err != nil {
		return err
	}
	return s.Send(protocol.CreateLoginStartPacket(l.Username))
}
