package protocol

import (
	"bytes"
	"io"
)

const (
	NextStateStatus = 1
	NextStateLogin  = 2
)

type Handshake struct {
	ProtocolVersion int32
	ServerAddress   string
	ServerPort      uint16
	NextState       int32
}

func ParseHandshake(r io.Reader) (*Handshake, error) {
	protocolVersion, _, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	serverAddress, err := ReadString(r)
	if err != nil {
		return nil, err
	}
	serverPort, err := ReadUnsignedShort(r)
	if err != nil {
		return nil, err
	}
	nextState, _, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	return &Handshake{
		ProtocolVersion: protocolVersion,
		ServerAddress:   serverAddress,
		ServerPort:      serverPort,
		NextState:       nextState,
	}, nil
}

func CreateHandshakePacket(protocolVersion int32, host string, port uint16, nextState int32) *Packet {
	buf := new(bytes.Buffer)
	_ = WriteVarInt(buf, protocolVersion)
	_ = WriteString(buf, host)
	_ = WriteUnsignedShort(buf, port)
	_ = WriteVarInt(buf, nextState)
	return &Packet{
		ID:      C2SHandshake,
		Payload: buf.Bytes(),
	}
}
