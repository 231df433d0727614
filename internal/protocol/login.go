package protocol

import (
	"bytes"
	"io"

	"github.com/google/uuid"
)

type LoginStart struct {
	Username string
}

func ParseLoginStart(r io.Reader) (*LoginStart, error) {
	username, err := ReadString(r)
	if err != nil {
		return nil, err
	}
	return &LoginStart{Username: username}, nil
}

func CreateLoginStartPacket(username string) *Packet {
	buf := new(bytes.Buffer)
	_ = WriteString(buf, username)
	return &Packet{
		ID:      C2SLoginStart,
		Payload: buf.Bytes(),
	}
}

type LoginSuccess struct {
	UUID     uuid.UUID
	Username string
}

func ParseLoginSuccess(r io.Reader) (*LoginSuccess, error) {
	id, err := ReadUUID(r)
	if err != nil {
		return nil, err
	}
	username, err := ReadString(r)
	if err != nil {
		return nil, err
	}
	return &LoginSuccess{
		UUID:     id,
		Username: username,
	}, nil
}

func CreateLoginSuccessPacket(id uuid.UUID, username string) *Packet {
	buf := new(bytes.Buffer)
	_ = WriteUUID(buf, id)
	_ = WriteString(buf, username)
	return &Packet{
		ID:      S2CLoginSuccess,
		Payload: buf.Bytes(),
	}
}

type SetCompression struct {
	Threshold int32
}

func ParseSetCompression(r io.Reader) (*SetCompression, error) {
	threshold, _, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	return &SetCompression{Threshold: threshold}, nil
}

// Disconnect carries the JSON chat component sent with a kick,
// in both the login and play states.
type Disconnect struct {
	Reason string
}

func ParseDisconnect(r io.Reader) (*Disconnect, error) {
	reason, err := ReadString(r)
	if err != nil {
		return nil, err
	}
	return &Disconnect{Reason: reason}, nil
}
