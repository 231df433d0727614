package protocol

import (
	"bytes"
	"io"
)

// Relative-position flags of the clientbound position packet.
const (
	RelX     = 0x01
	RelY     = 0x02
	RelZ     = 0x04
	RelYaw   = 0x08
	RelPitch = 0x10
)

// PlayerPosition is the clientbound "Player Position And Look" packet.
type PlayerPosition struct {
	X               float64
	Y               float64
	Z               float64
	Yaw             float32
	Pitch           float32
	Flags           int8
	TeleportID      int32
	DismountVehicle bool
}

func ParsePlayerPosition(r io.Reader) (*PlayerPosition, error) {
	var p PlayerPosition
	var err error
	if p.X, err = ReadDouble(r); err != nil {
		return nil, err
	}
	if p.Y, err = ReadDouble(r); err != nil {
		return nil, err
	}
	if p.Z, err = ReadDouble(r); err != nil {
		return nil, err
	}
	if p.Yaw, err = ReadFloat(r); err != nil {
		return nil, err
	}
	if p.Pitch, err = ReadFloat(r); err != nil {
		return nil, err
	}
	if p.Flags, err = ReadInt8(r); err != nil {
		return nil, err
	}
	if p.TeleportID, _, err = ReadVarInt(r); err != nil {
		return nil, err
	}
	if p.DismountVehicle, err = ReadBool(r); err != nil {
		return nil, err
	}
	return &p, nil
}

func CreatePlayerPositionPacket(p *PlayerPosition) *Packet {
	buf := new(bytes.Buffer)
	_ = WriteDouble(buf, p.X)
	_ = WriteDouble(buf, p.Y)
	_ = WriteDouble(buf, p.Z)
	_ = WriteFloat(buf, p.Yaw)
	_ = WriteFloat(buf, p.Pitch)
	_ = WriteByte(buf, byte(p.Flags))
	_ = WriteVarInt(buf, p.TeleportID)
	_ = WriteBool(buf, p.DismountVehicle)
	return &Packet{
		ID:      S2CPlayerPosition,
		Payload: buf.Bytes(),
	}
}

func CreateTeleportConfirmPacket(teleportID int32) *Packet {
	buf := new(bytes.Buffer)
	_ = WriteVarInt(buf, teleportID)
	return &Packet{
		ID:      C2STeleportConfirm,
		Payload: buf.Bytes(),
	}
}

// MovePlayer covers the serverbound position and position+look packets.
// HasLook is set for the latter.
type MovePlayer struct {
	X        float64
	Y        float64
	Z        float64
	Yaw      float32
	Pitch    float32
	OnGround bool
	HasLook  bool
}

func ParseMovePlayer(r io.Reader, withLook bool) (*MovePlayer, error) {
	m := MovePlayer{HasLook: withLook}
	var err error
	if m.X, err = ReadDouble(r); err != nil {
		return nil, err
	}
	if m.Y, err = ReadDouble(r); err != nil {
		return nil, err
	}
	if m.Z, err = ReadDouble(r); err != nil {
		return nil, err
	}
	if withLook {
		if m.Yaw, err = ReadFloat(r); err != nil {
			return nil, err
		}
		if m.Pitch, err = ReadFloat(r); err != nil {
			return nil, err
		}
	}
	if m.OnGround, err = ReadBool(r); err != nil {
		return nil, err
	}
	return &m, nil
}

func CreateMovePlayerPacket(m *MovePlayer) *Packet {
	buf := new(bytes.Buffer)
	_ = WriteDouble(buf, m.X)
	_ = WriteDouble(buf, m.Y)
	_ = WriteDouble(buf, m.Z)
	id := int32(C2SPosition)
	if m.HasLook {
		_ = WriteFloat(buf, m.Yaw)
		_ = WriteFloat(buf, m.Pitch)
		id = C2SPositionLook
	}
	_ = WriteBool(buf, m.OnGround)
	return &Packet{
		ID:      id,
		Payload: buf.Bytes(),
	}
}
