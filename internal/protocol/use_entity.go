package protocol

import (
	"bytes"
	"fmt"
	"io"
)

type UseEntityKind int32

const (
	UseEntityInteract   UseEntityKind = 0
	UseEntityAttack     UseEntityKind = 1
	UseEntityInteractAt UseEntityKind = 2
)

func (k UseEntityKind) String() string {
	switch k {
	case UseEntityInteract:
		return "interact"
	case UseEntityAttack:
		return "attack"
	case UseEntityInteractAt:
		return "interact_at"
	default:
		return fmt.Sprintf("UseEntityKind(%d)", int32(k))
	}
}

// UseEntity is the serverbound interact packet. TargetX/Y/Z are only
// present for InteractAt and are relative to the entity. Hand is absent
// for Attack.
type UseEntity struct {
	EntityID int32
	Kind     UseEntityKind
	TargetX  float32
	TargetY  float32
	TargetZ  float32
	Hand     int32
	Sneaking bool
}

func ParseUseEntity(r io.Reader) (*UseEntity, error) {
	var u UseEntity
	var err error
	if u.EntityID, _, err = ReadVarInt(r); err != nil {
		return nil, err
	}
	kind, _, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	u.Kind = UseEntityKind(kind)
	switch u.Kind {
	case UseEntityInteract:
		if u.Hand, _, err = ReadVarInt(r); err != nil {
			return nil, err
		}
	case UseEntityAttack:
	case UseEntityInteractAt:
		if u.TargetX, err = ReadFloat(r); err != nil {
			return nil, err
		}
		if u.TargetY, err = ReadFloat(r); err != nil {
			return nil, err
		}
		if u.TargetZ, err = ReadFloat(r); err != nil {
			return nil, err
		}
		if u.Hand, _, err = ReadVarInt(r); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unknown use entity kind %d", ErrInvalidPacket, kind)
	}
	if u.Sneaking, err = ReadBool(r); err != nil {
		return nil, err
	}
	return &u, nil
}

func CreateUseEntityPacket(u *UseEntity) *Packet {
	buf := new(bytes.Buffer)
	_ = WriteVarInt(buf, u.EntityID)
	_ = WriteVarInt(buf, int32(u.Kind))
	switch u.Kind {
	case UseEntityInteract:
		_ = WriteVarInt(buf, u.Hand)
	case UseEntityInteractAt:
		_ = WriteFloat(buf, u.TargetX)
		_ = WriteFloat(buf, u.TargetY)
		_ = WriteFloat(buf, u.TargetZ)
		_ = WriteVarInt(buf, u.Hand)
	}
	_ = WriteBool(buf, u.Sneaking)
	return &Packet{
		ID:      C2SUseEntity,
		Payload: buf.Bytes(),
	}
}
